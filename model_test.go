package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"sovgrid/internal/config"
	"sovgrid/internal/grid"
	"sovgrid/internal/store"
)

// ---------------------------------------------------------------------------
// Test fakes and helpers
// ---------------------------------------------------------------------------

type fakeUpdate struct {
	id    string
	orgID string
	field string
	value any
}

type fakeStore struct {
	updates     []fakeUpdate
	inserts     [][]map[string]any
	deletes     [][]string
	failUpdates bool
	nextID      int
}

func (f *fakeStore) List(ctx context.Context, orgID, clientID string) ([]store.Record, error) {
	return nil, nil
}

func (f *fakeStore) Update(ctx context.Context, id, orgID, field string, value any) error {
	f.updates = append(f.updates, fakeUpdate{id: id, orgID: orgID, field: field, value: value})
	if f.failUpdates {
		return errors.New("store down")
	}
	return nil
}

func (f *fakeStore) InsertOne(ctx context.Context, orgID, clientID string, fields map[string]any) (store.Record, error) {
	recs, err := f.InsertMany(ctx, orgID, clientID, []map[string]any{fields})
	if err != nil {
		return store.Record{}, err
	}
	return recs[0], nil
}

func (f *fakeStore) InsertMany(ctx context.Context, orgID, clientID string, payloads []map[string]any) ([]store.Record, error) {
	f.inserts = append(f.inserts, payloads)
	out := make([]store.Record, len(payloads))
	for i, p := range payloads {
		f.nextID++
		out[i] = store.Record{ID: fmt.Sprintf("new-%d", f.nextID), OrgID: orgID, ClientID: clientID, Fields: p}
	}
	return out, nil
}

func (f *fakeStore) DeleteMany(ctx context.Context, ids []string, orgID string) error {
	f.deletes = append(f.deletes, ids)
	return nil
}

func testConfig() config.Config {
	return config.Config{
		Tenant: config.TenantConfig{OrgID: "org-1", ClientID: "client-1"},
		UI:     config.UIConfig{PageSize: 50, UndoDepth: 50},
	}
}

func testRows(n int) []grid.Row {
	rows := make([]grid.Row, n)
	for i := range rows {
		rows[i] = grid.Row{ID: fmt.Sprintf("row-%d", i), Fields: map[string]any{
			"location_name":  fmt.Sprintf("Site %d", i),
			"city":           "Dallas",
			"building_value": float64((i + 1) * 1000),
		}}
	}
	return rows
}

// newReadyModel builds a model wired to a fake store with n rows loaded, as
// if startup had completed.
func newReadyModel(t *testing.T, n int) (model, *fakeStore) {
	t.Helper()
	fs := &fakeStore{}
	m := newModel(testConfig())
	m.width = 160
	m.height = 40
	next, _ := m.Update(storeReadyMsg{st: fs, rows: testRows(n)})
	ready, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	if !ready.ready {
		t.Fatal("model not ready after storeReadyMsg")
	}
	return ready, fs
}

func press(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	res, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return res, cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func typeKey(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func pasteKey(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text), Paste: true}
}

// ---------------------------------------------------------------------------
// Focus and edit state machine
// ---------------------------------------------------------------------------

func TestArrowFocusesThenNavigates(t *testing.T) {
	m, _ := newReadyModel(t, 3)
	if _, ok := m.grid.Focus(); ok {
		t.Fatal("fresh model must start unfocused")
	}

	m, _ = press(t, m, typeKey(tea.KeyDown))
	ref, ok := m.grid.Focus()
	if !ok || ref != (grid.CellRef{Row: 0, Col: 0}) {
		t.Fatalf("first arrow must focus the top-left cell, got %+v", ref)
	}

	m, _ = press(t, m, typeKey(tea.KeyDown))
	m, _ = press(t, m, typeKey(tea.KeyRight))
	if ref, _ := m.grid.Focus(); ref != (grid.CellRef{Row: 1, Col: 1}) {
		t.Errorf("expected (1,1), got %+v", ref)
	}
}

func TestEnterEditsAndCommits(t *testing.T) {
	m, fs := newReadyModel(t, 3)
	m, _ = press(t, m, typeKey(tea.KeyDown))
	m, _ = press(t, m, typeKey(tea.KeyEnter))
	if m.mode != modeEditing {
		t.Fatalf("expected editing mode, got %v", m.mode)
	}
	if got := m.editInput.Value(); got != "Site 0" {
		t.Fatalf("editor must open with the current raw value, got %q", got)
	}

	m.editInput.SetValue("Renamed Plant")
	m, _ = press(t, m, typeKey(tea.KeyEnter))
	if m.mode != modeFocused {
		t.Errorf("expected focused after commit, got %v", m.mode)
	}
	if len(fs.updates) != 1 {
		t.Fatalf("expected 1 store update, got %d", len(fs.updates))
	}
	u := fs.updates[0]
	if u.id != "row-0" || u.orgID != "org-1" || u.field != "location_name" || u.value != "Renamed Plant" {
		t.Errorf("unexpected update %+v", u)
	}
	if got := m.grid.RowByID("row-0").Field("location_name"); got != "Renamed Plant" {
		t.Errorf("memory not updated, got %v", got)
	}
}

func TestTypedRuneSeedsEditor(t *testing.T) {
	m, _ := newReadyModel(t, 3)
	m, _ = press(t, m, typeKey(tea.KeyDown))
	m, _ = press(t, m, runeKey('Z'))
	if m.mode != modeEditing {
		t.Fatalf("printable rune must start editing, got mode %v", m.mode)
	}
	if got := m.editInput.Value(); got != "Z" {
		t.Errorf("expected seeded editor, got %q", got)
	}
}

func TestCommandRuneDoesNotSeed(t *testing.T) {
	m, _ := newReadyModel(t, 3)
	m, _ = press(t, m, typeKey(tea.KeyDown))
	m, _ = press(t, m, runeKey('s')) // sort command, not a seed
	if m.mode == modeEditing {
		t.Fatal("command rune must not start editing")
	}
	if key, dir := m.grid.Sort(); key != "location_name" || dir != grid.SortAsc {
		t.Errorf("expected sort on the focused column, got %q %v", key, dir)
	}
}

func TestEscDiscardsEdit(t *testing.T) {
	m, fs := newReadyModel(t, 3)
	m, _ = press(t, m, typeKey(tea.KeyDown))
	m, _ = press(t, m, typeKey(tea.KeyEnter))
	m.editInput.SetValue("should be discarded")
	m, _ = press(t, m, typeKey(tea.KeyEsc))

	if m.mode != modeFocused {
		t.Errorf("expected focused after cancel, got %v", m.mode)
	}
	if len(fs.updates) != 0 {
		t.Errorf("cancel must not reach the store, got %d calls", len(fs.updates))
	}
	if got := m.grid.RowByID("row-0").Field("location_name"); got != "Site 0" {
		t.Errorf("value must be unchanged, got %v", got)
	}
}

func TestTabCommitsAndChainsEdit(t *testing.T) {
	m, fs := newReadyModel(t, 3)
	m, _ = press(t, m, typeKey(tea.KeyDown))
	m, _ = press(t, m, typeKey(tea.KeyEnter))
	m.editInput.SetValue("First")
	m, _ = press(t, m, typeKey(tea.KeyTab))

	if len(fs.updates) != 1 {
		t.Fatalf("tab must commit exactly once, got %d", len(fs.updates))
	}
	if m.mode != modeEditing {
		t.Errorf("tab must re-enter editing on the next cell, got %v", m.mode)
	}
	if ref, _ := m.grid.Focus(); ref != (grid.CellRef{Row: 0, Col: 1}) {
		t.Errorf("expected focus advanced to (0,1), got %+v", ref)
	}
}

func TestEscWalksBackThroughStates(t *testing.T) {
	m, _ := newReadyModel(t, 3)
	m, _ = press(t, m, typeKey(tea.KeyDown))
	m.grid.ToggleSelect("row-1")
	m.grid.SetSearch("site")

	m, _ = press(t, m, typeKey(tea.KeyEsc)) // drops focus
	if _, ok := m.grid.Focus(); ok {
		t.Fatal("first esc must drop focus")
	}
	m, _ = press(t, m, typeKey(tea.KeyEsc)) // clears search
	if m.grid.Search() != "" {
		t.Fatal("second esc must clear search")
	}
	m, _ = press(t, m, typeKey(tea.KeyEsc)) // clears selection
	if m.grid.SelectedCount() != 0 {
		t.Fatal("third esc must clear selection")
	}
}

func TestStoreFailureSurfacesInStatusBar(t *testing.T) {
	m, fs := newReadyModel(t, 3)
	fs.failUpdates = true
	m, _ = press(t, m, typeKey(tea.KeyDown))
	m, _ = press(t, m, typeKey(tea.KeyEnter))
	m.editInput.SetValue("x")
	m, _ = press(t, m, typeKey(tea.KeyEnter))

	if !m.statusErr {
		t.Error("store failure must surface as an error status")
	}
	if got := m.grid.RowByID("row-0").Field("location_name"); got != "Site 0" {
		t.Errorf("memory must be untouched on store failure, got %v", got)
	}
}

// ---------------------------------------------------------------------------
// Paste handling
// ---------------------------------------------------------------------------

func TestBlockPasteCommitsFromFocus(t *testing.T) {
	m, fs := newReadyModel(t, 3)
	m, _ = press(t, m, typeKey(tea.KeyDown))
	m, _ = press(t, m, pasteKey("Alpha\tAustin\nBeta\tHouston"))

	if len(fs.updates) != 4 {
		t.Fatalf("expected 4 cell commits, got %d", len(fs.updates))
	}
	if got := m.grid.RowByID("row-1").Field("city"); got != "Houston" {
		t.Errorf("expected block applied row-major, got %v", got)
	}
	if m.eng.UndoLen() != 4 {
		t.Errorf("expected per-cell undo entries, got %d", m.eng.UndoLen())
	}
}

func TestSingleValuePasteSeedsEditor(t *testing.T) {
	m, fs := newReadyModel(t, 3)
	m, _ = press(t, m, typeKey(tea.KeyDown))
	m, _ = press(t, m, pasteKey("Pasted Name"))

	if m.mode != modeEditing {
		t.Fatalf("single-value paste must open the editor, got %v", m.mode)
	}
	if got := m.editInput.Value(); got != "Pasted Name" {
		t.Errorf("expected editor seeded with paste, got %q", got)
	}
	if len(fs.updates) != 0 {
		t.Error("single-value paste must not commit directly")
	}
}

func TestSingleValuePasteDropsTrailingNewline(t *testing.T) {
	m, _ := newReadyModel(t, 3)
	m, _ = press(t, m, typeKey(tea.KeyDown))
	m, _ = press(t, m, pasteKey("Pasted Name\r\n")) // Excel appends a line break

	if m.mode != modeEditing {
		t.Fatalf("single-value paste must open the editor, got %v", m.mode)
	}
	if got := m.editInput.Value(); got != "Pasted Name" {
		t.Errorf("expected trailing newline stripped, got %q", got)
	}
}

func TestPasteWithoutFocusIsRejected(t *testing.T) {
	m, fs := newReadyModel(t, 3)
	m, _ = press(t, m, pasteKey("a\tb"))
	if len(fs.updates) != 0 {
		t.Error("paste without focus must not hit the store")
	}
}

// ---------------------------------------------------------------------------
// Undo key
// ---------------------------------------------------------------------------

func TestCtrlZUndoes(t *testing.T) {
	m, fs := newReadyModel(t, 3)
	m, _ = press(t, m, typeKey(tea.KeyDown))
	m, _ = press(t, m, typeKey(tea.KeyEnter))
	m.editInput.SetValue("Changed")
	m, _ = press(t, m, typeKey(tea.KeyEnter))

	m, _ = press(t, m, typeKey(tea.KeyCtrlZ))
	if got := m.grid.RowByID("row-0").Field("location_name"); got != "Site 0" {
		t.Errorf("expected undo to restore, got %v", got)
	}
	if len(fs.updates) != 2 {
		t.Errorf("undo must be a store write too, got %d calls", len(fs.updates))
	}
	if fs.updates[1].orgID != "org-1" {
		t.Error("undo write must carry the org id")
	}
}

// ---------------------------------------------------------------------------
// Bulk paste modal
// ---------------------------------------------------------------------------

func TestBulkPasteModalInserts(t *testing.T) {
	m, fs := newReadyModel(t, 3)
	m.mode = modeBulkPaste
	m.bulkInput.SetValue("Location Name\tCity\nNew Site\tAustin\n")

	m, cmd := press(t, m, typeKey(tea.KeyCtrlS))
	if cmd == nil {
		t.Fatal("submit must produce an insert command")
	}
	if !m.saving {
		t.Error("saving flag must be set during the insert")
	}

	msg := cmd()
	done, ok := msg.(rowsInsertedMsg)
	if !ok {
		t.Fatalf("expected rowsInsertedMsg, got %T", msg)
	}
	m, _ = press(t, m, done)

	if m.saving {
		t.Error("saving flag must clear when the insert lands")
	}
	if len(fs.inserts) != 1 || len(fs.inserts[0]) != 1 {
		t.Fatalf("expected one batch of one payload, got %v", fs.inserts)
	}
	if fs.inserts[0][0]["location_name"] != "New Site" {
		t.Errorf("unexpected payload %v", fs.inserts[0][0])
	}
	if len(m.grid.Rows()) != 4 {
		t.Errorf("expected inserted row appended, got %d rows", len(m.grid.Rows()))
	}
}

func TestBulkPasteModalRejectsUnusableText(t *testing.T) {
	m, fs := newReadyModel(t, 3)
	m.mode = modeBulkPaste
	m.bulkInput.SetValue("\t\n\t\n")

	m, cmd := press(t, m, typeKey(tea.KeyCtrlS))
	if cmd != nil {
		t.Fatal("unusable paste must not produce a command")
	}
	if m.mode != modeBulkPaste {
		t.Error("modal must stay open on rejection")
	}
	if !m.statusErr {
		t.Error("rejection must surface as an error status")
	}
	if len(fs.inserts) != 0 {
		t.Error("nothing may reach the store")
	}
}

// ---------------------------------------------------------------------------
// Delete confirm modal
// ---------------------------------------------------------------------------

func TestDeleteFlowConfirm(t *testing.T) {
	m, fs := newReadyModel(t, 3)
	m, _ = press(t, m, typeKey(tea.KeyDown))
	m, _ = press(t, m, typeKey(tea.KeySpace)) // select row-0
	m, _ = press(t, m, runeKey('x'))
	if m.mode != modeConfirmDelete {
		t.Fatalf("expected confirm modal, got %v", m.mode)
	}

	m, cmd := press(t, m, runeKey('y'))
	if cmd == nil {
		t.Fatal("confirm must produce a delete command")
	}
	msg := cmd()
	m, _ = press(t, m, msg)

	if len(fs.deletes) != 1 || fs.deletes[0][0] != "row-0" {
		t.Fatalf("expected row-0 deleted, got %v", fs.deletes)
	}
	if len(m.grid.Rows()) != 2 {
		t.Errorf("expected 2 rows left, got %d", len(m.grid.Rows()))
	}
	if m.grid.SelectedCount() != 0 {
		t.Error("selection must clear after delete")
	}
}

func TestDeleteFlowCancel(t *testing.T) {
	m, fs := newReadyModel(t, 3)
	m, _ = press(t, m, typeKey(tea.KeyDown))
	m, _ = press(t, m, typeKey(tea.KeySpace))
	m, _ = press(t, m, runeKey('x'))
	m, cmd := press(t, m, runeKey('n'))
	if cmd != nil {
		t.Fatal("cancel must not produce a command")
	}
	if len(fs.deletes) != 0 || len(m.grid.Rows()) != 3 {
		t.Error("cancel must leave rows untouched")
	}
}

func TestDeleteWithoutSelectionIsHint(t *testing.T) {
	m, _ := newReadyModel(t, 3)
	m, _ = press(t, m, runeKey('x'))
	if m.mode == modeConfirmDelete {
		t.Fatal("delete with no selection must not open the modal")
	}
}

// ---------------------------------------------------------------------------
// Search mode
// ---------------------------------------------------------------------------

func TestSearchFlow(t *testing.T) {
	m, _ := newReadyModel(t, 3)
	m.grid.RowByID("row-2").Fields["city"] = "Austin"

	m, _ = press(t, m, runeKey('/'))
	if m.mode != modeSearch {
		t.Fatalf("expected search mode, got %v", m.mode)
	}
	m.searchInput.SetValue("austin")
	m, _ = press(t, m, typeKey(tea.KeyEnter))

	if m.mode == modeSearch {
		t.Fatal("enter must leave search mode")
	}
	if got := len(m.grid.View()); got != 1 {
		t.Errorf("expected 1 matching row, got %d", got)
	}
	if m.grid.Page() != 1 {
		t.Errorf("search must reset to page 1, got %d", m.grid.Page())
	}
}

// ---------------------------------------------------------------------------
// Async insert / add row
// ---------------------------------------------------------------------------

func TestAddRowRoundTrip(t *testing.T) {
	m, fs := newReadyModel(t, 1)
	m, cmd := press(t, m, runeKey('a'))
	if cmd == nil {
		t.Fatal("add must produce a command")
	}
	m, _ = press(t, m, cmd())
	if len(m.grid.Rows()) != 2 {
		t.Errorf("expected appended row, got %d", len(m.grid.Rows()))
	}
	if len(fs.inserts) != 1 {
		t.Errorf("expected one insert batch, got %d", len(fs.inserts))
	}
}

func TestSavingFlagGuardsReentrantBulkOps(t *testing.T) {
	m, _ := newReadyModel(t, 1)
	m.saving = true
	_, cmd := press(t, m, runeKey('a'))
	if cmd != nil {
		t.Error("add must be a no-op while a bulk op is in flight")
	}
}

// ---------------------------------------------------------------------------
// Mouse geometry
// ---------------------------------------------------------------------------

func TestCellAtMapsCoordinates(t *testing.T) {
	m, _ := newReadyModel(t, 3)

	// first column starts after the selection gutter
	ref, ok := m.cellAt(gutterWidth, gridTopRow)
	if !ok || ref != (grid.CellRef{Row: 0, Col: 0}) {
		t.Errorf("expected (0,0), got %+v ok=%v", ref, ok)
	}

	// second column starts one cell past the first column's width
	firstWidth := m.sch.Columns()[0].Width + 1
	ref, ok = m.cellAt(gutterWidth+firstWidth, gridTopRow+2)
	if !ok || ref != (grid.CellRef{Row: 2, Col: 1}) {
		t.Errorf("expected (2,1), got %+v ok=%v", ref, ok)
	}

	// above the grid and below the data are misses
	if _, ok := m.cellAt(5, 0); ok {
		t.Error("title row must not hit a cell")
	}
	if _, ok := m.cellAt(5, gridTopRow+50); ok {
		t.Error("past the last row must miss")
	}
}

func TestCellAtMissesChromeBelowBody(t *testing.T) {
	// more rows on the page than the viewport shows, so the rows under the
	// chrome lines exist but are scrolled off screen
	m, _ := newReadyModel(t, 50)
	if len(m.grid.View()) <= m.visibleRows() {
		t.Fatal("fixture must overflow the viewport")
	}

	last := gridTopRow + m.visibleRows() - 1
	ref, ok := m.cellAt(gutterWidth, last)
	if !ok || ref.Row != m.visibleRows()-1 {
		t.Errorf("expected the last visible row, got %+v ok=%v", ref, ok)
	}
	if _, ok := m.cellAt(gutterWidth, last+1); ok {
		t.Error("page-info line must not hit a cell")
	}
	if _, ok := m.cellAt(gutterWidth, last+2); ok {
		t.Error("status line must not hit a cell")
	}
}

func TestCellAtFrozenColumn(t *testing.T) {
	cfg := testConfig()
	cfg.UI.SOVMode = true
	fs := &fakeStore{}
	m := newModel(cfg)
	m.width = 160
	m.height = 40
	next, _ := m.Update(storeReadyMsg{st: fs, rows: testRows(2)})
	m = next.(model)

	ref, ok := m.cellAt(gutterWidth+1, gridTopRow)
	if !ok || ref.Col != grid.FrozenCol {
		t.Errorf("expected frozen column hit, got %+v ok=%v", ref, ok)
	}
	ref, ok = m.cellAt(gutterWidth+frozenWidth, gridTopRow)
	if !ok || ref.Col != 0 {
		t.Errorf("expected first schema column, got %+v ok=%v", ref, ok)
	}
}

// ---------------------------------------------------------------------------
// Scroll window
// ---------------------------------------------------------------------------

func TestScrollWindowFollowsFocus(t *testing.T) {
	m, _ := newReadyModel(t, 50) // 35 visible rows at height 40

	m, _ = press(t, m, typeKey(tea.KeyDown)) // focus (0,0)
	for i := 0; i < 40; i++ {
		m, _ = press(t, m, typeKey(tea.KeyDown))
	}
	if ref, _ := m.grid.Focus(); ref.Row != 40 {
		t.Fatalf("expected focus on row 40, got %+v", ref)
	}
	if want := 40 - m.visibleRows() + 1; m.topRow != want {
		t.Errorf("expected topRow %d, got %d", want, m.topRow)
	}

	// moving back inside the window must not scroll
	top := m.topRow
	for i := 0; i < 30; i++ {
		m, _ = press(t, m, typeKey(tea.KeyUp))
	}
	if m.topRow != top {
		t.Errorf("focus inside the window moved topRow from %d to %d", top, m.topRow)
	}

	// crossing the top edge snaps the window to the focused row exactly
	for i := 0; i < 8; i++ {
		m, _ = press(t, m, typeKey(tea.KeyUp))
	}
	if ref, _ := m.grid.Focus(); ref.Row != 2 {
		t.Fatalf("expected focus on row 2, got %+v", ref)
	}
	if m.topRow != 2 {
		t.Errorf("expected topRow 2, got %d", m.topRow)
	}
}

func TestScrollWindowFollowsFocusHorizontally(t *testing.T) {
	m, _ := newReadyModel(t, 3)
	m, _ = press(t, m, typeKey(tea.KeyDown))
	for i := 0; i < 9; i++ {
		m, _ = press(t, m, typeKey(tea.KeyRight))
	}
	if ref, _ := m.grid.Focus(); ref.Col != 9 {
		t.Fatalf("expected focus on column 9, got %+v", ref)
	}
	// columns 0..9 are wider than the 158-cell body at width 160, so the
	// window slides by exactly one column
	if m.leftCol != 1 {
		t.Errorf("expected leftCol 1, got %d", m.leftCol)
	}
	if m.colSpanWidth(m.leftCol, 9) > m.gridBodyWidth() {
		t.Error("focused column must fit inside the body width")
	}

	for i := 0; i < 9; i++ {
		m, _ = press(t, m, typeKey(tea.KeyLeft))
	}
	if m.leftCol != 0 {
		t.Errorf("expected leftCol back at 0, got %d", m.leftCol)
	}
}

func TestFrozenFocusKeepsColumnWindow(t *testing.T) {
	cfg := testConfig()
	cfg.UI.SOVMode = true
	fs := &fakeStore{}
	m := newModel(cfg)
	m.width = 160
	m.height = 40
	next, _ := m.Update(storeReadyMsg{st: fs, rows: testRows(2)})
	m = next.(model)

	m.leftCol = 3
	m.grid.SetFocus(grid.CellRef{Row: 0, Col: grid.FrozenCol})
	m.ensureFocusVisible()
	if m.leftCol != 3 {
		t.Errorf("frozen-column focus must not move the window, got leftCol %d", m.leftCol)
	}
}

// ---------------------------------------------------------------------------
// Rendering smoke
// ---------------------------------------------------------------------------

func TestViewRendersGridChrome(t *testing.T) {
	m, _ := newReadyModel(t, 3)
	out := m.View()
	for _, want := range []string{"Location Name", "Site 0", "page 1/1"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
