// Package grid holds the in-memory table model: rows, the active search,
// sort and pagination window, the row selection set, and the focused cell.
// The derived view is always filter -> sort -> paginate over the row set.
package grid

import (
	"sort"
	"strconv"
	"strings"

	"sovgrid/internal/schema"
)

// FrozenCol is the view column index of the frozen leading column in SOV
// mode. It is focusable and copyable but never editable.
const FrozenCol = -1

// SortDirection is the active sort direction for the sort column.
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAsc
	SortDesc
)

// Row is one business record. IDs are assigned by the record store and are
// stable for the row's lifetime.
type Row struct {
	ID     string
	Fields map[string]any
}

// Field returns the stored value for key; absent and nil are equivalent.
func (r Row) Field(key string) any {
	if r.Fields == nil {
		return nil
	}
	return r.Fields[key]
}

// CellRef is a view-relative cell coordinate: Row indexes the current page's
// visible rows, Col indexes the schema (or FrozenCol).
type CellRef struct {
	Row int
	Col int
}

// Model owns one grid instance's state. Not safe for concurrent use; a grid
// belongs to a single event loop.
type Model struct {
	sch      *schema.Schema
	rows     []Row
	search   string
	sortKey  string // "" means insertion order
	sortDir  SortDirection
	page     int // 1-based
	pageSize int
	selected map[string]bool
	focus    CellRef
	focused  bool
	frozen   bool
}

// New returns an empty grid over sch. frozen enables the SOV leading column.
func New(sch *schema.Schema, pageSize int, frozen bool) *Model {
	if pageSize < 1 {
		pageSize = 50
	}
	return &Model{
		sch:      sch,
		page:     1,
		pageSize: pageSize,
		selected: make(map[string]bool),
		frozen:   frozen,
	}
}

// Schema returns the column schema.
func (m *Model) Schema() *schema.Schema { return m.sch }

// Frozen reports whether the SOV leading column is enabled.
func (m *Model) Frozen() bool { return m.frozen }

// ---------------------------------------------------------------------------
// Row set
// ---------------------------------------------------------------------------

// SetRows replaces the full row set (a resync from the record store).
// Selection is pruned to surviving ids; focus is revalidated best-effort.
func (m *Model) SetRows(rows []Row) {
	m.rows = append([]Row(nil), rows...)
	m.pruneSelection()
	m.clampPage()
	m.revalidateFocus()
}

// Rows returns the underlying row set in insertion order.
func (m *Model) Rows() []Row { return m.rows }

// RowByID returns a pointer into the row set, or nil.
func (m *Model) RowByID(id string) *Row {
	for i := range m.rows {
		if m.rows[i].ID == id {
			return &m.rows[i]
		}
	}
	return nil
}

// ApplyField sets a single field on the row with the given id. No-op when the
// row no longer exists.
func (m *Model) ApplyField(id, key string, v any) {
	r := m.RowByID(id)
	if r == nil {
		return
	}
	if r.Fields == nil {
		r.Fields = make(map[string]any)
	}
	if v == nil {
		delete(r.Fields, key)
		return
	}
	r.Fields[key] = v
}

// AppendRows adds store-created rows to the end of the row set.
func (m *Model) AppendRows(rows []Row) {
	m.rows = append(m.rows, rows...)
	m.clampPage()
	m.revalidateFocus()
}

// RemoveRows deletes rows by id, pruning selection and revalidating focus.
func (m *Model) RemoveRows(ids []string) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := m.rows[:0]
	for _, r := range m.rows {
		if !drop[r.ID] {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	m.pruneSelection()
	m.clampPage()
	m.revalidateFocus()
}

// ---------------------------------------------------------------------------
// Derived view: filter -> sort -> paginate
// ---------------------------------------------------------------------------

// Filtered returns the searched, sorted row list across all pages.
func (m *Model) Filtered() []Row {
	out := make([]Row, 0, len(m.rows))
	q := strings.ToLower(strings.TrimSpace(m.search))
	for _, r := range m.rows {
		if q == "" || m.matchesSearch(r, q) {
			out = append(out, r)
		}
	}
	m.sortRows(out)
	return out
}

// View returns the current page of the derived view.
func (m *Model) View() []Row {
	filtered := m.Filtered()
	start := m.pageSize * (m.page - 1)
	if start >= len(filtered) {
		return nil
	}
	end := start + m.pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

// ViewRow returns the page row at view index i.
func (m *Model) ViewRow(i int) (Row, bool) {
	page := m.View()
	if i < 0 || i >= len(page) {
		return Row{}, false
	}
	return page[i], true
}

func (m *Model) matchesSearch(r Row, q string) bool {
	for _, key := range m.sch.SearchKeys() {
		s, ok := r.Field(key).(string)
		if ok && strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

// sortRows stable-sorts rows by the active sort column. Null values sort
// last under both directions. Numeric and currency columns compare as
// floats, with non-numeric text coercing to 0; everything else compares
// case-insensitively as strings.
func (m *Model) sortRows(rows []Row) {
	if m.sortKey == "" || m.sortDir == SortNone {
		return
	}
	idx := m.sch.Index(m.sortKey)
	if idx < 0 {
		return
	}
	col, _ := m.sch.Col(idx)
	numeric := col.Type == schema.TypeNumber || col.Type == schema.TypeCurrency
	asc := m.sortDir == SortAsc
	sort.SliceStable(rows, func(i, j int) bool {
		vi, vj := rows[i].Field(m.sortKey), rows[j].Field(m.sortKey)
		ni, nj := vi == nil, vj == nil
		if ni || nj {
			return !ni && nj // non-null before null, direction ignored
		}
		var cmp int
		if numeric {
			fi, fj := coerceFloat(vi), coerceFloat(vj)
			switch {
			case fi < fj:
				cmp = -1
			case fi > fj:
				cmp = 1
			}
		} else {
			cmp = strings.Compare(strings.ToLower(stringify(vi)), strings.ToLower(stringify(vj)))
		}
		if asc {
			return cmp < 0
		}
		return cmp > 0
	})
}

func coerceFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(t, ",", ""), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

// ---------------------------------------------------------------------------
// Search / sort / pagination controls
// ---------------------------------------------------------------------------

// Search returns the active search query.
func (m *Model) Search() string { return m.search }

// SetSearch replaces the search query, resetting to page 1.
func (m *Model) SetSearch(q string) {
	if m.search == q {
		return
	}
	m.search = q
	m.page = 1
	m.revalidateFocus()
}

// Sort returns the active sort column key and direction.
func (m *Model) Sort() (string, SortDirection) { return m.sortKey, m.sortDir }

// ToggleSort advances the sort state for key: asc on a new column, then
// asc -> desc -> cleared on repeats. Resets to page 1.
func (m *Model) ToggleSort(key string) {
	if m.sch.Index(key) < 0 {
		return
	}
	switch {
	case m.sortKey != key:
		m.sortKey, m.sortDir = key, SortAsc
	case m.sortDir == SortAsc:
		m.sortDir = SortDesc
	default:
		m.sortKey, m.sortDir = "", SortNone
	}
	m.page = 1
	m.revalidateFocus()
}

// Page returns the 1-based current page.
func (m *Model) Page() int { return m.page }

// PageSize returns the page window size.
func (m *Model) PageSize() int { return m.pageSize }

// PageCount returns the number of pages in the current filtered view, at
// least 1.
func (m *Model) PageCount() int {
	n := len(m.Filtered())
	if n == 0 {
		return 1
	}
	return (n + m.pageSize - 1) / m.pageSize
}

// SetPage moves to page p, clamped into range.
func (m *Model) SetPage(p int) {
	if p < 1 {
		p = 1
	}
	if pc := m.PageCount(); p > pc {
		p = pc
	}
	if p == m.page {
		return
	}
	m.page = p
	m.revalidateFocus()
}

func (m *Model) clampPage() {
	if pc := m.PageCount(); m.page > pc {
		m.page = pc
	}
	if m.page < 1 {
		m.page = 1
	}
}

// ---------------------------------------------------------------------------
// Selection (by row id, independent of the view)
// ---------------------------------------------------------------------------

// ToggleSelect flips the selection state of a row id.
func (m *Model) ToggleSelect(id string) {
	if id == "" {
		return
	}
	if m.selected[id] {
		delete(m.selected, id)
	} else {
		m.selected[id] = true
	}
}

// IsSelected reports whether the row id is selected.
func (m *Model) IsSelected(id string) bool { return m.selected[id] }

// SelectedCount returns the number of selected rows.
func (m *Model) SelectedCount() int { return len(m.selected) }

// Selected returns the selected row ids in insertion order of the row set.
func (m *Model) Selected() []string {
	out := make([]string, 0, len(m.selected))
	for _, r := range m.rows {
		if m.selected[r.ID] {
			out = append(out, r.ID)
		}
	}
	return out
}

// ClearSelection empties the selection set.
func (m *Model) ClearSelection() {
	m.selected = make(map[string]bool)
}

// pruneSelection drops selected ids that no longer exist in the row set.
func (m *Model) pruneSelection() {
	if len(m.selected) == 0 {
		return
	}
	keep := make(map[string]bool, len(m.rows))
	for _, r := range m.rows {
		keep[r.ID] = true
	}
	for id := range m.selected {
		if !keep[id] {
			delete(m.selected, id)
		}
	}
}

// ---------------------------------------------------------------------------
// Focus
// ---------------------------------------------------------------------------

// Focus returns the focused cell, if any.
func (m *Model) Focus() (CellRef, bool) { return m.focus, m.focused }

// SetFocus focuses the given cell when it is within the current page and
// schema bounds. Returns false (leaving focus unchanged) otherwise.
func (m *Model) SetFocus(ref CellRef) bool {
	if !m.validCell(ref) {
		return false
	}
	m.focus = ref
	m.focused = true
	return true
}

// ClearFocus drops cell focus.
func (m *Model) ClearFocus() {
	m.focused = false
	m.focus = CellRef{}
}

// MoveFocus shifts focus by (dr, dc), clamped at grid bounds. Rows never
// wrap. No-op when nothing is focused.
func (m *Model) MoveFocus(dr, dc int) {
	if !m.focused {
		return
	}
	next := CellRef{Row: m.focus.Row + dr, Col: m.focus.Col + dc}
	rows := len(m.View())
	if rows == 0 {
		return
	}
	if next.Row < 0 {
		next.Row = 0
	}
	if next.Row >= rows {
		next.Row = rows - 1
	}
	if next.Col < m.minCol() {
		next.Col = m.minCol()
	}
	if next.Col >= m.sch.Len() {
		next.Col = m.sch.Len() - 1
	}
	m.focus = next
}

// AdvanceFocus moves focus one editable column forward (or back), wrapping
// to the next/previous row at schema bounds and clamping at the first/last
// row of the page. The frozen column is skipped. Returns the new focus and
// whether it moved.
func (m *Model) AdvanceFocus(back bool) (CellRef, bool) {
	if !m.focused {
		return CellRef{}, false
	}
	rows := len(m.View())
	if rows == 0 {
		return m.focus, false
	}
	next := m.focus
	if back {
		next.Col--
		if next.Col < 0 {
			if next.Row == 0 {
				return m.focus, false
			}
			next.Row--
			next.Col = m.sch.Len() - 1
		}
	} else {
		next.Col++
		if next.Col >= m.sch.Len() {
			if next.Row >= rows-1 {
				return m.focus, false
			}
			next.Row++
			next.Col = 0
		}
	}
	m.focus = next
	return next, true
}

func (m *Model) minCol() int {
	if m.frozen {
		return FrozenCol
	}
	return 0
}

func (m *Model) validCell(ref CellRef) bool {
	if ref.Row < 0 || ref.Row >= len(m.View()) {
		return false
	}
	if ref.Col == FrozenCol {
		return m.frozen
	}
	return ref.Col >= 0 && ref.Col < m.sch.Len()
}

// revalidateFocus clamps the focused row into the new page, clearing focus
// when the page is empty. Called after every view-shape change since row
// indices shift under sort, filter, and pagination.
func (m *Model) revalidateFocus() {
	if !m.focused {
		return
	}
	rows := len(m.View())
	if rows == 0 {
		m.ClearFocus()
		return
	}
	if m.focus.Row >= rows {
		m.focus.Row = rows - 1
	}
	if m.focus.Row < 0 {
		m.focus.Row = 0
	}
	if m.focus.Col != FrozenCol && m.focus.Col >= m.sch.Len() {
		m.focus.Col = m.sch.Len() - 1
	}
}
