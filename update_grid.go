package main

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"sovgrid/internal/clip"
	"sovgrid/internal/grid"
	"sovgrid/internal/value"
)

// ---------------------------------------------------------------------------
// Grid keys (idle + focused)
// ---------------------------------------------------------------------------

func (m model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.ready {
		if key.Matches(msg, m.keys.Quit) || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}

	if msg.Paste {
		return m.handleGridPaste(string(msg.Runes))
	}

	switch {
	case msg.String() == "ctrl+c":
		if ref, ok := m.grid.Focus(); ok {
			m.copyCell(ref)
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Undo):
		m.undo()
		return m, nil

	case key.Matches(msg, m.keys.Navigate):
		if _, ok := m.grid.Focus(); !ok {
			m.grid.SetFocus(grid.CellRef{Row: m.topRow, Col: m.leftCol})
		} else {
			dr, dc := arrowDelta(msg.String())
			m.grid.MoveFocus(dr, dc)
		}
		if _, ok := m.grid.Focus(); ok {
			m.mode = modeFocused
		}
		m.ensureFocusVisible()
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if ref, ok := m.grid.Focus(); ok {
			m.startEditing(ref, "")
		}
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if _, ok := m.grid.Focus(); ok {
			if ref, moved := m.grid.AdvanceFocus(msg.String() == "shift+tab"); moved {
				m.ensureFocusVisible()
				m.startEditing(ref, "")
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		if _, ok := m.grid.Focus(); ok {
			m.grid.ClearFocus()
			m.mode = modeIdle
		} else if m.grid.Search() != "" {
			m.grid.SetSearch("")
			m.topRow = 0
			m.setStatus("Search cleared.")
		} else if m.grid.SelectedCount() > 0 {
			m.grid.ClearSelection()
			m.setStatus("Selection cleared.")
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searchInput.SetValue(m.grid.Search())
		m.searchInput.CursorEnd()
		m.mode = modeSearch
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Sort):
		ref, ok := m.grid.Focus()
		if !ok {
			m.setStatus("Focus a cell to sort its column.")
			return m, nil
		}
		if ref.Col == grid.FrozenCol {
			m.setStatus("The row-number column is not sortable.")
			return m, nil
		}
		col, _ := m.sch.Col(ref.Col)
		m.grid.ToggleSort(col.Key)
		m.topRow = 0
		m.ensureFocusVisible()
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		m.grid.SetPage(m.grid.Page() - 1)
		m.topRow = 0
		m.ensureFocusVisible()
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		m.grid.SetPage(m.grid.Page() + 1)
		m.topRow = 0
		m.ensureFocusVisible()
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if ref, ok := m.grid.Focus(); ok {
			if row, ok := m.grid.ViewRow(ref.Row); ok {
				m.grid.ToggleSelect(row.ID)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.AddRow):
		if m.saving {
			return m, nil
		}
		m.saving = true
		m.setStatus("Adding row...")
		return m, addRowCmd(m.st, m.cfg.Tenant.OrgID, m.cfg.Tenant.ClientID)

	case key.Matches(msg, m.keys.Duplicate):
		if m.saving {
			return m, nil
		}
		ids := m.grid.Selected()
		if len(ids) == 0 {
			m.setStatus("Select rows with space before duplicating.")
			return m, nil
		}
		payloads := make([]map[string]any, 0, len(ids))
		for _, id := range ids {
			if row := m.grid.RowByID(id); row != nil {
				payloads = append(payloads, cloneFields(row.Fields))
			}
		}
		m.saving = true
		m.setStatus("Duplicating...")
		return m, duplicateCmd(m.st, m.cfg.Tenant.OrgID, m.cfg.Tenant.ClientID, payloads)

	case key.Matches(msg, m.keys.Delete):
		if m.saving {
			return m, nil
		}
		if m.grid.SelectedCount() == 0 {
			m.setStatus("Select rows with space before deleting.")
			return m, nil
		}
		m.mode = modeConfirmDelete
		return m, nil

	case key.Matches(msg, m.keys.BulkPaste):
		if m.saving {
			return m, nil
		}
		m.bulkInput.Reset()
		if text, err := clipboard.ReadAll(); err == nil {
			m.bulkInput.SetValue(text)
		}
		m.mode = modeBulkPaste
		return m, m.bulkInput.Focus()
	}

	// any other printable rune starts editing, seeded with itself
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && !msg.Alt && !commandRunes[msg.Runes[0]] {
		if ref, ok := m.grid.Focus(); ok {
			m.startEditing(ref, string(msg.Runes))
		}
	}
	return m, nil
}

func arrowDelta(s string) (dr, dc int) {
	switch s {
	case "up":
		return -1, 0
	case "down":
		return 1, 0
	case "left":
		return 0, -1
	case "right":
		return 0, 1
	}
	return 0, 0
}

func cloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// ---------------------------------------------------------------------------
// Paste on the grid
// ---------------------------------------------------------------------------

func (m model) handleGridPaste(text string) (tea.Model, tea.Cmd) {
	ref, ok := m.grid.Focus()
	if !ok {
		m.setStatus("Focus a cell to paste, or press P to paste new rows.")
		return m, nil
	}
	if !clip.IsBlock(text) {
		m.startEditing(ref, strings.TrimRight(text, "\r\n"))
		return m, nil
	}
	if ref.Col == grid.FrozenCol {
		m.setStatus("The row-number column is read-only; move right to paste.")
		return m, nil
	}
	matrix := clip.ParseMatrix(text)
	applied, err := m.eng.CommitBlock(context.Background(), ref, matrix)
	if err != nil {
		m.setError("Paste partially applied: " + err.Error())
	} else {
		m.setStatusf("Pasted %d cells.", applied)
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Editing mode
// ---------------------------------------------------------------------------

// startEditing opens the inline editor on ref. A non-empty seed replaces the
// cell's current raw value, which matches typing over a spreadsheet cell.
func (m *model) startEditing(ref grid.CellRef, seed string) {
	if ref.Col == grid.FrozenCol {
		m.setStatus("The row-number column is read-only.")
		return
	}
	row, ok := m.grid.ViewRow(ref.Row)
	if !ok {
		return
	}
	col, _ := m.sch.Col(ref.Col)
	if seed != "" {
		m.editInput.SetValue(seed)
	} else {
		m.editInput.SetValue(editText(row.Field(col.Key)))
	}
	m.editInput.CursorEnd()
	m.editInput.Width = col.Width
	m.editInput.Focus()
	m.mode = modeEditing
}

// editText is the raw text the editor opens with, not the display string:
// numbers render without grouping or currency adornment so they round-trip.
func editText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	default:
		return ""
	}
}

func (m model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		m.stopEditing()
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		m.commitEdit()
		m.stopEditing()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		m.commitEdit()
		m.stopEditing()
		if ref, moved := m.grid.AdvanceFocus(msg.String() == "shift+tab"); moved {
			m.ensureFocusVisible()
			m.startEditing(ref, "")
		}
		return m, nil

	case key.Matches(msg, m.keys.Undo):
		m.undo()
		return m, nil
	}

	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	return m, cmd
}

func (m *model) commitEdit() {
	ref, ok := m.grid.Focus()
	if !ok {
		return
	}
	row, ok := m.grid.ViewRow(ref.Row)
	if !ok {
		return
	}
	col, _ := m.sch.Col(ref.Col)
	if _, err := m.eng.CommitCell(context.Background(), row.ID, col.Key, m.editInput.Value()); err != nil {
		m.setError("Save failed: " + err.Error())
		return
	}
	m.setStatusf("Saved %s.", col.Label)
}

func (m *model) stopEditing() {
	m.editInput.Blur()
	m.editInput.SetValue("")
	m.mode = modeFocused
}

func (m *model) undo() {
	ch, had, err := m.eng.Undo(context.Background())
	switch {
	case err != nil:
		m.setError("Undo failed: " + err.Error())
	case !had:
		m.setStatus("Nothing to undo.")
	default:
		m.setStatusf("Undid %s.", ch.Field)
	}
}

// ---------------------------------------------------------------------------
// Clipboard copy
// ---------------------------------------------------------------------------

func (m *model) copyCell(ref grid.CellRef) {
	row, ok := m.grid.ViewRow(ref.Row)
	if !ok {
		return
	}
	var text string
	if ref.Col == grid.FrozenCol {
		text = strconv.Itoa((m.grid.Page()-1)*m.grid.PageSize() + ref.Row + 1)
	} else {
		col, _ := m.sch.Col(ref.Col)
		text = value.FormatDisplay(row.Field(col.Key), col)
	}
	if err := clipboard.WriteAll(text); err != nil {
		m.setError("Clipboard unavailable: " + err.Error())
		return
	}
	m.setStatus("Copied cell.")
}

// ---------------------------------------------------------------------------
// Search mode
// ---------------------------------------------------------------------------

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.searchInput.Blur()
		m.mode = m.modeAfterOverlay()
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		m.grid.SetSearch(m.searchInput.Value())
		m.topRow = 0
		m.searchInput.Blur()
		m.mode = m.modeAfterOverlay()
		m.ensureFocusVisible()
		if q := m.grid.Search(); q != "" {
			m.setStatusf("%d rows match %q.", len(m.grid.Filtered()), q)
		} else {
			m.setStatus("Search cleared.")
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// modeAfterOverlay returns to focused or idle depending on whether focus
// survived the overlay.
func (m *model) modeAfterOverlay() uiMode {
	if _, ok := m.grid.Focus(); ok {
		return modeFocused
	}
	return modeIdle
}

// ---------------------------------------------------------------------------
// Mouse
// ---------------------------------------------------------------------------

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.ready || m.mode == modeBulkPaste || m.mode == modeConfirmDelete || m.mode == modeSearch {
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	ref, ok := m.cellAt(msg.X, msg.Y)
	if !ok {
		return m, nil
	}
	if m.mode == modeEditing {
		m.commitEdit()
		m.stopEditing()
	}

	now := time.Now()
	double := ref == m.lastClickCell && now.Sub(m.lastClickAt) < doubleClickWindow
	m.lastClickCell = ref
	m.lastClickAt = now

	m.grid.SetFocus(ref)
	m.mode = modeFocused
	m.ensureFocusVisible()
	if double {
		m.startEditing(ref, "")
	}
	return m, nil
}

// cellAt maps terminal coordinates to a cell on the current page, mirroring
// the layout render.go paints.
func (m *model) cellAt(x, y int) (grid.CellRef, bool) {
	if y < gridTopRow || y >= gridTopRow+m.visibleRows() {
		return grid.CellRef{}, false
	}
	rowIdx := m.topRow + (y - gridTopRow)
	if rowIdx < 0 || rowIdx >= len(m.grid.View()) {
		return grid.CellRef{}, false
	}
	if x < gutterWidth {
		return grid.CellRef{}, false
	}
	x -= gutterWidth
	if m.grid.Frozen() {
		if x < frozenWidth {
			return grid.CellRef{Row: rowIdx, Col: grid.FrozenCol}, true
		}
		x -= frozenWidth
	}
	for i := m.leftCol; i < m.sch.Len(); i++ {
		col, _ := m.sch.Col(i)
		if x < col.Width+1 {
			return grid.CellRef{Row: rowIdx, Col: i}, true
		}
		x -= col.Width + 1
	}
	return grid.CellRef{}, false
}
