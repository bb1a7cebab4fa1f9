package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sovgrid/internal/grid"
	"sovgrid/internal/schema"
	"sovgrid/internal/value"
)

// gridTopRow is the terminal row of the first data row: title line plus the
// column header. Mouse hit-testing in cellAt depends on it.
const gridTopRow = 2

func (m model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderTitle())
	b.WriteByte('\n')
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')
	b.WriteString(m.renderBody())
	b.WriteString(m.renderPageInfo())
	b.WriteByte('\n')
	b.WriteString(m.renderStatus())
	b.WriteByte('\n')
	b.WriteString(m.renderFooter())

	out := b.String()
	switch m.mode {
	case modeBulkPaste:
		out = centerOverlay(out, m.renderBulkModal(), m.width, m.height)
	case modeConfirmDelete:
		out = centerOverlay(out, m.renderDeleteModal(), m.width, m.height)
	}
	return out
}

// ---------------------------------------------------------------------------
// Chrome
// ---------------------------------------------------------------------------

func (m model) renderTitle() string {
	title := titleStyle.Render(appName)
	right := ""
	switch {
	case m.mode == modeSearch:
		right = m.searchInput.View()
	case m.grid.Search() != "":
		right = pageInfoStyle.Render("/" + m.grid.Search())
	}
	if right == "" {
		return title
	}
	return title + "  " + right
}

func (m model) renderHeader() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(strings.Repeat(" ", gutterWidth)))
	if m.grid.Frozen() {
		b.WriteString(frozenStyle.Render(fit("#", frozenWidth)))
	}

	sortKey, sortDir := m.grid.Sort()
	remaining := m.gridBodyWidth()
	for i := m.leftCol; i < m.sch.Len() && remaining > 0; i++ {
		col, _ := m.sch.Col(i)
		w := minInt(col.Width+1, remaining)
		label := col.Label
		style := headerStyle
		if col.Key == sortKey {
			style = sortedStyle
			if sortDir == grid.SortAsc {
				label += " ▲"
			} else {
				label += " ▼"
			}
		}
		b.WriteString(style.Render(fit(label, w)))
		remaining -= w
	}
	if remaining > 0 {
		b.WriteString(headerStyle.Render(strings.Repeat(" ", remaining)))
	}
	return b.String()
}

func (m model) renderBody() string {
	var b strings.Builder
	page := m.grid.View()
	visible := m.visibleRows()
	focus, focused := m.grid.Focus()

	for i := 0; i < visible; i++ {
		rowIdx := m.topRow + i
		if rowIdx >= len(page) {
			b.WriteByte('\n')
			continue
		}
		b.WriteString(m.renderRow(page[rowIdx], rowIdx, focus, focused))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m model) renderRow(row grid.Row, rowIdx int, focus grid.CellRef, focused bool) string {
	var b strings.Builder
	selected := m.grid.IsSelected(row.ID)

	if selected {
		b.WriteString(selMarkStyle.Render(fit("▌", gutterWidth)))
	} else {
		b.WriteString(strings.Repeat(" ", gutterWidth))
	}

	if m.grid.Frozen() {
		num := strconv.Itoa((m.grid.Page()-1)*m.grid.PageSize() + rowIdx + 1)
		style := frozenStyle
		if focused && focus.Row == rowIdx && focus.Col == grid.FrozenCol {
			style = focusedStyle
		}
		b.WriteString(style.Render(fit(num, frozenWidth)))
	}

	remaining := m.gridBodyWidth()
	for i := m.leftCol; i < m.sch.Len() && remaining > 0; i++ {
		col, _ := m.sch.Col(i)
		w := minInt(col.Width+1, remaining)
		b.WriteString(m.renderCell(row, rowIdx, i, col, w, focus, focused, selected))
		remaining -= w
	}
	return b.String()
}

func (m model) renderCell(row grid.Row, rowIdx, colIdx int, col schema.Column, w int, focus grid.CellRef, focused, selected bool) string {
	isFocus := focused && focus.Row == rowIdx && focus.Col == colIdx

	if isFocus && m.mode == modeEditing {
		return fit(m.editInput.View(), w)
	}

	display := value.FormatDisplay(row.Field(col.Key), col)
	numeric := col.Type == schema.TypeNumber || col.Type == schema.TypeCurrency
	if numeric && row.Field(col.Key) != nil {
		display = leftPad(display, w-1)
	}

	style := cellStyle
	switch {
	case isFocus:
		style = focusedStyle
	case row.Field(col.Key) == nil:
		style = emptyStyle
	case selected:
		style = selectedStyle
	case numeric:
		style = numCellStyle
	}
	return style.Render(fit(display, w))
}

func leftPad(s string, width int) string {
	if gap := width - len(s); gap > 0 {
		return strings.Repeat(" ", gap) + s
	}
	return s
}

func (m model) renderPageInfo() string {
	info := fmt.Sprintf("page %d/%d · %s", m.grid.Page(), m.grid.PageCount(), pluralRows(len(m.grid.Filtered())))
	if n := m.grid.SelectedCount(); n > 0 {
		info += fmt.Sprintf(" · %d selected", n)
	}
	if m.eng != nil && m.eng.UndoLen() > 0 {
		info += fmt.Sprintf(" · %d undoable", m.eng.UndoLen())
	}
	line := pageInfoStyle.Render(info)
	if m.saving {
		line += "  " + savingStyle.Render("saving...")
	}
	return line
}

func (m model) renderStatus() string {
	style := statusBarStyle
	if m.statusErr {
		style = errorBarStyle
	}
	return style.Width(m.width).Render(truncate(m.status, m.width-2))
}

func (m model) renderFooter() string {
	parts := make([]string, 0, 8)
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return footerStyle.Width(m.width).Render(truncate(strings.Join(parts, " · "), m.width-2))
}

// ---------------------------------------------------------------------------
// Modals
// ---------------------------------------------------------------------------

func (m model) renderBulkModal() string {
	preview, ok := m.bulkPreview()
	previewStyle := previewOKStyle
	if !ok {
		previewStyle = previewBadStyle
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		modalTitleStyle.Render("Paste new rows"),
		"",
		m.bulkInput.View(),
		"",
		previewStyle.Render(preview),
		pageInfoStyle.Render("ctrl+s insert · esc cancel"),
	)
	return modalStyle.Render(body)
}

func (m model) renderDeleteModal() string {
	n := m.grid.SelectedCount()
	body := lipgloss.JoinVertical(lipgloss.Left,
		modalTitleStyle.Render("Delete rows"),
		"",
		fmt.Sprintf("Delete %s? This cannot be undone.", pluralRows(n)),
		"",
		pageInfoStyle.Render("y confirm · n cancel"),
	)
	return modalStyle.Render(body)
}
