package main

import (
	"errors"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"sovgrid/internal/clip"
)

// ---------------------------------------------------------------------------
// Bulk paste modal
// ---------------------------------------------------------------------------

func (m model) updateBulkPaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		m.bulkInput.Blur()
		m.mode = m.modeAfterOverlay()
		return m, nil

	case msg.String() == "ctrl+s":
		res, err := clip.ParseBulk(m.bulkInput.Value(), m.sch)
		if err != nil {
			if errors.Is(err, clip.ErrNoUsableRows) {
				m.setError("Nothing to insert: no row resolved to a known column.")
			} else {
				m.setError("Paste not understood: " + err.Error())
			}
			return m, nil
		}
		m.bulkInput.Blur()
		m.mode = m.modeAfterOverlay()
		m.saving = true
		m.setStatusf("Inserting %d rows...", len(res.Payloads))
		return m, bulkInsertCmd(m.st, m.cfg.Tenant.OrgID, m.cfg.Tenant.ClientID, res.Payloads)
	}

	var cmd tea.Cmd
	m.bulkInput, cmd = m.bulkInput.Update(msg)
	return m, cmd
}

// bulkPreview summarizes what ctrl+s would insert, recomputed every frame
// from the textarea's current text.
func (m *model) bulkPreview() (line string, ok bool) {
	text := m.bulkInput.Value()
	if text == "" {
		return "Paste tab-separated rows, first row may be a header.", true
	}
	res, err := clip.ParseBulk(text, m.sch)
	if err != nil {
		return "No usable rows yet.", false
	}
	mapping := "positional mapping"
	if res.HeaderDetected {
		mapping = "header row detected"
	}
	line = pluralRows(len(res.Payloads)) + " · " + mapping
	if res.DroppedRows > 0 {
		line += " · " + pluralRows(res.DroppedRows) + " skipped"
	}
	return line, true
}

func pluralRows(n int) string {
	if n == 1 {
		return "1 row"
	}
	return strconv.Itoa(n) + " rows"
}

// ---------------------------------------------------------------------------
// Delete confirm modal
// ---------------------------------------------------------------------------

func (m model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "y", "enter":
		ids := m.grid.Selected()
		m.mode = m.modeAfterOverlay()
		if len(ids) == 0 {
			return m, nil
		}
		m.saving = true
		m.setStatusf("Deleting %d rows...", len(ids))
		return m, deleteCmd(m.st, m.cfg.Tenant.OrgID, ids)
	case "n", "esc":
		m.mode = m.modeAfterOverlay()
		m.setStatus("Delete cancelled.")
	}
	return m, nil
}
