package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"sovgrid/internal/config"
	"sovgrid/internal/edit"
	"sovgrid/internal/grid"
	"sovgrid/internal/schema"
	"sovgrid/internal/store"
)

const appName = "sovgrid"

// doubleClickWindow is how close two clicks on the same cell must be to
// count as a double-click.
const doubleClickWindow = 400 * time.Millisecond

// ---------------------------------------------------------------------------
// UI modes
// ---------------------------------------------------------------------------

// uiMode is the grid's input mode. Idle, focused and editing form the
// focus-cell state machine; search and the modals are overlays that return
// to the mode they interrupted.
type uiMode int

const (
	modeIdle uiMode = iota
	modeFocused
	modeEditing
	modeSearch
	modeBulkPaste
	modeConfirmDelete
)

// ---------------------------------------------------------------------------
// Bubble Tea messages
// ---------------------------------------------------------------------------

type storeReadyMsg struct {
	st   store.Store
	rows []grid.Row
	err  error
}

type rowsInsertedMsg struct {
	rows []grid.Row
	bulk bool
	err  error
}

type rowsDeletedMsg struct {
	ids []string
	err error
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

type model struct {
	cfg  config.Config
	sch  *schema.Schema
	st   store.Store
	grid *grid.Model
	eng  *edit.Engine
	keys keyMap

	mode        uiMode
	editInput   textinput.Model
	searchInput textinput.Model
	bulkInput   textarea.Model

	status    string
	statusErr bool
	saving    bool
	ready     bool

	// scroll window inside the current page
	topRow  int
	leftCol int

	width  int
	height int

	lastClickCell grid.CellRef
	lastClickAt   time.Time
}

func newModel(cfg config.Config) model {
	sch := schema.Locations(cfg.Aliases)
	g := grid.New(sch, cfg.UI.PageSize, cfg.UI.SOVMode)

	editInput := textinput.New()
	editInput.Prompt = ""

	searchInput := textinput.New()
	searchInput.Prompt = "/"
	searchInput.Placeholder = "search"

	bulkInput := textarea.New()
	bulkInput.Placeholder = "Paste spreadsheet rows here"
	bulkInput.CharLimit = 0

	return model{
		cfg:         cfg,
		sch:         sch,
		grid:        g,
		keys:        newKeyMap(),
		editInput:   editInput,
		searchInput: searchInput,
		bulkInput:   bulkInput,
		status:      "Opening database...",
	}
}

func (m model) Init() tea.Cmd {
	return openStoreCmd(m.cfg, m.sch)
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case storeReadyMsg:
		return m.handleStoreReady(msg)
	case rowsInsertedMsg:
		return m.handleRowsInserted(msg)
	case rowsDeletedMsg:
		return m.handleRowsDeleted(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bulkInput.SetWidth(minInt(78, maxInt(30, m.width-10)))
		m.bulkInput.SetHeight(minInt(12, maxInt(4, m.height-12)))
		m.ensureFocusVisible()
		return m, nil
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeBulkPaste:
			return m.updateBulkPaste(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		case modeEditing:
			return m.updateEditing(msg)
		default:
			return m.updateGrid(msg)
		}
	}
	return m, nil
}

func (m model) handleStoreReady(msg storeReadyMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError("DB error: " + msg.err.Error())
		return m, nil
	}
	m.st = msg.st
	m.eng = edit.New(msg.st, m.grid, m.cfg.Tenant.OrgID, m.cfg.UI.UndoDepth)
	m.grid.SetRows(msg.rows)
	m.ready = true
	m.setStatus("Ready. Arrow keys focus a cell, enter edits.")
	return m, nil
}

func (m model) handleRowsInserted(msg rowsInsertedMsg) (tea.Model, tea.Cmd) {
	m.saving = false
	if msg.err != nil {
		m.setError("Insert failed: " + msg.err.Error())
		return m, nil
	}
	m.grid.AppendRows(msg.rows)
	if msg.bulk {
		m.setStatusf("Inserted %d rows from paste.", len(msg.rows))
	} else if len(msg.rows) == 1 {
		m.setStatus("Row added.")
	} else {
		m.setStatusf("Duplicated %d rows.", len(msg.rows))
	}
	m.ensureFocusVisible()
	return m, nil
}

func (m model) handleRowsDeleted(msg rowsDeletedMsg) (tea.Model, tea.Cmd) {
	m.saving = false
	if msg.err != nil {
		m.setError("Delete failed: " + msg.err.Error())
		return m, nil
	}
	m.grid.RemoveRows(msg.ids)
	m.grid.ClearSelection()
	m.setStatusf("Deleted %d rows.", len(msg.ids))
	m.ensureFocusVisible()
	return m, nil
}

// ---------------------------------------------------------------------------
// Status helpers
// ---------------------------------------------------------------------------

func (m *model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *model) setStatusf(format string, args ...any) {
	m.setStatus(fmt.Sprintf(format, args...))
}

func (m *model) setError(s string) {
	m.status = s
	m.statusErr = true
}

// ---------------------------------------------------------------------------
// Scroll window
// ---------------------------------------------------------------------------

// visibleRows returns how many data rows fit in the terminal.
func (m *model) visibleRows() int {
	if m.height == 0 {
		return 10
	}
	// title + column header + page info + status + footer
	available := m.height - 5
	if available < 3 {
		available = 3
	}
	return available
}

// gutterWidth is the selection-marker column.
const gutterWidth = 2

// frozenWidth is the SOV leading column, including its trailing gap.
const frozenWidth = 5

// gridBodyWidth returns the width available for scrolling schema columns.
func (m *model) gridBodyWidth() int {
	w := m.width
	if w == 0 {
		w = 100
	}
	w -= gutterWidth
	if m.grid.Frozen() {
		w -= frozenWidth
	}
	if w < 10 {
		w = 10
	}
	return w
}

// ensureFocusVisible scrolls the window by the minimal delta in each axis so
// the focused cell is on screen, keeping the header row and the frozen
// leading column sticky.
func (m *model) ensureFocusVisible() {
	ref, ok := m.grid.Focus()
	if !ok {
		m.clampTopRow()
		return
	}

	// vertical
	visible := m.visibleRows()
	if ref.Row < m.topRow {
		m.topRow = ref.Row
	} else if ref.Row >= m.topRow+visible {
		m.topRow = ref.Row - visible + 1
	}
	m.clampTopRow()

	// horizontal; the frozen column never scrolls
	if ref.Col == grid.FrozenCol {
		return
	}
	if ref.Col < m.leftCol {
		m.leftCol = ref.Col
	}
	for m.leftCol < ref.Col && m.colSpanWidth(m.leftCol, ref.Col) > m.gridBodyWidth() {
		m.leftCol++
	}
}

// colSpanWidth is the rendered width of columns [from, to] inclusive.
func (m *model) colSpanWidth(from, to int) int {
	w := 0
	for i := from; i <= to; i++ {
		if col, ok := m.sch.Col(i); ok {
			w += col.Width + 1
		}
	}
	return w
}

func (m *model) clampTopRow() {
	maxTop := len(m.grid.View()) - m.visibleRows()
	if maxTop < 0 {
		maxTop = 0
	}
	if m.topRow > maxTop {
		m.topRow = maxTop
	}
	if m.topRow < 0 {
		m.topRow = 0
	}
}

// ---------------------------------------------------------------------------
// Small helpers
// ---------------------------------------------------------------------------

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
