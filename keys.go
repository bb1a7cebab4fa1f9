package main

import "github.com/charmbracelet/bubbles/key"

// ---------------------------------------------------------------------------
// Key bindings
// ---------------------------------------------------------------------------

type keyMap struct {
	Navigate  key.Binding
	Edit      key.Binding
	Cancel    key.Binding
	Tab       key.Binding
	Search    key.Binding
	Sort      key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	Select    key.Binding
	AddRow    key.Binding
	Duplicate key.Binding
	Delete    key.Binding
	Undo      key.Binding
	Copy      key.Binding
	BulkPaste key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Navigate:  key.NewBinding(key.WithKeys("up", "down", "left", "right"), key.WithHelp("↑↓←→", "navigate")),
		Edit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Tab:       key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "edit next")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort column")),
		PrevPage:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev page")),
		NextPage:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next page")),
		Select:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select row")),
		AddRow:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add row")),
		Duplicate: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "duplicate")),
		Delete:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		Undo:      key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo")),
		Copy:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "copy cell")),
		BulkPaste: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "paste rows")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Navigate, k.Edit, k.Search, k.Sort, k.Select, k.BulkPaste, k.Undo, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Navigate, k.Edit, k.Tab, k.Cancel},
		{k.Search, k.Sort, k.PrevPage, k.NextPage},
		{k.Select, k.AddRow, k.Duplicate, k.Delete},
		{k.Undo, k.Copy, k.BulkPaste, k.Quit},
	}
}

// commandRunes are printable keys reserved as commands while a cell is
// focused; any other printable rune starts editing seeded with itself.
var commandRunes = map[rune]bool{
	'/': true, 's': true, '[': true, ']': true, ' ': true,
	'a': true, 'D': true, 'x': true, 'P': true, 'q': true,
}
