package views

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the bindings shown in the footer
type KeyMap struct {
	Submit  key.Binding
	History key.Binding
	Focus   key.Binding
	Page    key.Binding
	Pager   key.Binding
	Rank    key.Binding
	Clear   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the footer bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		History: key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "history")),
		Focus:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "results")),
		Page:    key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "scroll")),
		Pager:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "pager")),
		Rank:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "rank")),
		Clear:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		Help:    key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.History, k.Focus, k.Pager, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.History, k.Clear},
		{k.Focus, k.Page, k.Pager, k.Rank},
		{k.Help, k.Quit},
	}
}
