package dashboard

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Join     key.Binding
	View     key.Binding
	Quick    key.Binding
	Search   key.Binding
	Platform key.Binding
	Reload   key.Binding
	Clear    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Join:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "join")),
		View:     key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "view")),
		Quick:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new pool")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Platform: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "platform")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Clear:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Join, k.View, k.Search, k.Platform, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Join, k.View},
		{k.Quick, k.Search, k.Platform, k.Clear},
		{k.Reload, k.Help, k.Quit},
	}
}
