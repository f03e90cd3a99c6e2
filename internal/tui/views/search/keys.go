package search

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Remove key.Binding
	Submit key.Binding
	Clear  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Remove: key.NewBinding(key.WithKeys("esc", "ctrl+x"), key.WithHelp("esc", "remove")),
		Submit: key.NewBinding(key.WithKeys("ctrl+s", "enter"), key.WithHelp("enter", "add to log")),
		Clear:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
	}
}

// searchHelp returns the bindings shown while the search input is active.
func (k keyMap) searchHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Clear}
}

// selectedHelp returns the bindings shown while a game is selected.
func (k keyMap) selectedHelp(withPlatforms bool) []key.Binding {
	if withPlatforms {
		return []key.Binding{k.Up, k.Down, k.Submit, k.Remove}
	}
	return []key.Binding{k.Submit, k.Remove}
}
