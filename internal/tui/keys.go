package tui

import (
	"github.com/charmbracelet/bubbles/v2/key"
	"github.com/tamarack-ui/tamarack/internal/tui/exp/scroller"
)

type KeyMap struct {
	Quit,
	Copy,
	Help key.Binding

	List scroller.KeyMap
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy entry"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		List: scroller.DefaultKeyMap(),
	}
}

// KeyBindings returns every binding, in help order.
func (k KeyMap) KeyBindings() []key.Binding {
	return append(k.List.KeyBindings(), k.Copy, k.Help, k.Quit)
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	m := [][]key.Binding{}
	slice := k.KeyBindings()
	for i := 0; i < len(slice); i += 4 {
		end := min(i+4, len(slice))
		m = append(m, slice[i:end])
	}
	return m
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.List.Down,
		k.List.Up,
		k.List.PageDown,
		k.List.End,
		k.Copy,
		k.Help,
		k.Quit,
	}
}
