package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Next      key.Binding
	Skip      key.Binding
	Cycle     key.Binding
	CycleBack key.Binding
	Copy      key.Binding
	Insert    key.Binding
	Save      key.Binding
	Preview   key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "siguiente"),
		),
		Skip: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "saltar"),
		),
		Cycle: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "cambiar"),
		),
		CycleBack: key.NewBinding(
			key.WithKeys("shift+tab"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copiar"),
		),
		Insert: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "insertar en nota"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "guardar"),
		),
		Preview: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "vista previa"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cerrar"),
		),
	}
}

// action pairs a binding with what it does on the current step.
type action struct {
	binding key.Binding
	desc    string
}

func hint(actions ...action) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = a.binding.Help().Key + ": " + a.desc
	}
	return strings.Join(parts, "  ")
}
