package recorder

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
	togglePause key.Binding
	stop        key.Binding
	cancel      key.Binding
	quit        key.Binding
}

var defaultKeymap = keymap{
	togglePause: key.NewBinding(
		key.WithKeys(" ", "p"),
		key.WithHelp("space", "pause/resume"),
	),
	stop: key.NewBinding(
		key.WithKeys("enter", "s"),
		key.WithHelp("enter", "stop and transcribe"),
	),
	cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "discard"),
	),
	quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
}
