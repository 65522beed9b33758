package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Escape    key.Binding
	Quit      key.Binding
	Refresh   key.Binding
	Pause     key.Binding
	Interval  key.Binding
	Faster    key.Binding
	Slower    key.Binding
	Charts    key.Binding
	Settings  key.Binding
	Help      key.Binding
	Left      key.Binding
	Right     key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	ResetView key.Binding
	Tab       key.Binding
	Dismiss   key.Binding
	ClearAll  key.Binding
}

// Section is a titled group of bindings shown together in the help overlay.
type Section struct {
	Title    string
	Bindings []key.Binding
}

// DefaultKeyMap provides the default set of key bindings.
var DefaultKeyMap = KeyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up / k", "Previous field")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down / j", "Next field")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "Open chart detail")),
	Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "Close / back")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q / ctrl+c", "Quit")),
	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "Refresh now")),
	Pause:     key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p / space", "Pause / resume")),
	Interval:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "Type an interval")),
	Faster:    key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "Refresh faster")),
	Slower:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "Refresh slower")),
	Charts:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "Charts view")),
	Settings:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "Settings")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "Toggle this help")),
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("left / h", "Pan back in time")),
	Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("right / l", "Pan forward")),
	ZoomIn:    key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "Zoom in")),
	ZoomOut:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "Zoom out")),
	ResetView: key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "Reset pan and zoom")),
	Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "Focus next chart")),
	Dismiss:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "Dismiss newest notification")),
	ClearAll:  key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "Dismiss all notifications")),
}

// Sections groups the bindings for the help overlay.
func (k KeyMap) Sections() []Section {
	return []Section{
		{Title: "Global", Bindings: []key.Binding{k.Quit, k.Help, k.Dismiss, k.ClearAll, k.Settings, k.Escape}},
		{Title: "Refresh", Bindings: []key.Binding{k.Refresh, k.Pause, k.Slower, k.Faster, k.Interval}},
		{Title: "Charts", Bindings: []key.Binding{k.Charts, k.Tab, k.Enter, k.Left, k.Right, k.ZoomIn, k.ZoomOut, k.ResetView}},
	}
}
