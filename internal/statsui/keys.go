package statsui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	PrevTab     key.Binding
	NextTab     key.Binding
	Top         key.Binding
	Bottom      key.Binding
	WiderCurve  key.Binding
	NarrowCurve key.Binding
	Filter      key.Binding
	Reload      key.Binding
	Quit        key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		PrevTab:     key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←/h", "prev tab")),
		NextTab:     key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/l", "next tab")),
		Top:         key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		WiderCurve:  key.NewBinding(key.WithKeys("="), key.WithHelp("=", "wider avg")),
		NarrowCurve: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "narrower avg")),
		Filter:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filters")),
		Reload:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevTab, k.NextTab, k.NarrowCurve, k.WiderCurve, k.Filter, k.Reload, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevTab, k.NextTab, k.Top, k.Bottom},
		{k.NarrowCurve, k.WiderCurve, k.Filter, k.Reload, k.Quit},
	}
}

// nextCurveWindow and prevCurveWindow move the moving-average window along
// multiples of five, bottoming out at 1.
func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	switch {
	case n <= 5:
		return 1
	case n%5 == 0:
		return n - 5
	default:
		return n / 5 * 5
	}
}
