package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/thiagokokada/tig-go/internal/config"
)

var actionHelp = map[string]string{
	"quit":      "quit",
	"up":        "up",
	"down":      "down",
	"top":       "top",
	"bottom":    "bottom",
	"page_up":   "page up",
	"page_down": "page down",
	"open":      "open",
	"search":    "search",
	"status":    "status",
	"refresh":   "refresh",
	"help":      "help",
	"back":      "back",
	"toggle":    "stage/unstage",
}

func binding(keys map[string][]string, action string) key.Binding {
	ks := keys[action]
	if len(ks) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	return key.NewBinding(
		key.WithKeys(ks...),
		key.WithHelp(strings.Join(ks, "/"), actionHelp[action]),
	)
}

// NavKeys move a cursor or scroll offset.
type NavKeys struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

func newNavKeys(keys map[string][]string) NavKeys {
	return NavKeys{
		Up:       binding(keys, "up"),
		Down:     binding(keys, "down"),
		Top:      binding(keys, "top"),
		Bottom:   binding(keys, "bottom"),
		PageUp:   binding(keys, "page_up"),
		PageDown: binding(keys, "page_down"),
	}
}

func (k NavKeys) bindings() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown}
}

type MainKeys struct {
	NavKeys
	Open    key.Binding
	Search  key.Binding
	Status  key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k MainKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Status, k.Search, k.Help}
}

func (k MainKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.bindings(), {k.Open, k.Search, k.Status, k.Refresh, k.Help, k.Quit}}
}

type DiffKeys struct {
	NavKeys
	Help key.Binding
	Back key.Binding
}

func (k DiffKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.PageDown, k.Help}
}

func (k DiffKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.bindings(), {k.Help, k.Back}}
}

type StatusKeys struct {
	NavKeys
	Open    key.Binding
	Toggle  key.Binding
	Refresh key.Binding
	Help    key.Binding
	Back    key.Binding
}

func (k StatusKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Toggle, k.Open, k.Help}
}

func (k StatusKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.bindings(), {k.Open, k.Toggle, k.Refresh, k.Help, k.Back}}
}

type HelpKeys struct {
	NavKeys
	Back key.Binding
}

func (k HelpKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Back}
}

func (k HelpKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.bindings(), {k.Back}}
}

// KeyMap is the resolved set of bindings for every view.
type KeyMap struct {
	Quit   key.Binding
	Main   MainKeys
	Diff   DiffKeys
	Status StatusKeys
	Help   HelpKeys
}

func NewKeyMap(kb config.Keybindings) KeyMap {
	return KeyMap{
		Quit: binding(kb.Global, "quit"),
		Main: MainKeys{
			NavKeys: newNavKeys(kb.Main),
			Open:    binding(kb.Main, "open"),
			Search:  binding(kb.Main, "search"),
			Status:  binding(kb.Main, "status"),
			Refresh: binding(kb.Main, "refresh"),
			Help:    binding(kb.Main, "help"),
			Quit:    binding(kb.Main, "quit"),
		},
		Diff: DiffKeys{
			NavKeys: newNavKeys(kb.Diff),
			Help:    binding(kb.Diff, "help"),
			Back:    binding(kb.Diff, "back"),
		},
		Status: StatusKeys{
			NavKeys: newNavKeys(kb.Status),
			Open:    binding(kb.Status, "open"),
			Toggle:  binding(kb.Status, "toggle"),
			Refresh: binding(kb.Status, "refresh"),
			Help:    binding(kb.Status, "help"),
			Back:    binding(kb.Status, "back"),
		},
		Help: HelpKeys{
			NavKeys: newNavKeys(kb.Help),
			Back:    binding(kb.Help, "back"),
		},
	}
}
