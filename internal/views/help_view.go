package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// HelpView lists the active key bindings of every view.
type HelpView struct {
	env      *Env
	viewport viewport.Model
	content  string
}

func NewHelpView(env *Env) *HelpView {
	v := &HelpView{env: env, viewport: viewport.New(0, 0)}
	v.content = helpText(env)
	v.viewport.SetContent(v.content)
	return v
}

func helpText(env *Env) string {
	km := env.Keys
	sections := []struct {
		name     string
		bindings []key.Binding
	}{
		{"Global", []key.Binding{km.Quit}},
		{"Main view", flatten(km.Main.FullHelp())},
		{"Diff view", flatten(km.Diff.FullHelp())},
		{"Status view", flatten(km.Status.FullHelp())},
		{"Help view", flatten(km.Help.FullHelp())},
	}
	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(env.Styles.FileHeader.Render(s.name))
		b.WriteString("\n")
		for _, kb := range s.bindings {
			if !kb.Enabled() {
				continue
			}
			h := kb.Help()
			fmt.Fprintf(&b, "  %-16s %s\n", h.Key, h.Desc)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func flatten(groups [][]key.Binding) []key.Binding {
	var out []key.Binding
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func (v *HelpView) OnActivate() error   { return nil }
func (v *HelpView) OnDeactivate() error { return nil }
func (v *HelpView) Update() error       { return nil }

func (v *HelpView) HandleKey(msg tea.KeyMsg) (Action, error) {
	keys := v.env.Keys.Help
	switch {
	case key.Matches(msg, keys.Back):
		return popAction, nil
	case key.Matches(msg, keys.Up):
		v.viewport.ScrollUp(1)
	case key.Matches(msg, keys.Down):
		v.viewport.ScrollDown(1)
	case key.Matches(msg, keys.PageUp):
		v.viewport.PageUp()
	case key.Matches(msg, keys.PageDown):
		v.viewport.PageDown()
	case key.Matches(msg, keys.Top):
		v.viewport.GotoTop()
	case key.Matches(msg, keys.Bottom):
		v.viewport.GotoBottom()
	}
	return noAction, nil
}

func (v *HelpView) Title() string {
	return "Help"
}

// Offset is the first visible line of the help text.
func (v *HelpView) Offset() int {
	return v.viewport.YOffset
}

func (v *HelpView) Draw(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	v.viewport.Width = width
	v.viewport.Height = max(height-1, 1)
	return v.env.Styles.Title.Render("Help") + "\n" + v.viewport.View()
}
