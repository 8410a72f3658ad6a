// Package tui is the bubbletea shell around the view stack.
package tui

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/thiagokokada/tig-go/internal/async"
	"github.com/thiagokokada/tig-go/internal/views"
)

const tickInterval = 100 * time.Millisecond

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Backend is what the shell needs on top of the views' backend.
type Backend interface {
	views.Backend
	Head() (string, error)
}

// Pulser reports pending change notifications without blocking.
type Pulser interface {
	Poll() bool
}

type Model struct {
	env     *views.Env
	backend Backend
	watcher Pulser
	stack   *views.Stack
	factory *views.Factory

	branch      string
	branchQuery *async.Query[string]

	spinner spinner.Model
	help    help.Model
	message string

	width  int
	height int
}

// New builds the shell with the main view as root. watcher may be nil.
func New(backend Backend, env *views.Env, watcher Pulser) (*Model, error) {
	factory := views.NewFactory(env)
	root, err := factory.New(views.Target{Kind: views.KindMain})
	if err != nil {
		return nil, err
	}
	stack, err := views.NewStack(root)
	if err != nil {
		return nil, err
	}
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	m := &Model{
		env:     env,
		backend: backend,
		watcher: watcher,
		stack:   stack,
		factory: factory,
		spinner: sp,
		help:    help.New(),
	}
	m.loadBranch()
	return m, nil
}

func (m *Model) loadBranch() {
	m.branchQuery = async.Start(m.backend.Head)
}

// Close releases every view's background work.
func (m *Model) Close() {
	m.stack.Close()
}

func (m *Model) Stack() *views.Stack {
	return m.stack
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.onTick()
		return m, tick()
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		if k, ok := m.wheelKey(msg); ok {
			return m, m.handleKey(k)
		}
	}
	return m, nil
}

func (m *Model) onTick() {
	if err := m.stack.Update(); err != nil {
		m.setError(err)
	}
	if res, ok := m.branchQuery.Poll(); ok {
		m.branchQuery = nil
		if res.Err != nil {
			slog.Debug("resolve HEAD", slog.Any("error", res.Err))
		} else {
			m.branch = res.Value
		}
	}
	if m.watcher != nil && m.watcher.Poll() {
		slog.Debug("repository changed, refreshing", slog.String("view", m.stack.Current().Title()))
		m.stack.Refresh()
		if m.branchQuery == nil {
			m.loadBranch()
		}
	}
	if m.stack.Loading() {
		m.spinner, _ = m.spinner.Update(m.spinner.Tick())
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.env.Keys.Quit) {
		return tea.Quit
	}
	m.message = ""
	action, err := m.stack.HandleKey(msg)
	if err != nil {
		m.setError(err)
	}
	return m.apply(action)
}

func (m *Model) apply(action views.Action) tea.Cmd {
	switch action.Kind {
	case views.ActionNone:
		return nil
	case views.ActionQuit:
		return tea.Quit
	case views.ActionPush:
		v, err := m.factory.New(action.Target)
		if err != nil {
			m.setError(err)
			return nil
		}
		if err := m.stack.Push(v); err != nil {
			m.setError(err)
		}
	case views.ActionPop:
		err := m.stack.Pop()
		if errors.Is(err, views.ErrEmptyStack) {
			slog.Debug("pop ignored", slog.Any("error", err))
		} else if err != nil {
			m.setError(err)
		}
	case views.ActionSwitch:
		v, err := m.factory.New(action.Target)
		if err != nil {
			m.setError(err)
			return nil
		}
		if err := m.stack.Switch(v); err != nil {
			m.setError(err)
		}
	}
	return nil
}

func (m *Model) setError(err error) {
	slog.Error("view error", slog.Any("error", err))
	m.message = err.Error()
}

func (m *Model) wheelKey(msg tea.MouseMsg) (tea.KeyMsg, bool) {
	if !m.env.Settings.MouseSupport || msg.Action != tea.MouseActionPress {
		return tea.KeyMsg{}, false
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m.bindingKey(m.navKeys().Up)
	case tea.MouseButtonWheelDown:
		return m.bindingKey(m.navKeys().Down)
	}
	return tea.KeyMsg{}, false
}

// bindingKey turns the first key of b back into a key message.
func (m *Model) bindingKey(b key.Binding) (tea.KeyMsg, bool) {
	keys := b.Keys()
	if len(keys) == 0 {
		return tea.KeyMsg{}, false
	}
	return keyMsgFor(keys[0]), true
}

func keyMsgFor(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func (m *Model) navKeys() views.NavKeys {
	switch m.stack.Current().(type) {
	case *views.DiffView:
		return m.env.Keys.Diff.NavKeys
	case *views.StatusView:
		return m.env.Keys.Status.NavKeys
	case *views.HelpView:
		return m.env.Keys.Help.NavKeys
	default:
		return m.env.Keys.Main.NavKeys
	}
}

func (m *Model) shortHelp() []key.Binding {
	switch m.stack.Current().(type) {
	case *views.DiffView:
		return m.env.Keys.Diff.ShortHelp()
	case *views.StatusView:
		return m.env.Keys.Status.ShortHelp()
	case *views.HelpView:
		return m.env.Keys.Help.ShortHelp()
	default:
		return m.env.Keys.Main.ShortHelp()
	}
}

func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	body := m.stack.Draw(m.width, max(m.height-1, 0))
	return body + "\n" + m.statusBar()
}

func (m *Model) statusBar() string {
	st := m.env.Styles
	left := []string{m.stack.Current().Title()}
	if m.branch != "" {
		left = append(left, "["+m.branch+"]")
	}
	if m.stack.Loading() {
		left = append(left, m.spinner.View())
	}
	leftText := strings.Join(left, " ")
	if m.message != "" {
		leftText += "  " + st.Error.Inherit(st.StatusBar).Render(m.message)
	}
	right := m.help.ShortHelpView(m.shortHelp())
	gap := m.width - lipgloss.Width(leftText) - lipgloss.Width(right)
	line := leftText
	if gap >= 2 {
		line += strings.Repeat(" ", gap) + right
	}
	return st.StatusBar.Width(m.width).Render(ansi.Truncate(line, m.width, "…"))
}
