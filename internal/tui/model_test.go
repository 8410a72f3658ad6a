package tui

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thiagokokada/tig-go/internal/config"
	"github.com/thiagokokada/tig-go/internal/git"
	"github.com/thiagokokada/tig-go/internal/views"
)

type fakeBackend struct {
	commits []git.Commit
	streams atomic.Int32
}

func (f *fakeBackend) StreamCommits(ctx context.Context, _ int, out chan<- git.CommitChunk) {
	f.streams.Add(1)
	defer close(out)
	select {
	case out <- git.CommitChunk{Commits: f.commits}:
	case <-ctx.Done():
	}
}

func (f *fakeBackend) LoadDiff(git.DiffRequest) (*git.Diff, error) { return &git.Diff{}, nil }
func (f *fakeBackend) LoadStatus() (*git.Status, error)            { return &git.Status{}, nil }
func (f *fakeBackend) Stage(string) error                          { return nil }
func (f *fakeBackend) Unstage(string) error                        { return nil }
func (f *fakeBackend) Head() (string, error)                       { return "main", nil }

type fakePulser struct {
	pending bool
}

func (p *fakePulser) Poll() bool {
	v := p.pending
	p.pending = false
	return v
}

func newTestModel(t *testing.T, cfg *config.Config, pulser Pulser) (*Model, *fakeBackend) {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	cfg.Settings.Theme = "dark"
	fb := &fakeBackend{commits: []git.Commit{
		{ID: "abc1234000", ShortID: "abc1234", Author: "Jane", Summary: "Fix bug", When: time.Now()},
		{ID: "def5678000", ShortID: "def5678", Author: "John", Summary: "Add feature", When: time.Now()},
	}}
	env, err := NewEnv(fb, cfg)
	require.NoError(t, err)
	m, err := New(fb, env, pulser)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 12})
	return m, fb
}

// settle ticks until the current view and the branch lookup are done.
func settle(t *testing.T, m *Model) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for m.stack.Loading() || m.branchQuery != nil {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for background work")
		}
		_, cmd := m.Update(tickMsg(time.Now()))
		require.NotNil(t, cmd)
		time.Sleep(time.Millisecond)
	}
}

func press(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModelInitTicks(t *testing.T) {
	m, _ := newTestModel(t, nil, nil)
	assert.NotNil(t, m.Init())
}

func TestModelLoadsMainView(t *testing.T) {
	m, _ := newTestModel(t, nil, nil)
	settle(t, m)

	out := ansi.Strip(m.View())
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 12)
	assert.Equal(t, "Main - 2 commits", lines[0])
	assert.Contains(t, out, "Fix bug")
	status := lines[len(lines)-1]
	assert.Contains(t, status, "[main]")
	assert.Contains(t, status, "q quit")
	assert.Contains(t, status, "s status")
}

func TestModelNavigation(t *testing.T) {
	m, _ := newTestModel(t, nil, nil)
	settle(t, m)

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, 2, m.stack.Depth())
	assert.IsType(t, &views.DiffView{}, m.stack.Current())
	settle(t, m)

	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	require.Equal(t, 3, m.stack.Depth())
	assert.IsType(t, &views.HelpView{}, m.stack.Current())

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Equal(t, 1, m.stack.Depth())

	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	assert.IsType(t, &views.StatusView{}, m.stack.Current())
	settle(t, m)
	assert.Contains(t, ansi.Strip(m.View()), "Status - No changes")
}

func TestModelQuit(t *testing.T) {
	m, _ := newTestModel(t, nil, nil)
	assert.True(t, isQuit(press(m, tea.KeyMsg{Type: tea.KeyCtrlC})))

	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	assert.False(t, isQuit(press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})), "q pops the status view")
	assert.True(t, isQuit(press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})), "q on main quits")
}

func TestModelApplyPopAtRootIsSilent(t *testing.T) {
	m, _ := newTestModel(t, nil, nil)
	assert.Nil(t, m.apply(views.Action{Kind: views.ActionPop}))
	assert.Equal(t, 1, m.stack.Depth())
	assert.Empty(t, m.message)
}

func TestModelApplySwitch(t *testing.T) {
	m, _ := newTestModel(t, nil, nil)
	m.apply(views.Action{Kind: views.ActionSwitch, Target: views.Target{Kind: views.KindStatus}})
	assert.Equal(t, 1, m.stack.Depth())
	assert.IsType(t, &views.StatusView{}, m.stack.Current())
}

func TestModelApplyUnknownTarget(t *testing.T) {
	m, _ := newTestModel(t, nil, nil)
	m.apply(views.Action{Kind: views.ActionPush, Target: views.Target{Kind: views.Kind(9)}})
	assert.Equal(t, 1, m.stack.Depth())
	assert.Contains(t, m.message, "unknown view kind")
	assert.Contains(t, ansi.Strip(m.View()), "unknown view kind")
}

func TestModelWatcherRefreshes(t *testing.T) {
	p := &fakePulser{}
	m, fb := newTestModel(t, nil, p)
	settle(t, m)
	require.EqualValues(t, 1, fb.streams.Load())

	p.pending = true
	m.Update(tickMsg(time.Now()))
	settle(t, m)
	assert.EqualValues(t, 2, fb.streams.Load())
}

func TestModelMouseWheel(t *testing.T) {
	cfg := config.Default()
	cfg.Settings.MouseSupport = true
	m, _ := newTestModel(t, cfg, nil)
	settle(t, m)
	main := m.stack.Current().(*views.MainView)

	m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	c, ok := main.Selected()
	require.True(t, ok)
	assert.Equal(t, "Add feature", c.Summary)

	m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	c, _ = main.Selected()
	assert.Equal(t, "Fix bug", c.Summary)
}

func TestModelMouseDisabled(t *testing.T) {
	m, _ := newTestModel(t, nil, nil)
	settle(t, m)
	main := m.stack.Current().(*views.MainView)
	m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	c, _ := main.Selected()
	assert.Equal(t, "Fix bug", c.Summary)
}

func TestNewEnvRejectsBadColors(t *testing.T) {
	cfg := config.Default()
	cfg.Colors.Author = "not-a-color"
	_, err := NewEnv(&fakeBackend{}, cfg)
	assert.Error(t, err)
}

func TestNewEnvFollowsPaletteBrightness(t *testing.T) {
	t.Cleanup(func() { lipgloss.SetHasDarkBackground(true) })
	for theme, dark := range map[string]bool{"light": false, "dark": true} {
		cfg := config.Default()
		cfg.Settings.Theme = theme
		_, err := NewEnv(&fakeBackend{}, cfg)
		require.NoError(t, err)
		assert.Equal(t, dark, lipgloss.HasDarkBackground(), theme)
	}
}

func TestRunMissingRepository(t *testing.T) {
	err := Run(Options{RepoPath: t.TempDir()})
	assert.True(t, errors.Is(err, git.ErrNotFound), "got %v", err)
}
