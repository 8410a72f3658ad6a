package views

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"github.com/thiagokokada/tig-go/internal/config"
	"github.com/thiagokokada/tig-go/internal/git"
	"github.com/thiagokokada/tig-go/internal/theme"
)

type fakeBackend struct {
	streamCommitsFunc func(ctx context.Context, chunkSize int, out chan<- git.CommitChunk)
	loadDiffFunc      func(req git.DiffRequest) (*git.Diff, error)
	loadStatusFunc    func() (*git.Status, error)
	stageFunc         func(path string) error
	unstageFunc       func(path string) error

	mu          sync.Mutex
	statusCalls int
	staged      []string
	unstaged    []string
}

func (f *fakeBackend) StreamCommits(ctx context.Context, chunkSize int, out chan<- git.CommitChunk) {
	if f.streamCommitsFunc != nil {
		f.streamCommitsFunc(ctx, chunkSize, out)
		return
	}
	defer close(out)
	select {
	case out <- git.CommitChunk{Err: errors.New("unexpected StreamCommits call")}:
	case <-ctx.Done():
	}
}

func (f *fakeBackend) LoadDiff(req git.DiffRequest) (*git.Diff, error) {
	if f.loadDiffFunc != nil {
		return f.loadDiffFunc(req)
	}
	return nil, errors.New("unexpected LoadDiff call")
}

func (f *fakeBackend) LoadStatus() (*git.Status, error) {
	f.mu.Lock()
	f.statusCalls++
	f.mu.Unlock()
	if f.loadStatusFunc != nil {
		return f.loadStatusFunc()
	}
	return nil, errors.New("unexpected LoadStatus call")
}

func (f *fakeBackend) Stage(path string) error {
	f.mu.Lock()
	f.staged = append(f.staged, path)
	f.mu.Unlock()
	if f.stageFunc != nil {
		return f.stageFunc(path)
	}
	return errors.New("unexpected Stage call")
}

func (f *fakeBackend) Unstage(path string) error {
	f.mu.Lock()
	f.unstaged = append(f.unstaged, path)
	f.mu.Unlock()
	if f.unstageFunc != nil {
		return f.unstageFunc(path)
	}
	return errors.New("unexpected Unstage call")
}

func (f *fakeBackend) StatusCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusCalls
}

// streamOf sends commits in chunks the way Repository.StreamCommits does.
func streamOf(commits []git.Commit) func(context.Context, int, chan<- git.CommitChunk) {
	return func(ctx context.Context, chunkSize int, out chan<- git.CommitChunk) {
		defer close(out)
		for start := 0; start < len(commits); start += chunkSize {
			end := min(start+chunkSize, len(commits))
			chunk := git.CommitChunk{Commits: append([]git.Commit(nil), commits[start:end]...)}
			select {
			case out <- chunk:
			case <-ctx.Done():
				return
			}
		}
	}
}

func commitsWithSummaries(summaries ...string) []git.Commit {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	commits := make([]git.Commit, len(summaries))
	for i, s := range summaries {
		id := string(rune('a'+i)) + "000000000000000000000000000000000000000"
		commits[i] = git.Commit{
			ID:      id,
			ShortID: id[:7],
			Author:  "Jane Doe",
			When:    base.Add(-time.Duration(i) * time.Hour),
			Summary: s,
		}
	}
	return commits
}

func testEnv(b Backend) *Env {
	cfg := config.Default()
	styles, err := theme.NewStyles(cfg.Colors, theme.PaletteFor(theme.Dark))
	if err != nil {
		panic(err)
	}
	env := &Env{
		Backend:  b,
		Keys:     NewKeyMap(cfg.Keybindings),
		Styles:   styles,
		Settings: cfg.Settings,
		Now:      func() time.Time { return time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC) },
	}
	env.Settings.CommitChunkSize = 2
	return env
}

// pump ticks v until done reports true, like the shell's tick loop.
func pump(t *testing.T, v View, done func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !done() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for background work")
		}
		require.NoError(t, v.Update())
		time.Sleep(time.Millisecond)
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyOf(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}
