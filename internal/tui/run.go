package tui

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/thiagokokada/tig-go/internal/config"
	"github.com/thiagokokada/tig-go/internal/git"
	"github.com/thiagokokada/tig-go/internal/highlight"
	"github.com/thiagokokada/tig-go/internal/theme"
	"github.com/thiagokokada/tig-go/internal/views"
	"github.com/thiagokokada/tig-go/internal/watch"
)

type Options struct {
	RepoPath string
	Config   *config.Config
	Watch    bool
}

// NewEnv resolves cfg into what the views share.
func NewEnv(backend views.Backend, cfg *config.Config) (*views.Env, error) {
	pal := theme.PaletteFor(theme.PreferenceFromString(cfg.Settings.Theme))
	styles, err := theme.NewStyles(cfg.Colors, pal)
	if err != nil {
		return nil, err
	}
	// Adaptive colors in bubbles components follow the resolved palette.
	lipgloss.SetHasDarkBackground(pal.IsDark())
	env := &views.Env{
		Backend:  backend,
		Keys:     views.NewKeyMap(cfg.Keybindings),
		Styles:   styles,
		Settings: cfg.Settings,
	}
	if cfg.Settings.SyntaxHighlight {
		env.Highlighter = highlight.New(pal.ChromaStyle)
	}
	slog.Debug("theme resolved",
		slog.String("palette", pal.Name),
		slog.Bool("syntax", cfg.Settings.SyntaxHighlight),
	)
	return env, nil
}

// Run opens the repository and blocks until the user quits.
func Run(opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	repo, err := git.Open(opts.RepoPath)
	if err != nil {
		return err
	}
	env, err := NewEnv(repo, cfg)
	if err != nil {
		return err
	}

	var watcher *watch.Watcher
	if opts.Watch {
		watcher, err = watch.New(repo.Path(), watch.DefaultDelay)
		if err != nil {
			slog.Error("auto reload disabled", slog.Any("error", err))
			watcher = nil
		}
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			slog.Error("watcher close", slog.Any("error", err))
		}
	}()

	var pulser Pulser
	if watcher != nil {
		pulser = watcher
	}
	m, err := New(repo, env, pulser)
	if err != nil {
		return err
	}
	defer m.Close()

	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.Settings.MouseSupport {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}
	slog.Debug("starting UI", slog.String("repo", repo.Path()))
	if _, err := tea.NewProgram(m, progOpts...).Run(); err != nil {
		return fmt.Errorf("run UI: %w", err)
	}
	return nil
}
