package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/thiagokokada/tig-go/internal/buildinfo"
	"github.com/thiagokokada/tig-go/internal/config"
	"github.com/thiagokokada/tig-go/internal/git"
	"github.com/thiagokokada/tig-go/internal/theme"
	"github.com/thiagokokada/tig-go/internal/tui"
)

var errNotTerminal = errors.New("stdout is not a terminal")

type options struct {
	configPath string
	chunkSize  int
	mode       string
	noWatch    bool
	noSyntax   bool
	verbose    bool
	logFile    string
	dumpConfig bool
	version    bool
}

func Run() error {
	return run(os.Args[1:], os.Stdout)
}

func run(args []string, stdout io.Writer) error {
	cmd := newRootCmd(stdout, func(opts *options, repoPath string, cfg *config.Config) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errNotTerminal
		}
		closeLog, err := setupLogging(opts)
		if err != nil {
			return err
		}
		defer closeLog()
		return tui.Run(tui.Options{RepoPath: repoPath, Config: cfg, Watch: !opts.noWatch})
	})
	cmd.SetArgs(args)
	return cmd.Execute()
}

type launchFunc func(opts *options, repoPath string, cfg *config.Config) error

func newRootCmd(stdout io.Writer, launch launchFunc) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "tig-go [path]",
		Short:         "Terminal dashboard for git repositories",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.version {
				fmt.Fprintln(stdout, buildinfo.VersionWithTags())
				return nil
			}
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if opts.dumpConfig {
				return dumpConfig(stdout, opts.configPath, cfg)
			}
			repoPath := "."
			if len(args) > 0 {
				repoPath = args[0]
			}
			return launch(opts, repoPath, cfg)
		},
	}
	cmd.SetOut(stdout)
	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "path to the YAML config file")
	f.IntVar(&opts.chunkSize, "chunk-size", git.DefaultChunkSize, "number of commits to load per chunk")
	f.StringVar(&opts.mode, "mode", theme.Auto.String(), "color mode: auto, light, or dark")
	f.BoolVar(&opts.noWatch, "nowatch", false, "disable automatic reload when repository changes")
	f.BoolVar(&opts.noSyntax, "nosyntax", false, "disable syntax highlighting in the diff viewer")
	f.BoolVar(&opts.verbose, "verbose", false, "enable verbose logging")
	f.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	f.BoolVar(&opts.dumpConfig, "dump-config", false, "write the effective config and exit")
	f.BoolVar(&opts.version, "version", false, "print version information and exit")
	return cmd
}

// loadConfig reads the config file and applies flags the user set
// explicitly on top of it.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("chunk-size") {
		cfg.Settings.CommitChunkSize = opts.chunkSize
	}
	if flags.Changed("mode") {
		cfg.Settings.Theme = theme.PreferenceFromString(opts.mode).String()
	}
	if opts.noSyntax {
		cfg.Settings.SyntaxHighlight = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func dumpConfig(stdout io.Writer, path string, cfg *config.Config) error {
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return fmt.Errorf("config path: %w", err)
		}
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Fprintln(stdout, path)
	return nil
}

// setupLogging points the standard logger, and with it slog's default
// handler, at a file. The terminal belongs to the UI, so without
// --verbose or --log-file logs are discarded.
func setupLogging(opts *options) (func(), error) {
	if opts.verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	path := opts.logFile
	if path == "" && !opts.verbose {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	if path == "" {
		var err error
		path, err = xdg.StateFile("tig-go/tig-go.log")
		if err != nil {
			return nil, fmt.Errorf("log path: %w", err)
		}
	}
	f, err := tea.LogToFile(path, "tig-go")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	slog.Debug("logging started", slog.String("version", buildinfo.Version()))
	return func() {
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close log file: %v\n", err)
		}
	}, nil
}
