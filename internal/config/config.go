// Package config loads the YAML configuration: settings, colors and key
// bindings.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const relPath = "tig-go/config.yaml"

type Config struct {
	Settings    Settings    `yaml:"settings"`
	Colors      Colors      `yaml:"colors"`
	Keybindings Keybindings `yaml:"keybindings"`
}

type Settings struct {
	CommitChunkSize int    `yaml:"commit_chunk_size"`
	DateFormat      string `yaml:"date_format"`
	ShowLineNumbers bool   `yaml:"show_line_numbers"`
	TabWidth        int    `yaml:"tab_width"`
	MouseSupport    bool   `yaml:"mouse_support"`
	PageSize        int    `yaml:"page_size"`
	Theme           string `yaml:"theme"`
	SyntaxHighlight bool   `yaml:"syntax_highlight"`
}

// Colors holds style strings such as "bold yellow" or "black on #ffcc00".
type Colors struct {
	CommitHash string `yaml:"commit_hash"`
	Date       string `yaml:"date"`
	Author     string `yaml:"author"`
	Refs       string `yaml:"refs"`
	Added      string `yaml:"added"`
	Deleted    string `yaml:"deleted"`
	Modified   string `yaml:"modified"`
	FileHeader string `yaml:"file_header"`
	HunkHeader string `yaml:"hunk_header"`
	LineNumber string `yaml:"line_number"`
	Selected   string `yaml:"selected"`
	StatusBar  string `yaml:"status_bar"`
	Error      string `yaml:"error"`
	Title      string `yaml:"title"`
}

// Keybindings maps action names to bubbletea key strings, per view.
type Keybindings struct {
	Global map[string][]string `yaml:"global"`
	Main   map[string][]string `yaml:"main"`
	Diff   map[string][]string `yaml:"diff"`
	Status map[string][]string `yaml:"status"`
	Help   map[string][]string `yaml:"help"`
}

func navigation() map[string][]string {
	return map[string][]string{
		"up":        {"k", "up"},
		"down":      {"j", "down"},
		"top":       {"g", "home"},
		"bottom":    {"G", "end"},
		"page_up":   {"pgup"},
		"page_down": {"pgdown"},
	}
}

func with(base map[string][]string, extra map[string][]string) map[string][]string {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Settings: Settings{
			CommitChunkSize: 50,
			DateFormat:      "relative",
			ShowLineNumbers: true,
			TabWidth:        4,
			PageSize:        20,
			Theme:           "auto",
			SyntaxHighlight: true,
		},
		Colors: Colors{
			CommitHash: "yellow",
			Date:       "blue",
			Author:     "green",
			Refs:       "bold cyan",
			Added:      "green",
			Deleted:    "red",
			FileHeader: "bold cyan",
			HunkHeader: "bold magenta",
			LineNumber: "darkgray",
			Selected:   "bold on darkgray",
			StatusBar:  "white on blue",
			Error:      "red",
			Title:      "bold yellow",
		},
		Keybindings: Keybindings{
			Global: map[string][]string{"quit": {"ctrl+c"}},
			Main: with(navigation(), map[string][]string{
				"open":    {"enter"},
				"search":  {"/"},
				"status":  {"s"},
				"refresh": {"r"},
				"help":    {"?"},
				"quit":    {"q"},
			}),
			Diff: with(navigation(), map[string][]string{
				"help": {"?"},
				"back": {"q", "esc"},
			}),
			Status: with(navigation(), map[string][]string{
				"open":    {"enter"},
				"toggle":  {"u"},
				"refresh": {"r"},
				"help":    {"?"},
				"back":    {"q", "esc"},
			}),
			Help: with(navigation(), map[string][]string{
				"back": {"q", "esc"},
			}),
		},
	}
}

// DefaultPath is where Save writes when no path is given.
func DefaultPath() (string, error) {
	return xdg.ConfigFile(relPath)
}

// Load reads path, or the first tig-go/config.yaml in the XDG config
// directories when path is empty. Values missing from the file keep their
// defaults. A missing file is only an error when path was given explicitly.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		found, err := xdg.SearchConfigFile(relPath)
		if err != nil {
			slog.Debug("no config file found, using defaults")
			return cfg, nil
		}
		path = found
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	slog.Debug("config loaded", slog.String("path", path))
	return cfg, nil
}

// Validate rejects settings the views cannot work with.
func (c *Config) Validate() error {
	var errs []error
	if c.Settings.CommitChunkSize < 1 {
		errs = append(errs, fmt.Errorf("commit_chunk_size must be positive, got %d", c.Settings.CommitChunkSize))
	}
	if c.Settings.PageSize < 1 {
		errs = append(errs, fmt.Errorf("page_size must be positive, got %d", c.Settings.PageSize))
	}
	if c.Settings.TabWidth < 1 {
		errs = append(errs, fmt.Errorf("tab_width must be positive, got %d", c.Settings.TabWidth))
	}
	switch c.Settings.Theme {
	case "auto", "light", "dark":
	default:
		errs = append(errs, fmt.Errorf("theme must be auto, light or dark, got %q", c.Settings.Theme))
	}
	return errors.Join(errs...)
}

// Save writes cfg as YAML, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
