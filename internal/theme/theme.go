package theme

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	darkmode "github.com/thiagokokada/dark-mode-go"
)

type Preference int

const (
	Auto Preference = iota
	Light
	Dark
)

func (p Preference) String() string {
	switch p {
	case Light:
		return "light"
	case Dark:
		return "dark"
	default:
		return "auto"
	}
}

func PreferenceFromString(raw string) Preference {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case Dark.String():
		return Dark
	case Light.String():
		return Light
	default:
		return Auto
	}
}

// Palette holds the colors that depend on the terminal background rather
// than on user configuration.
type Palette struct {
	Name        string
	ChromaStyle string
	DiffAddBg   lipgloss.Color
	DiffDelBg   lipgloss.Color
	Muted       lipgloss.Color
}

var (
	lightPalette = Palette{
		Name:        "light",
		ChromaStyle: "github",
		DiffAddBg:   "#dff5de",
		DiffDelBg:   "#f9d6d5",
		Muted:       "#8a8a8a",
	}
	darkPalette = Palette{
		Name:        "dark",
		ChromaStyle: "github-dark",
		DiffAddBg:   "#1f3d2b",
		DiffDelBg:   "#3d1f29",
		Muted:       "#6c6c6c",
	}
	detectDarkMode = darkmode.IsDarkMode
)

// PaletteFor resolves a preference, asking the desktop for its color
// scheme when set to Auto. Detection failures fall back to the dark palette,
// the common case for terminals.
func PaletteFor(pref Preference) Palette {
	switch pref {
	case Dark:
		return darkPalette
	case Light:
		return lightPalette
	default:
		if detectDarkMode == nil {
			return darkPalette
		}
		dark, err := detectDarkMode()
		if err != nil {
			slog.Debug("detect dark-mode", slog.Any("error", err))
			return darkPalette
		}
		if dark {
			return darkPalette
		}
		return lightPalette
	}
}

func (p Palette) IsDark() bool {
	return p.Name == darkPalette.Name
}
