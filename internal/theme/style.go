package theme

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/thiagokokada/tig-go/internal/config"
)

var namedColors = map[string]string{
	"black":        "0",
	"red":          "1",
	"green":        "2",
	"yellow":       "3",
	"blue":         "4",
	"magenta":      "5",
	"cyan":         "6",
	"gray":         "7",
	"grey":         "7",
	"darkgray":     "8",
	"darkgrey":     "8",
	"lightred":     "9",
	"lightgreen":   "10",
	"lightyellow":  "11",
	"lightblue":    "12",
	"lightmagenta": "13",
	"lightcyan":    "14",
	"white":        "15",
}

// ParseStyle turns strings like "bold yellow", "black on white" or
// "italic #ff8800 on 236" into a lipgloss style. An empty string is the
// terminal default.
func ParseStyle(desc string) (lipgloss.Style, error) {
	style := lipgloss.NewStyle()
	background := false
	for _, word := range strings.Fields(strings.ToLower(desc)) {
		switch word {
		case "on":
			background = true
			continue
		case "bold":
			style = style.Bold(true)
			continue
		case "italic":
			style = style.Italic(true)
			continue
		case "underline", "underlined":
			style = style.Underline(true)
			continue
		case "reverse", "reversed":
			style = style.Reverse(true)
			continue
		case "dim", "faint":
			style = style.Faint(true)
			continue
		case "default", "reset":
			background = false
			continue
		}
		color, err := parseColor(word)
		if err != nil {
			return lipgloss.NewStyle(), fmt.Errorf("style %q: %w", desc, err)
		}
		if background {
			style = style.Background(color)
			background = false
		} else {
			style = style.Foreground(color)
		}
	}
	if background {
		return lipgloss.NewStyle(), fmt.Errorf("style %q: missing background color after \"on\"", desc)
	}
	return style, nil
}

func parseColor(word string) (lipgloss.Color, error) {
	if code, ok := namedColors[word]; ok {
		return lipgloss.Color(code), nil
	}
	if strings.HasPrefix(word, "#") {
		if len(word) != 7 && len(word) != 4 {
			return "", fmt.Errorf("bad hex color %q", word)
		}
		if _, err := strconv.ParseUint(word[1:], 16, 32); err != nil {
			return "", fmt.Errorf("bad hex color %q", word)
		}
		return lipgloss.Color(word), nil
	}
	if n, err := strconv.Atoi(word); err == nil && n >= 0 && n <= 255 {
		return lipgloss.Color(word), nil
	}
	return "", fmt.Errorf("unknown color %q", word)
}

// Styles is the resolved set of styles shared by all views.
type Styles struct {
	Palette Palette

	CommitHash lipgloss.Style
	Date       lipgloss.Style
	Author     lipgloss.Style
	Refs       lipgloss.Style
	Added      lipgloss.Style
	Deleted    lipgloss.Style
	Modified   lipgloss.Style
	FileHeader lipgloss.Style
	HunkHeader lipgloss.Style
	LineNumber lipgloss.Style
	Selected   lipgloss.Style
	StatusBar  lipgloss.Style
	Error      lipgloss.Style
	Title      lipgloss.Style

	// AddedLine and DeletedLine tint whole lines when syntax colors own the
	// foreground.
	AddedLine   lipgloss.Style
	DeletedLine lipgloss.Style
}

// NewStyles parses every configured color.
func NewStyles(colors config.Colors, pal Palette) (*Styles, error) {
	s := &Styles{
		Palette:     pal,
		AddedLine:   lipgloss.NewStyle().Background(pal.DiffAddBg),
		DeletedLine: lipgloss.NewStyle().Background(pal.DiffDelBg),
	}
	fields := []struct {
		name string
		desc string
		dst  *lipgloss.Style
	}{
		{"commit_hash", colors.CommitHash, &s.CommitHash},
		{"date", colors.Date, &s.Date},
		{"author", colors.Author, &s.Author},
		{"refs", colors.Refs, &s.Refs},
		{"added", colors.Added, &s.Added},
		{"deleted", colors.Deleted, &s.Deleted},
		{"modified", colors.Modified, &s.Modified},
		{"file_header", colors.FileHeader, &s.FileHeader},
		{"hunk_header", colors.HunkHeader, &s.HunkHeader},
		{"line_number", colors.LineNumber, &s.LineNumber},
		{"selected", colors.Selected, &s.Selected},
		{"status_bar", colors.StatusBar, &s.StatusBar},
		{"error", colors.Error, &s.Error},
		{"title", colors.Title, &s.Title},
	}
	for _, f := range fields {
		style, err := ParseStyle(f.desc)
		if err != nil {
			return nil, fmt.Errorf("colors.%s: %w", f.name, err)
		}
		*f.dst = style
	}
	return s, nil
}
