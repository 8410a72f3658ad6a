package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const ellipsis = "…"

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}

// navigate applies a navigation key to pos over count rows. ok is false
// when msg is not a navigation key. With no rows pos stays put.
func navigate(k NavKeys, msg tea.KeyMsg, pos, count, page int) (next int, ok bool) {
	switch {
	case key.Matches(msg, k.Up):
		next = pos - 1
	case key.Matches(msg, k.Down):
		next = pos + 1
	case key.Matches(msg, k.Top):
		next = 0
	case key.Matches(msg, k.Bottom):
		next = count - 1
	case key.Matches(msg, k.PageUp):
		next = pos - page
	case key.Matches(msg, k.PageDown):
		next = pos + page
	default:
		return pos, false
	}
	if count == 0 {
		return pos, true
	}
	return clamp(next, 0, count-1), true
}

// scrollWindow keeps cursor inside [offset, offset+height).
func scrollWindow(cursor, offset, height int) int {
	if height <= 0 {
		return cursor
	}
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+height {
		return cursor - height + 1
	}
	return offset
}

// frame renders a title line above body, every line cut to width and the
// result padded to height lines.
func frame(title lipgloss.Style, header string, body []string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	lines := make([]string, 0, height)
	lines = append(lines, ansi.Truncate(title.Render(header), width, ellipsis))
	for _, l := range body {
		if len(lines) == height {
			break
		}
		lines = append(lines, ansi.Truncate(l, width, ellipsis))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// highlightRow paints a selected row across the full width.
func highlightRow(style lipgloss.Style, row string, width int) string {
	plain := ansi.Truncate(ansi.Strip(row), width, ellipsis)
	return style.Width(width).Render(plain)
}
