// Package highlight colors source lines inside diffs with chroma.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// Highlighter caches lexers per path. It is not safe for concurrent use;
// views call it from the UI loop only. A nil Highlighter renders lines
// without syntax colors.
type Highlighter struct {
	style  *chroma.Style
	lexers map[string]chroma.Lexer
}

// New returns a highlighter for the named chroma style, falling back to
// chroma's default style for unknown names.
func New(styleName string) *Highlighter {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return &Highlighter{style: style, lexers: map[string]chroma.Lexer{}}
}

// Line renders code on top of base, coloring tokens by the language
// guessed from path.
func (h *Highlighter) Line(path, code string, base lipgloss.Style) string {
	if h == nil || code == "" {
		return base.Render(code)
	}
	lexer := h.lexerFor(path)
	if lexer == nil {
		return base.Render(code)
	}
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return base.Render(code)
	}
	var b strings.Builder
	for _, token := range iterator.Tokens() {
		value := strings.TrimSuffix(token.Value, "\n")
		if value == "" {
			continue
		}
		style := base
		if color := colorFromEntry(h.style.Get(token.Type)); color != "" {
			style = style.Foreground(lipgloss.Color(color))
		}
		b.WriteString(style.Render(value))
	}
	return b.String()
}

func (h *Highlighter) lexerFor(path string) chroma.Lexer {
	if path == "" {
		return nil
	}
	if lexer, ok := h.lexers[path]; ok {
		return lexer
	}
	var lexer chroma.Lexer
	if l := lexers.Match(path); l != nil {
		lexer = chroma.Coalesce(l)
	}
	h.lexers[path] = lexer
	return lexer
}

func colorFromEntry(entry chroma.StyleEntry) string {
	if !entry.Colour.IsSet() {
		return ""
	}
	return "#" + strings.TrimPrefix(strings.ToLower(entry.Colour.String()), "#")
}
