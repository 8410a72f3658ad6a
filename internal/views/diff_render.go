package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/thiagokokada/tig-go/internal/git"
)

// renderDiff flattens a diff model into styled display lines.
func (v *DiffView) renderDiff(d *git.Diff) []string {
	st := v.env.Styles
	var out []string
	switch v.req.Kind {
	case git.DiffCommit:
		out = append(out, st.CommitHash.Render("commit "+v.req.Commit))
		if v.req.Summary != "" {
			out = append(out, "    "+v.req.Summary)
		}
	case git.DiffStaged:
		out = append(out, st.FileHeader.Render(scopeHeader("Staged changes", v.req.Path)))
	case git.DiffUnstaged:
		out = append(out, st.FileHeader.Render(scopeHeader("Unstaged changes", v.req.Path)))
	}
	out = append(out, "")
	if d == nil || len(d.Files) == 0 {
		out = append(out, "No changes")
		return out
	}
	for _, f := range d.Files {
		out = append(out, v.renderFile(f)...)
		out = append(out, "")
	}
	adds, dels := d.TotalStats()
	out = append(out, fmt.Sprintf("%d file(s) changed, %s %s",
		len(d.Files),
		st.Added.Render(fmt.Sprintf("+%d", adds)),
		st.Deleted.Render(fmt.Sprintf("-%d", dels)),
	))
	return out
}

func scopeHeader(label, path string) string {
	if path == "" {
		return label
	}
	return label + ": " + path
}

func (v *DiffView) renderFile(f git.FileDiff) []string {
	st := v.env.Styles
	oldPath, newPath := f.OldPath, f.NewPath
	if oldPath == "" {
		oldPath = newPath
	}
	if newPath == "" {
		newPath = oldPath
	}
	out := []string{
		st.FileHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", oldPath, newPath)),
		fmt.Sprintf("%s (%s)", f.StatsSummary(), f.Status),
	}
	if f.Binary {
		out = append(out, st.Modified.Render("Binary file "+f.Path()))
		return out
	}
	for _, l := range f.Headers {
		out = append(out, v.renderLine(f.Path(), l))
	}
	for _, h := range f.Hunks {
		out = append(out, v.renderLine(f.Path(), git.Line{Kind: git.LineHunkHeader, Content: h.Header}))
		for _, l := range h.Lines {
			out = append(out, v.renderLine(f.Path(), l))
		}
	}
	return out
}

func (v *DiffView) renderLine(path string, l git.Line) string {
	st := v.env.Styles
	var prefix string
	var sign, tint lipgloss.Style
	switch l.Kind {
	case git.LineAddition:
		prefix, sign, tint = "+", st.Added, st.AddedLine
	case git.LineDeletion:
		prefix, sign, tint = "-", st.Deleted, st.DeletedLine
	case git.LineFileHeader:
		return st.FileHeader.Render(l.Content)
	case git.LineHunkHeader:
		return st.HunkHeader.Render(l.Content)
	default:
		prefix, sign, tint = " ", lipgloss.NewStyle(), lipgloss.NewStyle()
	}
	content := expandTabs(l.Content, v.env.Settings.TabWidth)
	var body string
	if v.env.Settings.SyntaxHighlight && v.env.Highlighter != nil {
		body = sign.Inherit(tint).Render(prefix) + v.env.Highlighter.Line(path, content, tint)
	} else {
		body = sign.Render(prefix + content)
	}
	if !v.env.Settings.ShowLineNumbers {
		return body
	}
	return st.LineNumber.Render(gutter(l)) + body
}

func gutter(l git.Line) string {
	return fmt.Sprintf("%4s %4s ", lineNo(l.OldNo), lineNo(l.NewNo))
}

func lineNo(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("%d", n)
}

func expandTabs(s string, width int) string {
	if width <= 0 || !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", width))
}
