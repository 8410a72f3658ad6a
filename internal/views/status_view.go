package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/thiagokokada/tig-go/internal/async"
	"github.com/thiagokokada/tig-go/internal/git"
)

// Section is a group of status rows.
type Section int

const (
	SectionStaged Section = iota
	SectionUnstaged
	SectionUntracked
	SectionConflicted
)

func (s Section) String() string {
	switch s {
	case SectionStaged:
		return "Changes to be committed"
	case SectionUnstaged:
		return "Changes not staged for commit"
	case SectionUntracked:
		return "Untracked files"
	default:
		return "Conflicted files"
	}
}

type statusRow struct {
	header  bool
	section Section
	entry   git.StatusEntry
}

// StatusView lists worktree changes and stages or unstages them.
type StatusView struct {
	env *Env

	query  *async.Query[*git.Status]
	status *git.Status
	rows   []statusRow
	err    error

	// mutation is the pending stage/unstage; its result only signals that
	// the snapshot is stale.
	mutation     *async.Query[struct{}]
	mutationVerb string
	mutationPath string
	notice       string

	selected int
	offset   int
}

func NewStatusView(env *Env) *StatusView {
	return &StatusView{env: env}
}

func (v *StatusView) startQuery() {
	backend := v.env.Backend
	v.query = async.Start(backend.LoadStatus)
}

func (v *StatusView) OnActivate() error {
	if v.status == nil && v.query == nil {
		v.startQuery()
	}
	return nil
}

func (v *StatusView) OnDeactivate() error { return nil }

func (v *StatusView) Loading() bool {
	return v.query != nil || v.mutation != nil
}

func (v *StatusView) Refresh() {
	if v.query == nil {
		v.startQuery()
	}
}

func (v *StatusView) Update() error {
	if res, ok := v.mutation.Poll(); ok {
		v.mutation = nil
		v.notice = ""
		if res.Err != nil {
			v.notice = fmt.Sprintf("Failed to %s %s: %v", v.mutationVerb, v.mutationPath, res.Err)
		}
		v.status = nil
		v.rows = nil
		v.startQuery()
	}
	if res, ok := v.query.Poll(); ok {
		v.query = nil
		if res.Err != nil {
			v.err = res.Err
			return nil
		}
		v.err = nil
		v.setStatus(res.Value)
	}
	return nil
}

func (v *StatusView) setStatus(st *git.Status) {
	if st == nil {
		st = &git.Status{}
	}
	v.status = st
	v.rows = v.rows[:0]
	sections := []struct {
		section Section
		entries []git.StatusEntry
	}{
		{SectionStaged, st.Staged},
		{SectionUnstaged, st.Unstaged},
		{SectionUntracked, st.Untracked},
		{SectionConflicted, st.Conflicted},
	}
	for _, s := range sections {
		if len(s.entries) == 0 {
			continue
		}
		v.rows = append(v.rows, statusRow{header: true, section: s.section})
		for _, e := range s.entries {
			v.rows = append(v.rows, statusRow{section: s.section, entry: e})
		}
	}
	v.selected = clamp(v.selected, 0, len(v.rows)-1)
	// Every header is followed by at least one entry.
	if row, ok := v.selectedRow(); ok && row.header {
		v.selected++
	}
}

// Status returns the current snapshot, nil while loading.
func (v *StatusView) Status() *git.Status {
	return v.status
}

// Notice is the message left by the last failed stage or unstage.
func (v *StatusView) Notice() string {
	return v.notice
}

func (v *StatusView) selectedRow() (statusRow, bool) {
	if v.selected < 0 || v.selected >= len(v.rows) {
		return statusRow{}, false
	}
	return v.rows[v.selected], true
}

func (v *StatusView) HandleKey(msg tea.KeyMsg) (Action, error) {
	keys := v.env.Keys.Status
	if next, ok := navigate(keys.NavKeys, msg, v.selected, len(v.rows), v.env.pageSize()); ok {
		v.selected = next
		return noAction, nil
	}
	switch {
	case key.Matches(msg, keys.Open):
		row, ok := v.selectedRow()
		if !ok || row.header {
			return noAction, nil
		}
		kind := git.DiffUnstaged
		if row.section == SectionStaged {
			kind = git.DiffStaged
		}
		return pushDiff(git.DiffRequest{Kind: kind, Path: row.entry.Path}), nil
	case key.Matches(msg, keys.Toggle):
		v.toggle()
	case key.Matches(msg, keys.Refresh):
		v.Refresh()
	case key.Matches(msg, keys.Help):
		return pushAction(KindHelp), nil
	case key.Matches(msg, keys.Back):
		return popAction, nil
	}
	return noAction, nil
}

func (v *StatusView) toggle() {
	row, ok := v.selectedRow()
	if !ok || row.header || v.mutation != nil {
		return
	}
	backend, path := v.env.Backend, row.entry.Path
	mutate, verb := backend.Stage, "stage"
	if row.section == SectionStaged {
		mutate, verb = backend.Unstage, "unstage"
	}
	v.mutationVerb, v.mutationPath = verb, path
	v.mutation = async.Start(func() (struct{}, error) {
		return struct{}{}, mutate(path)
	})
}

func (v *StatusView) Title() string {
	switch {
	case v.status == nil:
		return "Status"
	case v.status.HasChanges():
		return fmt.Sprintf("Status - %d changes", v.status.TotalCount())
	default:
		return "Status - No changes"
	}
}

func (v *StatusView) Draw(width, height int) string {
	st := v.env.Styles
	var body []string
	if v.notice != "" {
		body = append(body, st.Error.Render(v.notice))
	}
	switch {
	case v.err != nil:
		body = append(body, st.Error.Render(fmt.Sprintf("Failed to load status: %v", v.err)))
	case v.status == nil:
		body = append(body, "Loading status...")
	case len(v.rows) == 0:
		body = append(body, "No changes")
	}
	rowsHeight := max(height-1-len(body), 0)
	v.offset = scrollWindow(v.selected, v.offset, rowsHeight)
	for i := v.offset; i < len(v.rows) && i < v.offset+rowsHeight; i++ {
		line := v.formatRow(v.rows[i])
		if i == v.selected {
			line = highlightRow(st.Selected, line, width)
		}
		body = append(body, line)
	}
	return frame(st.Title, v.Title(), body, width, height)
}

func (v *StatusView) formatRow(row statusRow) string {
	st := v.env.Styles
	if row.header {
		return st.FileHeader.Render(row.section.String() + ":")
	}
	code := st.Deleted
	if row.section == SectionStaged {
		code = st.Added
	}
	kind := row.entry.Kind
	return fmt.Sprintf("  %s %-12s %s", code.Render(kind.ShortCode()), kind.Description()+":", row.entry.Path)
}
