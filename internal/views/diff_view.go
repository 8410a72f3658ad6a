package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/thiagokokada/tig-go/internal/async"
	"github.com/thiagokokada/tig-go/internal/git"
)

// DiffView shows one commit, staged or unstaged diff.
type DiffView struct {
	env *Env
	req git.DiffRequest

	query  *async.Query[*git.Diff]
	diff   *git.Diff
	lines  []string
	loaded bool
	err    error

	offset int
}

func NewDiffView(env *Env, req git.DiffRequest) *DiffView {
	return &DiffView{env: env, req: req}
}

func (v *DiffView) Request() git.DiffRequest {
	return v.req
}

func (v *DiffView) startQuery() {
	backend, req := v.env.Backend, v.req
	v.query = async.Start(func() (*git.Diff, error) {
		return backend.LoadDiff(req)
	})
}

func (v *DiffView) OnActivate() error {
	if !v.loaded && v.err == nil && v.query == nil {
		v.startQuery()
	}
	return nil
}

func (v *DiffView) OnDeactivate() error { return nil }

func (v *DiffView) Loading() bool {
	return v.query != nil
}

// Refresh reloads worktree diffs; commit diffs never change.
func (v *DiffView) Refresh() {
	if v.req.Kind == git.DiffCommit || v.query != nil {
		return
	}
	v.startQuery()
}

func (v *DiffView) Update() error {
	res, ok := v.query.Poll()
	if !ok {
		return nil
	}
	v.query = nil
	if res.Err != nil {
		v.err = res.Err
		v.diff, v.lines = nil, nil
		return nil
	}
	v.err = nil
	v.loaded = true
	v.diff = res.Value
	v.lines = v.renderDiff(res.Value)
	v.offset = clamp(v.offset, 0, len(v.lines)-1)
	return nil
}

// Offset is the first displayed line.
func (v *DiffView) Offset() int {
	return v.offset
}

func (v *DiffView) LineCount() int {
	return len(v.lines)
}

func (v *DiffView) HandleKey(msg tea.KeyMsg) (Action, error) {
	keys := v.env.Keys.Diff
	if next, ok := navigate(keys.NavKeys, msg, v.offset, len(v.lines), v.env.pageSize()); ok {
		v.offset = next
		return noAction, nil
	}
	switch {
	case key.Matches(msg, keys.Help):
		return pushAction(KindHelp), nil
	case key.Matches(msg, keys.Back):
		return popAction, nil
	}
	return noAction, nil
}

func (v *DiffView) Title() string {
	return "Diff"
}

func (v *DiffView) header(bodyHeight int) string {
	total := len(v.lines)
	shown := min(v.offset+bodyHeight, total)
	return fmt.Sprintf("Diff - %d / %d lines", shown, total)
}

func (v *DiffView) Draw(width, height int) string {
	st := v.env.Styles
	bodyHeight := max(height-1, 0)
	var body []string
	switch {
	case v.err != nil:
		body = []string{st.Error.Render(fmt.Sprintf("Failed to load diff: %v", v.err))}
	case !v.loaded:
		body = []string{"Loading diff..."}
	default:
		end := min(v.offset+bodyHeight, len(v.lines))
		body = v.lines[v.offset:end]
	}
	return frame(st.Title, v.header(bodyHeight), body, width, height)
}
