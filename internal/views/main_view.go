package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/thiagokokada/tig-go/internal/async"
	"github.com/thiagokokada/tig-go/internal/git"
)

const (
	commitStreamBuffer = 4
	authorWidth        = 16
	dateWidth          = 14
)

// SearchMode is the state of the incremental commit filter.
type SearchMode int

const (
	SearchOff SearchMode = iota
	// SearchInput: the query is being typed and re-applied per keystroke.
	SearchInput
	// SearchApplied: the query was confirmed and the filtered list is browsable.
	SearchApplied
)

// MainView lists the commit history, streamed in chunks.
type MainView struct {
	env *Env

	stream   *async.Stream[git.CommitChunk]
	commits  []git.Commit
	finished bool
	err      error

	mode     SearchMode
	input    textinput.Model
	filtered []int

	selected int
	offset   int
	// restoreID is the commit to reselect once a refreshed stream
	// delivers it again.
	restoreID string
}

func NewMainView(env *Env) *MainView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256
	return &MainView{env: env, input: ti}
}

func (v *MainView) startStream() {
	chunk := v.env.Settings.CommitChunkSize
	backend := v.env.Backend
	v.stream = async.StartStream(commitStreamBuffer, func(ctx context.Context, out chan<- git.CommitChunk) {
		backend.StreamCommits(ctx, chunk, out)
	})
}

func (v *MainView) OnActivate() error {
	if v.stream == nil && !v.finished {
		v.startStream()
	}
	return nil
}

func (v *MainView) OnDeactivate() error { return nil }

func (v *MainView) Close() {
	v.stream.Close()
	v.stream = nil
}

func (v *MainView) Loading() bool {
	return v.stream != nil
}

// Refresh restarts the history walk from scratch.
func (v *MainView) Refresh() {
	if c, ok := v.Selected(); ok {
		v.restoreID = c.ID
	}
	v.stream.Close()
	v.commits = nil
	v.finished = false
	v.err = nil
	v.startStream()
	v.refilter()
}

func (v *MainView) Update() error {
	if v.stream == nil {
		return nil
	}
	chunks, finished := v.stream.Drain()
	grew := false
	for _, chunk := range chunks {
		if chunk.Err != nil {
			v.err = chunk.Err
		}
		if len(chunk.Commits) > 0 {
			v.commits = append(v.commits, chunk.Commits...)
			grew = true
		}
	}
	if finished {
		if err := v.stream.Err(); err != nil {
			v.err = err
		}
		v.stream = nil
		v.finished = true
	}
	if grew {
		v.refilter()
		v.restoreSelection()
	}
	if finished {
		v.restoreID = ""
	}
	return nil
}

func (v *MainView) restoreSelection() {
	if v.restoreID == "" {
		return
	}
	for row := range v.visibleCount() {
		if c, _ := v.commitAt(row); c.ID == v.restoreID {
			v.selected = row
			v.restoreID = ""
			return
		}
	}
}

// Commits returns the loaded history.
func (v *MainView) Commits() []git.Commit {
	return v.commits
}

func (v *MainView) Mode() SearchMode {
	return v.mode
}

// Visible returns the indices into Commits of the displayed rows.
func (v *MainView) Visible() []int {
	if v.mode != SearchOff {
		return v.filtered
	}
	all := make([]int, len(v.commits))
	for i := range all {
		all[i] = i
	}
	return all
}

func (v *MainView) visibleCount() int {
	if v.mode != SearchOff {
		return len(v.filtered)
	}
	return len(v.commits)
}

func (v *MainView) commitAt(row int) (git.Commit, bool) {
	if row < 0 || row >= v.visibleCount() {
		return git.Commit{}, false
	}
	if v.mode != SearchOff {
		return v.commits[v.filtered[row]], true
	}
	return v.commits[row], true
}

// Selected returns the commit under the cursor.
func (v *MainView) Selected() (git.Commit, bool) {
	return v.commitAt(v.selected)
}

// FilterCommits returns the indices of commits matching query, ignoring
// case, in history order.
func FilterCommits(commits []git.Commit, query string) []int {
	q := strings.ToLower(query)
	indices := []int{}
	for i, c := range commits {
		if c.Matches(q) {
			indices = append(indices, i)
		}
	}
	return indices
}

func (v *MainView) refilter() {
	if v.mode != SearchOff {
		v.filtered = FilterCommits(v.commits, v.input.Value())
	}
	v.selected = clamp(v.selected, 0, v.visibleCount()-1)
}

// resetSelection moves the cursor to the first row. Row positions in the
// full and filtered sequences are unrelated.
func (v *MainView) resetSelection() {
	v.selected = 0
	v.offset = 0
}

func (v *MainView) clearSearch() {
	v.mode = SearchOff
	v.filtered = nil
	v.input.Reset()
	v.input.Blur()
	v.resetSelection()
	v.refilter()
}

func (v *MainView) HandleKey(msg tea.KeyMsg) (Action, error) {
	if v.mode == SearchInput {
		return v.handleSearchKey(msg), nil
	}
	keys := v.env.Keys.Main
	if msg.Type == tea.KeyEsc && v.mode == SearchApplied {
		v.clearSearch()
		return noAction, nil
	}
	if next, ok := navigate(keys.NavKeys, msg, v.selected, v.visibleCount(), v.env.pageSize()); ok {
		v.selected = next
		return noAction, nil
	}
	switch {
	case key.Matches(msg, keys.Open):
		c, ok := v.Selected()
		if !ok {
			return noAction, nil
		}
		return pushDiff(git.DiffRequest{Kind: git.DiffCommit, Commit: c.ID, Summary: c.Summary}), nil
	case key.Matches(msg, keys.Search):
		v.mode = SearchInput
		v.input.Reset()
		v.input.Focus()
		v.resetSelection()
		v.refilter()
	case key.Matches(msg, keys.Status):
		return pushAction(KindStatus), nil
	case key.Matches(msg, keys.Help):
		return pushAction(KindHelp), nil
	case key.Matches(msg, keys.Refresh):
		v.Refresh()
	case key.Matches(msg, keys.Quit):
		return quitAction, nil
	}
	return noAction, nil
}

func (v *MainView) handleSearchKey(msg tea.KeyMsg) Action {
	switch msg.Type {
	case tea.KeyEnter:
		if v.input.Value() == "" {
			v.clearSearch()
			return noAction
		}
		v.mode = SearchApplied
		v.input.Blur()
	case tea.KeyEsc:
		v.clearSearch()
	default:
		before := v.input.Value()
		v.input, _ = v.input.Update(msg)
		if v.input.Value() != before {
			v.resetSelection()
		}
		v.refilter()
	}
	return noAction
}

func (v *MainView) Title() string {
	switch v.mode {
	case SearchInput:
		return fmt.Sprintf("Search: %s_", v.input.Value())
	case SearchApplied:
		return fmt.Sprintf("Main - %d / %d commits (filtered)", len(v.filtered), len(v.commits))
	default:
		return fmt.Sprintf("Main - %d commits", len(v.commits))
	}
}

func (v *MainView) Draw(width, height int) string {
	st := v.env.Styles
	bodyHeight := max(height-1, 0)
	var body []string
	if v.err != nil {
		body = append(body, st.Error.Render(fmt.Sprintf("Failed to load commits: %v", v.err)))
		bodyHeight = max(bodyHeight-1, 0)
	}
	count := v.visibleCount()
	switch {
	case count == 0 && v.stream != nil:
		body = append(body, "Loading commits...")
	case count == 0 && v.mode != SearchOff:
		body = append(body, "No matching commits")
	case count == 0 && v.err == nil:
		body = append(body, "No commits")
	}
	v.offset = scrollWindow(v.selected, v.offset, bodyHeight)
	now := v.env.now()
	for row := v.offset; row < count && row < v.offset+bodyHeight; row++ {
		c, _ := v.commitAt(row)
		line := v.formatRow(c, now)
		if row == v.selected {
			line = highlightRow(st.Selected, line, width)
		}
		body = append(body, line)
	}
	return frame(st.Title, v.Title(), body, width, height)
}

func (v *MainView) formatRow(c git.Commit, now time.Time) string {
	st := v.env.Styles
	date := c.FormatDate(v.env.Settings.DateFormat, now)
	var b strings.Builder
	b.WriteString(st.CommitHash.Render(c.ShortID))
	b.WriteString(" ")
	b.WriteString(st.Date.Render(padRight(date, dateWidth)))
	b.WriteString(" ")
	b.WriteString(st.Author.Render(padRight(c.Author, authorWidth)))
	b.WriteString(" ")
	if len(c.Refs) > 0 {
		b.WriteString(st.Refs.Render("[" + strings.Join(c.Refs, ", ") + "]"))
		b.WriteString(" ")
	}
	b.WriteString(c.Summary)
	return b.String()
}

func padRight(s string, width int) string {
	s = ansi.Truncate(s, width, ellipsis)
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}
