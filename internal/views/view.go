// Package views holds the navigable screens of the dashboard and the stack
// that owns them. Views are driven from a single event loop: HandleKey on
// input, Update once per tick to collect background results, Draw to render.
package views

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/thiagokokada/tig-go/internal/git"
)

// Kind enumerates the screens. The set is closed.
type Kind int

const (
	KindMain Kind = iota
	KindDiff
	KindStatus
	KindHelp
)

func (k Kind) String() string {
	switch k {
	case KindMain:
		return "main"
	case KindDiff:
		return "diff"
	case KindStatus:
		return "status"
	case KindHelp:
		return "help"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ActionKind tells the shell how to change the stack after a key.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionQuit
	ActionPush
	ActionPop
	ActionSwitch
)

// Target names the view an action opens, with its parameters.
type Target struct {
	Kind Kind
	Diff git.DiffRequest
}

// Action is returned by HandleKey and consumed by the shell right away.
type Action struct {
	Kind   ActionKind
	Target Target
}

var (
	noAction   = Action{Kind: ActionNone}
	quitAction = Action{Kind: ActionQuit}
	popAction  = Action{Kind: ActionPop}
)

func pushAction(kind Kind) Action {
	return Action{Kind: ActionPush, Target: Target{Kind: kind}}
}

func pushDiff(req git.DiffRequest) Action {
	return Action{Kind: ActionPush, Target: Target{Kind: KindDiff, Diff: req}}
}

// View is one screen on the stack.
type View interface {
	HandleKey(msg tea.KeyMsg) (Action, error)
	// Update drains finished background work. It must not block.
	Update() error
	Draw(width, height int) string
	Title() string
	OnActivate() error
	OnDeactivate() error
}

// Closer is implemented by views that own background resources. The stack
// calls Close when the view is discarded.
type Closer interface {
	Close()
}

// Refresher is implemented by views whose data can go stale.
type Refresher interface {
	Refresh()
}

// Loader reports whether a view is waiting on background work.
type Loader interface {
	Loading() bool
}
