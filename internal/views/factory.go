package views

import (
	"fmt"
	"time"

	"github.com/thiagokokada/tig-go/internal/config"
	"github.com/thiagokokada/tig-go/internal/highlight"
	"github.com/thiagokokada/tig-go/internal/theme"
)

// Env is what every view shares: the backend, resolved keys and styles,
// and user settings.
type Env struct {
	Backend     Backend
	Keys        KeyMap
	Styles      *theme.Styles
	Highlighter *highlight.Highlighter
	Settings    config.Settings
	Now         func() time.Time
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Env) pageSize() int {
	return max(e.Settings.PageSize, 1)
}

// Factory builds views for action targets.
type Factory struct {
	env *Env
}

func NewFactory(env *Env) *Factory {
	return &Factory{env: env}
}

func (f *Factory) New(t Target) (View, error) {
	switch t.Kind {
	case KindMain:
		return NewMainView(f.env), nil
	case KindDiff:
		return NewDiffView(f.env, t.Diff), nil
	case KindStatus:
		return NewStatusView(f.env), nil
	case KindHelp:
		return NewHelpView(f.env), nil
	default:
		return nil, fmt.Errorf("unknown view kind %s", t.Kind)
	}
}
