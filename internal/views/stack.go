package views

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrEmptyStack is returned when popping the last view.
var ErrEmptyStack = errors.New("cannot pop the last view")

// Stack owns the open views. The last element is current; once a view was
// pushed the stack never drops below one element.
type Stack struct {
	views []View
}

func NewStack(root View) (*Stack, error) {
	s := &Stack{}
	if err := s.Push(root); err != nil {
		return s, err
	}
	return s, nil
}

func (s *Stack) Depth() int {
	return len(s.views)
}

// Current returns the top view, or nil when empty.
func (s *Stack) Current() View {
	if len(s.views) == 0 {
		return nil
	}
	return s.views[len(s.views)-1]
}

// Push deactivates the current view and activates v on top of it. Hook
// errors are returned but the push is kept.
func (s *Stack) Push(v View) error {
	var errs []error
	if cur := s.Current(); cur != nil {
		errs = append(errs, cur.OnDeactivate())
	}
	s.views = append(s.views, v)
	errs = append(errs, v.OnActivate())
	return errors.Join(errs...)
}

// Pop discards the current view and reactivates the one below.
func (s *Stack) Pop() error {
	if len(s.views) <= 1 {
		return ErrEmptyStack
	}
	top := s.views[len(s.views)-1]
	s.views[len(s.views)-1] = nil
	s.views = s.views[:len(s.views)-1]
	errs := []error{discard(top)}
	errs = append(errs, s.Current().OnActivate())
	return errors.Join(errs...)
}

// Switch replaces the current view with v. The old view is discarded before
// v is activated; on an empty stack Switch behaves like Push.
func (s *Stack) Switch(v View) error {
	if len(s.views) == 0 {
		return s.Push(v)
	}
	top := s.views[len(s.views)-1]
	s.views[len(s.views)-1] = v
	errs := []error{discard(top), v.OnActivate()}
	return errors.Join(errs...)
}

func discard(v View) error {
	err := v.OnDeactivate()
	if c, ok := v.(Closer); ok {
		c.Close()
	}
	return err
}

func (s *Stack) HandleKey(msg tea.KeyMsg) (Action, error) {
	cur := s.Current()
	if cur == nil {
		return noAction, nil
	}
	return cur.HandleKey(msg)
}

func (s *Stack) Update() error {
	cur := s.Current()
	if cur == nil {
		return nil
	}
	return cur.Update()
}

func (s *Stack) Draw(width, height int) string {
	cur := s.Current()
	if cur == nil {
		return ""
	}
	return cur.Draw(width, height)
}

// Refresh asks the current view to reload, if it supports it.
func (s *Stack) Refresh() {
	if r, ok := s.Current().(Refresher); ok {
		r.Refresh()
	}
}

// Loading reports whether the current view waits on background work.
func (s *Stack) Loading() bool {
	l, ok := s.Current().(Loader)
	return ok && l.Loading()
}

// Close discards every view, top first.
func (s *Stack) Close() {
	for len(s.views) > 0 {
		top := s.views[len(s.views)-1]
		s.views = s.views[:len(s.views)-1]
		if c, ok := top.(Closer); ok {
			c.Close()
		}
	}
}
