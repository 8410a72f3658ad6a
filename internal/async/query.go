// Package async bridges background goroutines and the single-threaded UI
// loop. Producers only talk to the loop through channels; the loop polls
// without blocking once per frame.
package async

import (
	"fmt"
	"log/slog"
)

// Result is the single value a Query delivers.
type Result[T any] struct {
	Value T
	Err   error
}

// Query is a one-shot result handle. Dropping a Query before its result
// arrives is safe: the channel is buffered, so the producer never blocks.
type Query[T any] struct {
	ch   chan Result[T]
	done bool
}

// Start runs fn on its own goroutine. A panic in fn is delivered as the
// result's error.
func Start[T any](fn func() (T, error)) *Query[T] {
	ch := make(chan Result[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- Result[T]{Err: recovered("query", r)}
			}
		}()
		v, err := fn()
		ch <- Result[T]{Value: v, Err: err}
	}()
	return &Query[T]{ch: ch}
}

// Poll makes a single non-blocking receive. It reports false while the
// result is pending, after it was already consumed, and on a nil Query.
func (q *Query[T]) Poll() (Result[T], bool) {
	if q == nil || q.done {
		return Result[T]{}, false
	}
	select {
	case res := <-q.ch:
		q.done = true
		return res, true
	default:
		return Result[T]{}, false
	}
}

// Pending reports whether the result has not been consumed yet.
func (q *Query[T]) Pending() bool {
	return q != nil && !q.done
}

func recovered(what string, r any) error {
	err := fmt.Errorf("background %s panicked: %v", what, r)
	slog.Error("background goroutine panicked", slog.String("kind", what), slog.Any("panic", r))
	return err
}
