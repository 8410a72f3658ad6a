package async

import "context"

// Stream is a multi-value handle fed by a producer goroutine. The producer
// must close its channel when finished and give up sending once ctx is done.
type Stream[T any] struct {
	ch     chan T
	done   chan struct{}
	failed chan error
	cancel context.CancelFunc

	closed   bool
	finished bool
	err      error
}

// StartStream runs produce on its own goroutine with a channel of the given
// buffer size. If produce panics, the stream finishes after the items sent
// so far and Err reports the panic.
func StartStream[T any](buffer int, produce func(ctx context.Context, out chan<- T)) *Stream[T] {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Stream[T]{
		ch:     make(chan T, max(buffer, 0)),
		done:   make(chan struct{}),
		failed: make(chan error, 1),
		cancel: cancel,
	}
	go func() {
		defer close(s.done)
		defer func() {
			if r := recover(); r != nil {
				s.failed <- recovered("stream", r)
			}
		}()
		produce(ctx, s.ch)
	}()
	return s
}

// Drain returns every item available right now, in send order, without
// blocking. finished is true once the producer has returned.
func (s *Stream[T]) Drain() (items []T, finished bool) {
	if s == nil {
		return nil, false
	}
	if s.finished {
		return nil, true
	}
	items = s.receive(items)
	select {
	case <-s.done:
	default:
		return items, false
	}
	// Sends made right before the producer returned.
	items = s.receive(items)
	select {
	case err := <-s.failed:
		s.err = err
	default:
	}
	s.finished = true
	s.cancel()
	return items, true
}

func (s *Stream[T]) receive(items []T) []T {
	for !s.closed {
		select {
		case item, ok := <-s.ch:
			if !ok {
				s.closed = true
				return items
			}
			items = append(items, item)
		default:
			return items
		}
	}
	return items
}

// Err reports the panic that stopped the producer, if any.
func (s *Stream[T]) Err() error {
	if s == nil {
		return nil
	}
	return s.err
}

// Close tells the producer nobody is listening anymore.
func (s *Stream[T]) Close() {
	if s == nil {
		return
	}
	s.cancel()
}
