package ui

import (
	"context"
	"errors"
	"sync"
)

// ErrSinkClosed is returned by Send once the display has shut down.
var ErrSinkClosed = errors.New("ui: callback sink closed")

// Callback runs on the display goroutine against its screen.
type Callback func(*Screen)

// Sink queues callbacks from any goroutine for the display goroutine.
// Send never waits for a callback to run.
type Sink struct {
	mu     sync.Mutex
	queue  []Callback
	closed bool
	wake   chan struct{}
	done   chan struct{}
}

// NewSink creates an open sink.
func NewSink() *Sink {
	return &Sink{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Send enqueues fn. It fails only after Close.
func (s *Sink) Send(fn Callback) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSinkClosed
	}
	s.queue = append(s.queue, fn)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return nil
}

// Close stops the sink. Callbacks still queued are dropped.
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.queue = nil
	close(s.done)
}

// Closed reports whether Close has been called.
func (s *Sink) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Pending returns the number of queued callbacks.
func (s *Sink) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *Sink) take() []Callback {
	s.mu.Lock()
	defer s.mu.Unlock()
	batch := s.queue
	s.queue = nil
	return batch
}

// Drain runs every queued callback on the calling goroutine, in the order
// they were sent, and returns how many ran.
func (s *Sink) Drain(screen *Screen) int {
	n := 0
	for {
		batch := s.take()
		if len(batch) == 0 {
			return n
		}
		for _, fn := range batch {
			fn(screen)
		}
		n += len(batch)
	}
}

// Run delivers callbacks until ctx is done or the sink is closed. deliver
// hands each batch to the display goroutine; nil runs it on the goroutine
// calling Run.
func (s *Sink) Run(ctx context.Context, screen *Screen, deliver func(func())) {
	if deliver == nil {
		deliver = func(f func()) { f() }
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-s.wake:
			batch := s.take()
			if len(batch) == 0 {
				continue
			}
			deliver(func() {
				for _, fn := range batch {
					fn(screen)
				}
			})
		}
	}
}
