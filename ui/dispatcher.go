package ui

import (
	"fmt"

	"go.uber.org/zap"
)

// DispatchError is the panic value raised when a re-render request cannot
// be handed to the display. Script runtimes let it through instead of
// turning it into a script exception.
type DispatchError struct {
	Err error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("ui: re-render dispatch failed: %v", e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// Unrecoverable marks the error as fatal to the process.
func (e *DispatchError) Unrecoverable() bool { return true }

// Dispatcher turns re-render requests from the script side into callbacks
// on the display goroutine. Copies share the same sink.
type Dispatcher struct {
	sink   *Sink
	logger *zap.Logger
}

// NewDispatcher returns a dispatcher sending to sink.
func NewDispatcher(sink *Sink, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{sink: sink, logger: logger.Named("dispatch")}
}

// Rerender asks the active layer to repaint. It returns as soon as the
// request is queued. If the sink is closed it panics with *DispatchError.
func (d *Dispatcher) Rerender() {
	err := d.sink.Send(func(s *Screen) {
		layer, ok := s.Front()
		if !ok {
			d.logger.Warn("re-render with no active layer")
			return
		}
		layer.Rerender()
	})
	if err != nil {
		d.logger.Error("re-render request dropped", zap.Error(err))
		panic(&DispatchError{Err: err})
	}
}
