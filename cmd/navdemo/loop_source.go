package main

import (
	"context"
	"log/slog"
	"sync"

	"github.com/BrandonKowalski/navcore/pkg/navcore"
)

// hardwareSource is a back source with its own read loop.
type hardwareSource interface {
	navcore.BackSource
	Run(ctx context.Context) error
	Close() error
}

// loopSource hands back presses from other goroutines to the REPL goroutine,
// so every navigation and its fan-out happen on one goroutine.
type loopSource struct {
	pending chan struct{}

	mu       sync.Mutex
	handlers []loopHandler
	nextID   uint64
}

type loopHandler struct {
	id uint64
	fn func()
}

func newLoopSource() *loopSource {
	return &loopSource{pending: make(chan struct{}, 8)}
}

// Signal queues one back press. Presses beyond the queue are dropped.
func (l *loopSource) Signal() {
	select {
	case l.pending <- struct{}{}:
	default:
	}
}

// Pending delivers one value per queued press.
func (l *loopSource) Pending() <-chan struct{} {
	return l.pending
}

// Dispatch runs the registered handlers on the calling goroutine.
func (l *loopSource) Dispatch() {
	l.mu.Lock()
	handlers := make([]loopHandler, len(l.handlers))
	copy(handlers, l.handlers)
	l.mu.Unlock()

	for _, h := range handlers {
		h.fn()
	}
}

func (l *loopSource) OnBackIntent(fn func()) navcore.Disposer {
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.handlers = append(l.handlers, loopHandler{id: id, fn: fn})
	l.mu.Unlock()

	return navcore.DisposeFunc(func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, h := range l.handlers {
			if h.id == id {
				l.handlers = append(l.handlers[:i:i], l.handlers[i+1:]...)
				return
			}
		}
	})
}

// runHardware reads src until ctx is cancelled. A read failure is logged and
// leaves the demo running without a hardware back key.
func runHardware(ctx context.Context, src hardwareSource, logger *slog.Logger) {
	if err := src.Run(ctx); err != nil {
		logger.Error("Hardware back source stopped", "error", err)
	}
}
