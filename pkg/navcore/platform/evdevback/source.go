//go:build linux

// Package evdevback provides a navcore.BackSource backed by a Linux input device,
// for handhelds and set-top boxes whose back key arrives through /dev/input.
package evdevback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/holoplot/go-evdev"
	"go.uber.org/atomic"

	"github.com/BrandonKowalski/navcore/pkg/navcore"
	"github.com/BrandonKowalski/navcore/pkg/navcore/constants"
	"github.com/BrandonKowalski/navcore/pkg/navcore/internal"
)

// ErrAlreadyRunning is returned by Run when the read loop is already active.
var ErrAlreadyRunning = errors.New("evdev: source already running")

type eventReader interface {
	ReadOne() (*evdev.InputEvent, error)
	Close() error
}

type handler struct {
	id uint64
	fn func()
}

// Source fires its handlers on every press of one key code. Handlers run on
// the goroutine executing Run.
type Source struct {
	dev    eventReader
	code   evdev.EvCode
	logger *slog.Logger

	mu       sync.Mutex
	handlers []handler
	nextID   uint64

	running   atomic.Bool
	presses   atomic.Uint64
	closeOnce sync.Once
	closeErr  error
}

// Open opens the input device at path. A keyCode of 0 selects KEY_BACK.
func Open(path string, keyCode int, logger *slog.Logger) (*Source, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("evdev: open %s: %w", path, err)
	}
	if logger == nil {
		logger = internal.GetLogger()
	}
	if name, err := dev.Name(); err == nil {
		logger.Debug("Opened back key device", "path", path, "name", name, "code", keyCode)
	}
	return newSource(dev, keyCode, logger), nil
}

func newSource(dev eventReader, keyCode int, logger *slog.Logger) *Source {
	if keyCode == 0 {
		keyCode = constants.KeyBack
	}
	if logger == nil {
		logger = internal.GetLogger()
	}
	return &Source{dev: dev, code: evdev.EvCode(keyCode), logger: logger}
}

// IsBackPress reports whether ev is the initial press of code. Releases
// (value 0) and autorepeats (value 2) are ignored.
func IsBackPress(ev *evdev.InputEvent, code evdev.EvCode) bool {
	return ev != nil && ev.Type == evdev.EV_KEY && ev.Code == code && ev.Value == 1
}

// OnBackIntent implements navcore.BackSource.
func (s *Source) OnBackIntent(fn func()) navcore.Disposer {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.handlers = append(s.handlers, handler{id: id, fn: fn})
	s.mu.Unlock()

	return navcore.DisposeFunc(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, h := range s.handlers {
			if h.id == id {
				s.handlers = append(s.handlers[:i:i], s.handlers[i+1:]...)
				return
			}
		}
	})
}

// Run reads events until ctx is cancelled or the device fails. Cancelling ctx
// closes the device to unblock the pending read, and Run returns nil.
func (s *Source) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)

	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()

	for {
		ev, err := s.dev.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("evdev: read: %w", err)
		}
		if IsBackPress(ev, s.code) {
			s.presses.Inc()
			s.dispatch()
		}
	}
}

// Presses returns how many back presses have been dispatched.
func (s *Source) Presses() uint64 {
	return s.presses.Load()
}

// Running reports whether Run is active.
func (s *Source) Running() bool {
	return s.running.Load()
}

// Close closes the device. It is safe to call more than once.
func (s *Source) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.dev.Close()
	})
	return s.closeErr
}

func (s *Source) dispatch() {
	s.mu.Lock()
	handlers := make([]handler, len(s.handlers))
	copy(handlers, s.handlers)
	s.mu.Unlock()

	s.logger.Debug("Hardware back key pressed", "handlers", len(handlers))
	for _, h := range handlers {
		h.fn()
	}
}
