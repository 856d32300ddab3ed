package navcore

import (
	"log/slog"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/BrandonKowalski/navcore/pkg/navcore/constants"
	"github.com/BrandonKowalski/navcore/pkg/navcore/internal"
)

// ExitState is the state of an ExitGuard.
type ExitState int

const (
	ExitArmed   ExitState = iota // Idle, no exit pending
	ExitPending                  // A back at root was seen, waiting for confirmation
)

func (s ExitState) String() string {
	switch s {
	case ExitArmed:
		return "armed"
	case ExitPending:
		return "pending-exit"
	default:
		return "unknown"
	}
}

// ExitGuardOptions configures an ExitGuard.
type ExitGuardOptions struct {
	Window    time.Duration // Confirmation window (default 2s)
	Notifier  Notifier      // Toast capability; nil logs the warning instead
	Terminate func()        // Called when the exit is confirmed
	Sources   []BackSource  // Sources that get a one-shot confirmation listener
	Clock     Clock         // Timer source (default wall clock)
	Messages  *Messages     // Localized toast text (default English)
	Logger    *slog.Logger
}

// ExitGuard implements double-back-to-exit. The first RequestExit warns the
// user and opens a confirmation window; a back intent from any source inside
// the window calls Terminate. When the window elapses the guard re-arms
// silently.
type ExitGuard struct {
	mu        sync.Mutex
	state     ExitState
	timer     Timer
	listeners []Disposer

	// generation invalidates timer callbacks that fire after the window was
	// closed or restarted.
	generation atomic.Uint64
	terminated atomic.Bool

	window    time.Duration
	notifier  Notifier
	terminate func()
	sources   []BackSource
	clock     Clock
	messages  *Messages
	logger    *slog.Logger
}

// NewExitGuard creates an armed guard.
func NewExitGuard(opts ExitGuardOptions) *ExitGuard {
	g := &ExitGuard{
		window:    opts.Window,
		notifier:  opts.Notifier,
		terminate: opts.Terminate,
		clock:     opts.Clock,
		messages:  opts.Messages,
		logger:    opts.Logger,
	}
	if g.window <= 0 {
		g.window = constants.DefaultExitWindow
	}
	if g.clock == nil {
		g.clock = wallClock{}
	}
	if g.messages == nil {
		g.messages = DefaultMessages()
	}
	if g.logger == nil {
		g.logger = internal.GetLogger()
	}
	for _, src := range opts.Sources {
		if src != nil {
			g.sources = append(g.sources, src)
		}
	}
	return g
}

// RequestExit moves the guard to PendingExit and shows the exit warning.
// While already pending it only restarts the window.
func (g *ExitGuard) RequestExit() {
	g.mu.Lock()
	if g.state == ExitPending {
		g.startTimerLocked()
		g.mu.Unlock()
		g.logger.Debug("Exit window restarted")
		return
	}

	g.state = ExitPending
	for _, src := range g.sources {
		g.listeners = append(g.listeners, src.OnBackIntent(g.confirmFromSource))
	}
	g.startTimerLocked()
	g.mu.Unlock()

	g.logger.Debug("Exit requested", "window", g.window)
	g.warn()
}

// Confirm performs the exit if one is pending. It reports whether Terminate
// was called.
func (g *ExitGuard) Confirm() bool {
	g.mu.Lock()
	if g.state != ExitPending {
		g.mu.Unlock()
		return false
	}
	g.disarmLocked()
	g.mu.Unlock()

	g.terminated.Store(true)
	g.logger.Info("Second back press, exiting")
	if g.terminate != nil {
		g.terminate()
	}
	return true
}

// Cancel leaves PendingExit without exiting. Any outstanding timer is stopped
// and can no longer fire.
func (g *ExitGuard) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == ExitPending {
		g.disarmLocked()
		g.logger.Debug("Exit window cancelled")
	}
}

// Pending reports whether the guard is waiting for a confirming back intent.
func (g *ExitGuard) Pending() bool {
	return g.State() == ExitPending
}

// State returns the current guard state.
func (g *ExitGuard) State() ExitState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Terminated reports whether an exit has been confirmed.
func (g *ExitGuard) Terminated() bool {
	return g.terminated.Load()
}

func (g *ExitGuard) confirmFromSource() {
	g.Confirm()
}

func (g *ExitGuard) startTimerLocked() {
	if g.timer != nil {
		g.timer.Stop()
	}
	gen := g.generation.Inc()
	g.timer = g.clock.AfterFunc(g.window, func() { g.expire(gen) })
}

func (g *ExitGuard) expire(gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != ExitPending || g.generation.Load() != gen {
		return
	}
	g.disarmLocked()
	g.logger.Debug("Exit window elapsed, re-armed")
}

// disarmLocked returns to Armed: the timer is stopped and invalidated and the
// one-shot listeners are removed.
func (g *ExitGuard) disarmLocked() {
	g.state = ExitArmed
	g.generation.Inc()
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	for _, l := range g.listeners {
		l.Dispose()
	}
	g.listeners = nil
}

func (g *ExitGuard) warn() {
	title, description := g.messages.ExitWarning()
	durationMs := int(g.window / time.Millisecond)
	if g.notifier == nil {
		g.logger.Info("Exit confirmation", "title", title, "description", description)
		return
	}
	g.notifier.Notify(title, description, durationMs)
}
