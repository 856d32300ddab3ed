package navcore

import (
	"log/slog"
	"sync"

	"github.com/BrandonKowalski/navcore/pkg/navcore/internal"
)

// Arbitrator funnels every back intent, whether from a hardware button, a
// history pop or a direct call, into HandleBackIntent, the only place back
// priority is decided. It never touches the history itself; the Synchronizer
// reacts to the resulting state change.
type Arbitrator struct {
	store  *Store
	guard  *ExitGuard
	logger *slog.Logger

	mu           sync.Mutex
	interceptors []interceptor
	nextID       uint64
	disposers    []Disposer
}

type interceptor struct {
	id uint64
	fn func() bool
}

// NewArbitrator subscribes to hardware and history. Either may be nil when the
// platform lacks it.
func NewArbitrator(store *Store, guard *ExitGuard, hardware BackSource, history History, logger *slog.Logger) *Arbitrator {
	if logger == nil {
		logger = internal.GetLogger()
	}
	a := &Arbitrator{store: store, guard: guard, logger: logger}

	if hardware != nil {
		a.disposers = append(a.disposers, hardware.OnBackIntent(a.onHardwareBack))
	} else {
		logger.Debug("No hardware back source, skipping")
	}
	if history != nil {
		a.disposers = append(a.disposers, history.OnPop(a.onPop))
	} else {
		logger.Debug("No history capability, skipping pop handling")
	}
	return a
}

// While an exit is pending the guard's one-shot listener owns source events.
func (a *Arbitrator) onHardwareBack() {
	if a.guard.Pending() {
		return
	}
	a.logger.Debug("Hardware back pressed")
	a.HandleBackIntent(nil)
}

func (a *Arbitrator) onPop(ev PopEvent) {
	if a.guard.Pending() {
		return
	}
	a.logger.Debug("History pop", "url", ev.URL, "has_state", ev.State != nil)
	a.HandleBackIntent(ev.State)
}

// HandleBackIntent resolves one back intent and reports whether the
// navigation state changed.
//
//  1. A pending exit is confirmed.
//  2. A history payload is restored verbatim.
//  3. Unless a modal is open, interceptors run newest first; one returning
//     true consumes the intent.
//  4. Store.GoBack runs; if it has nothing left to do, an exit is requested.
func (a *Arbitrator) HandleBackIntent(payload *State) bool {
	if a.guard.Confirm() {
		return false
	}

	if payload != nil {
		err := a.store.Restore(*payload)
		if err == nil {
			return true
		}
		a.logger.Warn("Discarding unrestorable history state", "error", err)
	}

	if !a.store.ModalOpen() && a.intercepted() {
		return true
	}

	if a.store.GoBack() {
		return true
	}

	a.guard.RequestExit()
	return false
}

// Intercept registers fn to see back intents before the store does.
func (a *Arbitrator) Intercept(fn func() bool) Disposer {
	a.mu.Lock()
	a.nextID++
	id := a.nextID
	a.interceptors = append(a.interceptors, interceptor{id: id, fn: fn})
	a.mu.Unlock()

	var once sync.Once
	return DisposeFunc(func() {
		once.Do(func() {
			a.mu.Lock()
			defer a.mu.Unlock()
			for i, ic := range a.interceptors {
				if ic.id == id {
					a.interceptors = append(a.interceptors[:i:i], a.interceptors[i+1:]...)
					return
				}
			}
		})
	})
}

func (a *Arbitrator) intercepted() bool {
	a.mu.Lock()
	ics := make([]interceptor, len(a.interceptors))
	copy(ics, a.interceptors)
	a.mu.Unlock()

	for i := len(ics) - 1; i >= 0; i-- {
		if ics[i].fn() {
			a.logger.Debug("Back intent consumed by interceptor")
			return true
		}
	}
	return false
}

// Close removes the source subscriptions and all interceptors.
func (a *Arbitrator) Close() {
	a.mu.Lock()
	disposers := a.disposers
	a.disposers = nil
	a.interceptors = nil
	a.mu.Unlock()

	for _, d := range disposers {
		d.Dispose()
	}
}
