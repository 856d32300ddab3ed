package navcore

import "time"

// Disposer removes a listener registration. Dispose must be safe to call
// more than once.
type Disposer interface {
	Dispose()
}

// DisposeFunc adapts a function to the Disposer interface.
type DisposeFunc func()

func (f DisposeFunc) Dispose() {
	if f != nil {
		f()
	}
}

// BackSource is a stream of "back requested" signals, such as a hardware back
// button. Platforms without one use NopBackSource.
//
// Sources must not hold their own locks while calling handlers. A handler
// registered while an intent is being dispatched does not receive that intent.
type BackSource interface {
	OnBackIntent(handler func()) Disposer
}

// NopBackSource never fires.
type NopBackSource struct{}

func (NopBackSource) OnBackIntent(func()) Disposer { return DisposeFunc(nil) }

// PopEvent is delivered when the history moves to another entry outside of
// Push. State is the payload stored with that entry, or nil when the entry
// carries none.
type PopEvent struct {
	URL   string
	State *State
}

// History is the location/history capability the core keeps in sync.
type History interface {
	OnPop(handler func(PopEvent)) Disposer
	Push(url string, state State)
	CurrentURL() string
}

// Notifier shows a transient message to the user.
type Notifier interface {
	Notify(title, description string, durationMs int)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(title, description string, durationMs int)

func (f NotifierFunc) Notify(title, description string, durationMs int) {
	f(title, description, durationMs)
}

// Timer is a pending callback started by a Clock.
type Timer interface {
	Stop() bool
}

// Clock starts timers. The zero Options uses the wall clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// popIntents exposes history pops as a BackSource.
type popIntents struct {
	history History
}

func (p popIntents) OnBackIntent(handler func()) Disposer {
	return p.history.OnPop(func(PopEvent) { handler() })
}
