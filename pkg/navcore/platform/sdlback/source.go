// Package sdlback turns SDL input events into navcore back intents for apps
// that own an SDL event loop. Feed every polled event to HandleEvent; the
// Android back key, Escape and the controller B button count as back.
package sdlback

import (
	"sync"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/BrandonKowalski/navcore/pkg/navcore"
)

type handler struct {
	id uint64
	fn func()
}

// Source is a navcore.BackSource driven by the caller's event loop.
// Handlers run on the goroutine calling HandleEvent.
type Source struct {
	mu       sync.Mutex
	handlers []handler
	nextID   uint64
}

func New() *Source {
	return &Source{}
}

// IsBack reports whether event is a fresh back press.
func IsBack(event sdl.Event) bool {
	switch e := event.(type) {
	case *sdl.KeyboardEvent:
		if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
			return false
		}
		return e.Keysym.Sym == sdl.K_AC_BACK || e.Keysym.Sym == sdl.K_ESCAPE
	case *sdl.ControllerButtonEvent:
		return e.Type == sdl.CONTROLLERBUTTONDOWN && sdl.GameControllerButton(e.Button) == sdl.CONTROLLER_BUTTON_B
	default:
		return false
	}
}

// HandleEvent dispatches a back intent if event is one and reports whether it was.
func (s *Source) HandleEvent(event sdl.Event) bool {
	if !IsBack(event) {
		return false
	}

	s.mu.Lock()
	handlers := make([]handler, len(s.handlers))
	copy(handlers, s.handlers)
	s.mu.Unlock()

	for _, h := range handlers {
		h.fn()
	}
	return true
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

// Pump polls SDL until the queue is empty, feeding every event to
// HandleEvent. It returns false if a quit event was seen.
func (s *Source) Pump() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if _, ok := event.(*sdl.QuitEvent); ok {
			return false
		}
		s.HandleEvent(event)
	}
	return true
}
