// Package navcore is the navigation core of a learning app: one state machine
// that reconciles a hardware back button, history pops and modal dismissal
// into a single navigation state, keeps a shareable URL in sync and guards
// against accidental exits with a double-back-to-exit window.
//
// # Basic Usage
//
//	hist := history.NewMemory("/")
//	nav, err := navcore.New(navcore.Options{
//	    History:   hist,
//	    Notifier:  navcore.NotifierFunc(showToast),
//	    Terminate: func() { os.Exit(0) },
//	})
//	if err != nil {
//	    return err
//	}
//	defer nav.Close()
//
//	nav.NavigateToScreen(navcore.ScreenLesson) // URL becomes /lesson
//	nav.GoBack()                               // back to /, chrome visible again
//	nav.GoBack()                               // "Press back again to exit"
//	nav.GoBack()                               // Terminate is called
//
// # Back Resolution
//
// Every back intent goes through one routine. A pending exit is confirmed
// first. A history pop that carries a state restores it verbatim. An open
// modal is closed and nothing else happens. Screens attached through
// Binding.Attach see the intent next and may consume it. Otherwise the stack
// is popped, then a non-main screen collapses to its section's main screen,
// then a non-default section collapses to the default one. Only when none of
// these apply is the exit guard engaged.
//
// # URLs
//
//	/                    home, main
//	/lesson              home, lesson
//	/progress            progress, main
//	/progress/results    progress, results
//
// # Concurrency
//
// Subscribers are called synchronously, in registration order, with the
// store lock released, so they may navigate again. The store serializes
// mutations, but fan-out is not serialized across goroutines: two goroutines
// navigating at once may interleave their deliveries. Platform sources such
// as the evdev reader fire on their own goroutine, so an app that also
// navigates from its main loop should funnel their intents onto that loop
// before calling the navigator, the way cmd/navdemo does with its loop
// source.
package navcore
