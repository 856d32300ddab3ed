package navcore

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrUnknownSection indicates a Section value outside the declared set.
	// Navigating to one is a programming error and panics.
	ErrUnknownSection = errors.New("unknown section")

	// ErrUnknownScreen indicates a Screen value outside the declared set.
	ErrUnknownScreen = errors.New("unknown screen")

	// ErrInvalidURL indicates a path that does not follow the
	// /{section}/{screen} scheme.
	ErrInvalidURL = errors.New("invalid navigation url")

	// ErrInvalidState indicates a snapshot that cannot be restored, such as one
	// with an empty stack or a top entry that does not match its current location.
	ErrInvalidState = errors.New("invalid navigation state")
)

// NavigationError describes a rejected navigation input. Navigating to an
// undeclared Section or Screen panics with a *NavigationError so that enum
// drift surfaces immediately.
type NavigationError struct {
	Op    string // Operation that failed (e.g., "navigate", "parse", "restore")
	Value string // Offending input, if any
	Err   error  // Underlying error
}

func (e *NavigationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("navcore: %s %q: %v", e.Op, e.Value, e.Err)
	}
	return fmt.Sprintf("navcore: %s: %v", e.Op, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// IsNavigationError checks if an error is a navigation error.
func IsNavigationError(err error) bool {
	var navErr *NavigationError
	return errors.As(err, &navErr)
}
