// Package constants defines shared defaults, environment variable names and
// key codes used throughout navcore.
package constants

import (
	"os"
	"time"
)

// Development is the environment variable value for development mode.
const Development = "DEV"

// Environment variables read when a Navigator is constructed.
const (
	LogLevelEnvVar       = "NAVCORE_LOG_LEVEL"
	LogPathEnvVar        = "NAVCORE_LOG_PATH"
	LocaleEnvVar         = "NAVCORE_LANG"
	HardwareDeviceEnvVar = "NAVCORE_BACK_DEVICE"
)

// IsDevMode returns true if running in development mode (ENVIRONMENT=DEV).
func IsDevMode() bool {
	return os.Getenv("ENVIRONMENT") == Development
}

// Navigation defaults.
const (
	DefaultMaxDepth   = 10              // Maximum number of entries kept in the navigation stack
	DefaultExitWindow = 2 * time.Second // Time allowed for the confirming second back press
	DefaultLocale     = "en"            // Language used for toast text and tab labels
	DefaultLogLevel   = "info"          // Level used when none is configured
)

// KeyBack is the Linux input event code for the hardware back key (KEY_BACK).
const KeyBack = 158

// KeyEsc is the Linux input event code for Escape, used as a back key on
// devices without a dedicated one.
const KeyEsc = 1
