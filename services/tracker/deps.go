package tracker

import (
	"flighttrack-go/services/tracker/internal/platform"
)

// DefaultDeps returns the peripheral bindings for the current build target:
// live RP2 buses under TinyGo, in-memory stand-ins elsewhere.
func DefaultDeps() Deps { return platform.Default() }
