// Package logging provides helpers on top of the global zerolog logger.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component returns a child logger tagged with a component identifier.
// The "cmp" key is used consistently across the codebase.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}
