package measure

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// mlog returns the measure sub-logger. It is built on each call so that it
// follows the global logger installed at startup.
func mlog() *zerolog.Logger {
	l := log.With().Str("module", "measure").Logger()
	return &l
}
