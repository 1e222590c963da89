package config

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogging installs a console logger at the configured level as the
// global logger and returns it.
func (c *Config) SetupLogging() zerolog.Logger {
	zerolog.SetGlobalLevel(c.Level())
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
	return log.Logger
}
