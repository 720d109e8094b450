package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	LevelKey   = "log.level"
	FormatKey  = "log.format"
	NoColorKey = "log.no_color"
)

// InitDefault sets up a console logger before flags and config are parsed.
func InitDefault() {
	log.Logger = zerolog.New(consoleWriter(false)).
		With().Timestamp().Logger().
		Level(zerolog.InfoLevel)
}

// Init configures the global logger from viper settings.
func Init() {
	level, err := zerolog.ParseLevel(strings.ToLower(viper.GetString(LevelKey)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stderr)
	if viper.GetString(FormatKey) != "json" {
		logger = zerolog.New(consoleWriter(viper.GetBool(NoColorKey)))
	}

	log.Logger = logger.With().Timestamp().Logger().Level(level)
}

func consoleWriter(noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}
}
