package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup points the global logger at a console writer on w, filtered at level.
// An empty level means warn.
func Setup(w io.Writer, level string) (zerolog.Logger, error) {
	lvl := zerolog.WarnLevel
	if trimmed := strings.ToLower(strings.TrimSpace(level)); trimmed != "" {
		parsed, err := zerolog.ParseLevel(trimmed)
		if err != nil {
			return zerolog.Logger{}, fmt.Errorf("parse log level %q: %w", level, err)
		}
		lvl = parsed
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
	log.Logger = logger

	return logger, nil
}
