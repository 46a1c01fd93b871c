// Package logging sets up the file-backed zerolog logger. The TUI owns
// stdout, so everything diagnostic goes to a log file in the data dir.
package logging

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// New opens (or creates) the log file and returns a logger tagged with a
// fresh session id so one interactive run can be grepped out of the file.
func New(path string) (zerolog.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), err
	}

	logger := zerolog.New(f).With().
		Timestamp().
		Str("session", uuid.NewString()).
		Logger()

	zerolog.TimeFieldFormat = time.RFC3339
	return logger, nil
}
