// Package logging owns the process logger. The TUI owns stdout, so logs
// always go to a file under the workspace dot-directory.
package logging

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = zerolog.Nop()
)

// Setup routes the process log to pulseterm.log under dir. The debug flag
// (from the board configuration) switches the level from info to debug.
func Setup(dir string, debug bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, "pulseterm.log"),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	mu.Lock()
	defer mu.Unlock()
	logger = zerolog.New(f).Level(level).With().Timestamp().Logger()
	return nil
}

// L returns the process logger. Before Setup it discards everything, which
// keeps tests and probes quiet. The pointer form is required because
// zerolog declares its level methods on *Logger.
func L() *zerolog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	return &l
}
