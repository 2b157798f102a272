package typist

import (
	"context"

	"github.com/hammamikhairi/ottotype/internal/domain"
	"github.com/hammamikhairi/ottotype/internal/logger"
)

// Compile-time interface check.
var _ domain.Typist = (*LogOnly)(nil)

// LogOnly is the degraded typist used when xdotool is missing.
// Transcripts still reach the display and the transcript log; they
// just never land in another window.
type LogOnly struct {
	log *logger.Logger
}

// NewLogOnly creates a typist that only logs what it would have typed.
func NewLogOnly(log *logger.Logger) *LogOnly {
	return &LogOnly{log: log}
}

// Type logs the text instead of typing it.
func (l *LogOnly) Type(ctx context.Context, text string) error {
	l.log.Info("typist (log-only): would type %q", text)
	return nil
}

// PressKey logs the key instead of pressing it.
func (l *LogOnly) PressKey(ctx context.Context, name string) error {
	l.log.Info("typist (log-only): would press %s", name)
	return nil
}

// Busy always reports false; nothing is ever injected.
func (l *LogOnly) Busy() bool {
	return false
}
