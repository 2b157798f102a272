// Package hotkey binds the global toggle chord.
package hotkey

import (
	"context"
	"strings"
	"sync"
	"time"

	hook "github.com/robotn/gohook"

	"github.com/hammamikhairi/ottotype/internal/domain"
	"github.com/hammamikhairi/ottotype/internal/logger"
)

// DefaultChord toggles dictation from anywhere on the desktop.
var DefaultChord = []string{"space", "shift", "ctrl"}

// Debounce window: one chord press can surface as several hook events.
const defaultDebounce = 300 * time.Millisecond

// Option configures the listener.
type Option func(*Listener)

// WithChord overrides the toggle chord.
func WithChord(keys []string) Option {
	return func(l *Listener) { l.chord = keys }
}

// WithDebounce overrides the repeat-suppression window.
func WithDebounce(d time.Duration) Option {
	return func(l *Listener) { l.debounce = d }
}

// Listener watches the global keyboard for the toggle chord. Events
// generated by the typist itself are ignored, otherwise the keystrokes
// we inject could re-trigger the toggle mid-type.
type Listener struct {
	chord    []string
	typist   domain.Typist
	onToggle func()
	debounce time.Duration
	log      *logger.Logger

	mu       sync.Mutex
	lastFire time.Time
}

// New creates a hotkey listener that calls onToggle on each chord
// press.
func New(typist domain.Typist, onToggle func(), log *logger.Logger, opts ...Option) *Listener {
	l := &Listener{
		chord:    DefaultChord,
		typist:   typist,
		onToggle: onToggle,
		debounce: defaultDebounce,
		log:      log,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run installs the global hook and blocks until the context is
// cancelled or the hook loop ends.
func (l *Listener) Run(ctx context.Context) error {
	hook.Register(hook.KeyDown, l.chord, func(e hook.Event) {
		l.fire()
	})

	l.log.Info("hotkey: listening for %s", strings.Join(l.chord, "+"))

	events := hook.Start()
	done := hook.Process(events)

	select {
	case <-ctx.Done():
		hook.End()
		<-done
		return ctx.Err()
	case <-done:
		return nil
	}
}

// fire invokes the toggle unless the typist is mid-injection or the
// chord fired again inside the debounce window.
func (l *Listener) fire() {
	if l.typist.Busy() {
		l.log.Debug("hotkey: ignoring chord during typing")
		return
	}

	l.mu.Lock()
	now := time.Now()
	if now.Sub(l.lastFire) < l.debounce {
		l.mu.Unlock()
		return
	}
	l.lastFire = now
	l.mu.Unlock()

	l.onToggle()
}
