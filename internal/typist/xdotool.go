// Package typist injects transcribed text and key presses into the
// currently focused window.
package typist

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hammamikhairi/ottotype/internal/domain"
	"github.com/hammamikhairi/ottotype/internal/logger"
)

const (
	xdotoolBin = "xdotool"

	// Per-keystroke delay keeps fast typing from overwhelming slow
	// applications.
	keystrokeDelay = "10"

	// xdotool can emit key events slightly after it returns. The
	// settle window keeps Busy true long enough for those events to
	// drain, so the hotkey listener does not mistake them for input.
	defaultSettle = 200 * time.Millisecond
)

// Compile-time interface check.
var _ domain.Typist = (*XDoTool)(nil)

// XDoTool types via the xdotool command, the reliable path on X11.
type XDoTool struct {
	mu     sync.Mutex
	busy   atomic.Bool
	settle time.Duration
	log    *logger.Logger

	// run executes one xdotool invocation. Swapped out in tests.
	run func(ctx context.Context, args ...string) error
}

// NewXDoTool creates an xdotool-backed typist. Returns
// ErrTypingUnavailable when the binary is not on PATH; callers should
// fall back to a log-only typist rather than fail.
func NewXDoTool(log *logger.Logger) (*XDoTool, error) {
	if _, err := exec.LookPath(xdotoolBin); err != nil {
		return nil, fmt.Errorf("%s not found: %w", xdotoolBin, domain.ErrTypingUnavailable)
	}

	x := &XDoTool{
		settle: defaultSettle,
		log:    log,
	}
	x.run = func(ctx context.Context, args ...string) error {
		return exec.CommandContext(ctx, xdotoolBin, args...).Run()
	}
	return x, nil
}

// Type writes text into the focused window, followed by a space so
// consecutive utterances do not run together.
func (x *XDoTool) Type(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	return x.invoke(ctx, "type", "--clearmodifiers", "--delay", keystrokeDelay, "--", text+" ")
}

// PressKey sends a single named key, e.g. "Return".
func (x *XDoTool) PressKey(ctx context.Context, name string) error {
	return x.invoke(ctx, "key", name)
}

// Busy reports whether a keystroke injection is in flight or still
// settling. The hotkey listener uses this to ignore self-generated
// key events.
func (x *XDoTool) Busy() bool {
	return x.busy.Load()
}

// invoke serializes xdotool runs and holds the busy flag through the
// settle window.
func (x *XDoTool) invoke(ctx context.Context, args ...string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.busy.Store(true)
	err := x.run(ctx, args...)
	time.Sleep(x.settle)
	x.busy.Store(false)

	if err != nil {
		return fmt.Errorf("xdotool %s: %w", args[0], err)
	}
	return nil
}
