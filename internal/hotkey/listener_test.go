package hotkey

import (
	"context"
	"testing"
	"time"

	"github.com/hammamikhairi/ottotype/internal/logger"
)

type stubTypist struct {
	busy bool
}

func (s *stubTypist) Type(ctx context.Context, text string) error     { return nil }
func (s *stubTypist) PressKey(ctx context.Context, name string) error { return nil }
func (s *stubTypist) Busy() bool                                      { return s.busy }

func TestFireInvokesToggle(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	fired := 0
	l := New(&stubTypist{}, func() { fired++ }, log, WithDebounce(0))

	l.fire()
	l.fire()
	if fired != 2 {
		t.Errorf("fired %d times, want 2", fired)
	}
}

func TestFireSuppressedWhileTyping(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	typist := &stubTypist{busy: true}
	fired := 0
	l := New(typist, func() { fired++ }, log, WithDebounce(0))

	l.fire()
	if fired != 0 {
		t.Error("toggle fired while typist was busy")
	}

	typist.busy = false
	l.fire()
	if fired != 1 {
		t.Errorf("fired %d times after typist freed, want 1", fired)
	}
}

func TestFireDebounced(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	fired := 0
	l := New(&stubTypist{}, func() { fired++ }, log, WithDebounce(50*time.Millisecond))

	l.fire()
	l.fire()
	l.fire()
	if fired != 1 {
		t.Errorf("fired %d times inside debounce window, want 1", fired)
	}

	time.Sleep(60 * time.Millisecond)
	l.fire()
	if fired != 2 {
		t.Errorf("fired %d times after window, want 2", fired)
	}
}
