// Package session implements the dictation lifecycle: one toggle
// starts a listening session, the next one tears it down.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hammamikhairi/ottotype/internal/domain"
	"github.com/hammamikhairi/ottotype/internal/logger"
	"github.com/hammamikhairi/ottotype/internal/segment"
)

// Option configures the controller.
type Option func(*Controller)

// WithNotifier sets the status notifier for the indicator UI.
func WithNotifier(n domain.StatusNotifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// Controller owns all mutable dictation state. It depends only on
// interfaces and is fully testable with fakes.
type Controller struct {
	factory  domain.TranscriberFactory
	source   domain.AudioSource
	seg      *segment.Segmenter
	typist   domain.Typist
	sink     domain.TranscriptSink
	notifier domain.StatusNotifier
	log      *logger.Logger

	// toggleMu serializes Toggle so a stop always finishes draining
	// before the next start begins.
	toggleMu sync.Mutex

	mu        sync.Mutex
	listening bool
	cancel    context.CancelFunc
	stream    domain.Transcriber
	wg        sync.WaitGroup
}

// New creates a dictation controller.
func New(factory domain.TranscriberFactory, source domain.AudioSource, seg *segment.Segmenter,
	typist domain.Typist, sink domain.TranscriptSink, log *logger.Logger, opts ...Option) *Controller {

	c := &Controller{
		factory:  factory,
		source:   source,
		seg:      seg,
		typist:   typist,
		sink:     sink,
		notifier: noopNotifier{},
		log:      log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Listening reports whether a session is active.
func (c *Controller) Listening() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listening
}

// Toggle starts a session if idle and stops it if listening.
func (c *Controller) Toggle(ctx context.Context) error {
	c.toggleMu.Lock()
	defer c.toggleMu.Unlock()

	if c.Listening() {
		return c.Stop()
	}
	return c.Start(ctx)
}

// Start opens the transcription stream and begins capturing audio.
// Returns ErrAlreadyListening if a session is active.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.listening {
		return domain.ErrAlreadyListening
	}

	stream, err := c.factory.Open(ctx)
	if err != nil {
		return fmt.Errorf("opening transcriber: %w", err)
	}

	// The session outlives the caller's context; only Stop ends it.
	runCtx, cancel := context.WithCancel(context.Background())
	frames, err := c.source.Start(runCtx)
	if err != nil {
		cancel()
		stream.Close()
		return fmt.Errorf("starting audio capture: %w", err)
	}

	c.stream = stream
	c.cancel = cancel
	c.listening = true

	c.wg.Add(2)
	go c.pump(frames, stream)
	go c.consume(runCtx, stream)

	c.notifier.StatusChanged(domain.StatusListening)
	c.log.Info("session: listening")
	return nil
}

// Stop ends the session and waits for pending transcripts to finish
// typing. Returns ErrNotListening if no session is active.
func (c *Controller) Stop() error {
	c.mu.Lock()
	if !c.listening {
		c.mu.Unlock()
		return domain.ErrNotListening
	}
	c.listening = false
	cancel := c.cancel
	stream := c.stream
	c.mu.Unlock()

	cancel()
	c.source.Stop()
	stream.Close()
	c.wg.Wait()

	c.notifier.StatusChanged(domain.StatusIdle)
	c.log.Info("session: stopped")
	return nil
}

// pump ships audio frames upstream until the capture stops.
func (c *Controller) pump(frames <-chan []byte, stream domain.Transcriber) {
	defer c.wg.Done()

	for frame := range frames {
		if err := stream.SendAudio(frame); err != nil {
			if errors.Is(err, domain.ErrStreamClosed) {
				return
			}
			c.log.Warn("session: send audio: %v", err)
			return
		}
	}
}

// consume handles recognition results until the stream closes. Only
// final transcripts are typed; interim results flicker too much to
// inject into another application.
func (c *Controller) consume(ctx context.Context, stream domain.Transcriber) {
	defer c.wg.Done()

	for t := range stream.Results() {
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		if !t.IsFinal {
			// Interims only move the indicator; they are never typed.
			c.notifier.StatusChanged(domain.StatusProcessing)
			continue
		}
		c.handle(ctx, t.Text)
	}
}

// handle runs one final transcript through the segmenter and performs
// the resulting actions in order. Typing failures are logged and
// swallowed; a flaky injection must not kill the session.
func (c *Controller) handle(ctx context.Context, text string) {
	c.notifier.StatusChanged(domain.StatusProcessing)

	for _, action := range c.seg.Segment(text) {
		switch action.Kind {
		case domain.ActionEmitText:
			if err := c.sink.Append(ctx, action.Text); err != nil {
				c.log.Warn("session: record transcript: %v", err)
			}
			if err := c.typist.Type(ctx, action.Text); err != nil {
				c.log.Debug("session: type: %v", err)
			}
		case domain.ActionPressKey:
			if err := c.typist.PressKey(ctx, action.Key); err != nil {
				c.log.Debug("session: press %s: %v", action.Key, err)
			}
		}
	}

	if c.Listening() {
		c.notifier.StatusChanged(domain.StatusListening)
	}
}

// noopNotifier is the default when no UI is attached.
type noopNotifier struct{}

func (noopNotifier) StatusChanged(domain.Status) {}
