// Package audio captures microphone input as linear16 PCM frames.
package audio

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/smallnest/ringbuffer"

	"github.com/hammamikhairi/ottotype/internal/domain"
	"github.com/hammamikhairi/ottotype/internal/logger"
)

const (
	// SampleRate is the capture rate expected by the transcriber.
	SampleRate = 16000
	channels   = 1

	frameDuration = 100 * time.Millisecond
	frameSamples  = SampleRate / 10
	frameBytes    = frameSamples * 2

	// The ring holds a few seconds of audio. When the consumer stalls
	// the oldest frames are dropped, never the device reads.
	ringSeconds = 3
)

// Option configures the capture.
type Option func(*Capture)

// WithGain sets a linear gain applied to every sample, clamped to the
// int16 range. Useful for quiet microphones.
func WithGain(gain float64) Option {
	return func(c *Capture) { c.gain = gain }
}

// Init initializes the audio subsystem. Call once at startup, and pair
// with Terminate on shutdown.
func Init() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}
	return nil
}

// Terminate releases the audio subsystem.
func Terminate() {
	_ = portaudio.Terminate()
}

// Capture reads microphone audio and hands out fixed-size PCM frames.
// A ring buffer sits between the device and the consumer so a slow
// consumer loses old audio instead of overflowing the input stream.
type Capture struct {
	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	ring   *ringbuffer.RingBuffer
	frames chan []byte
	gain   float64
	log    *logger.Logger
}

// NewCapture creates a microphone capture.
func NewCapture(log *logger.Logger, opts ...Option) *Capture {
	c := &Capture{
		ring: ringbuffer.New(SampleRate * 2 * ringSeconds).SetBlocking(false),
		gain: 1.0,
		log:  log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start opens the default input device and begins capturing. The
// returned channel delivers 100ms linear16 frames until Stop.
func (c *Capture) Start(ctx context.Context) (<-chan []byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil, domain.ErrAlreadyListening
	}

	buffer := make([]int16, frameSamples)
	stream, err := portaudio.OpenDefaultStream(channels, 0, float64(SampleRate), len(buffer), buffer)
	if err != nil {
		return nil, fmt.Errorf("open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("start input stream: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.ring.Reset()
	c.frames = make(chan []byte)
	c.running = true

	c.wg.Add(2)
	go c.readLoop(ctx, stream, buffer)
	go c.drainLoop(ctx)

	c.log.Info("audio: capture started (%d Hz, %dms frames)", SampleRate, frameDuration.Milliseconds())
	return c.frames, nil
}

// Stop halts capture and closes the frame channel. Idempotent.
func (c *Capture) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}
	c.cancel()
	c.wg.Wait()
	c.running = false
	c.log.Info("audio: capture stopped")
}

// readLoop pulls samples off the device into the ring.
func (c *Capture) readLoop(ctx context.Context, stream *portaudio.Stream, buffer []int16) {
	defer c.wg.Done()
	defer func() {
		stream.Stop()
		stream.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := stream.Read(); err != nil {
			// Overflows happen under load; the frame is partial but
			// still usable.
			if err != portaudio.InputOverflowed {
				c.log.Warn("audio: read error: %v", err)
				continue
			}
		}

		c.enqueue(buffer)
	}
}

// enqueue writes one frame into the ring, dropping the oldest frame
// when full.
func (c *Capture) enqueue(samples []int16) {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		if c.gain != 1.0 {
			boosted := float64(s) * c.gain
			if boosted > 32767 {
				boosted = 32767
			} else if boosted < -32768 {
				boosted = -32768
			}
			s = int16(boosted)
		}
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}

	for c.ring.Free() < len(data) {
		skip := make([]byte, frameBytes)
		if _, err := c.ring.Read(skip); err != nil {
			c.ring.Reset()
			break
		}
		c.log.Debug("audio: ring full, dropped a frame")
	}
	if _, err := c.ring.Write(data); err != nil {
		c.log.Warn("audio: ring write: %v", err)
	}
}

// drainLoop moves complete frames from the ring to the consumer.
func (c *Capture) drainLoop(ctx context.Context) {
	defer c.wg.Done()
	defer close(c.frames)

	ticker := time.NewTicker(frameDuration / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for c.ring.Length() >= frameBytes {
				frame := make([]byte, frameBytes)
				if _, err := c.ring.Read(frame); err != nil {
					break
				}
				select {
				case c.frames <- frame:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}
