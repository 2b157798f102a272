// Package cues plays short audio tones marking session transitions, so
// the user hears when dictation starts and stops without looking at
// the indicator.
package cues

import (
	"bytes"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/ottotype/internal/logger"
)

const (
	sampleRate   = 24000
	channelCount = 1

	toneDuration = 120 * time.Millisecond
	startFreq    = 880.0
	stopFreq     = 440.0
)

// Player renders the start and stop tones through the system output.
type Player struct {
	ctx *oto.Context
	log *logger.Logger

	mu        sync.Mutex
	startTone []byte
	stopTone  []byte
}

// NewPlayer initializes the audio output. Returns an error when no
// output device is available; the app runs fine without cues.
func NewPlayer(log *logger.Logger) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-readyChan

	log.Debug("cues: audio output ready (rate=%d)", sampleRate)
	return &Player{
		ctx:       ctx,
		log:       log,
		startTone: sine(startFreq, toneDuration),
		stopTone:  sine(stopFreq, toneDuration),
	}, nil
}

// Start plays the listening-started tone.
func (p *Player) Start() {
	p.play(p.startTone)
}

// Stop plays the listening-stopped tone.
func (p *Player) Stop() {
	p.play(p.stopTone)
}

// play renders one tone synchronously. Tones are short; blocking the
// caller for ~100ms keeps start cue and capture start audibly aligned.
func (p *Player) play(tone []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	player := p.ctx.NewPlayer(bytes.NewReader(tone))
	player.Play()
	for player.IsPlaying() {
		time.Sleep(5 * time.Millisecond)
	}
	player.Close()
}

// sine renders a mono int16 sine tone with a short linear fade at both
// ends to avoid clicks.
func sine(freq float64, d time.Duration) []byte {
	samples := int(float64(sampleRate) * d.Seconds())
	fade := sampleRate / 100 // 10ms
	out := make([]byte, samples*2)

	for i := 0; i < samples; i++ {
		v := math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)

		gain := 0.4
		if i < fade {
			gain *= float64(i) / float64(fade)
		} else if samples-i < fade {
			gain *= float64(samples-i) / float64(fade)
		}

		s := int16(v * gain * 32767)
		out[i*2] = byte(s)
		out[i*2+1] = byte(s >> 8)
	}
	return out
}
