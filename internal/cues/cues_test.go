package cues

import (
	"encoding/binary"
	"testing"
	"time"
)

func TestSineLength(t *testing.T) {
	tone := sine(880, 120*time.Millisecond)
	wantSamples := sampleRate * 120 / 1000
	if len(tone) != wantSamples*2 {
		t.Errorf("tone length = %d bytes, want %d", len(tone), wantSamples*2)
	}
}

func TestSineFadesInAndOut(t *testing.T) {
	tone := sine(880, 120*time.Millisecond)

	first := int16(binary.LittleEndian.Uint16(tone[0:2]))
	last := int16(binary.LittleEndian.Uint16(tone[len(tone)-2:]))
	if first != 0 {
		t.Errorf("first sample = %d, want 0 (fade in)", first)
	}
	if last > 300 || last < -300 {
		t.Errorf("last sample = %d, want near 0 (fade out)", last)
	}

	// The middle of the tone must actually carry signal.
	peak := int16(0)
	for i := 0; i < len(tone); i += 2 {
		s := int16(binary.LittleEndian.Uint16(tone[i : i+2]))
		if s > peak {
			peak = s
		}
	}
	if peak < 8000 {
		t.Errorf("peak amplitude = %d, tone too quiet", peak)
	}
}

func TestSineStaysInRange(t *testing.T) {
	tone := sine(440, 120*time.Millisecond)
	for i := 0; i < len(tone); i += 2 {
		s := int16(binary.LittleEndian.Uint16(tone[i : i+2]))
		if s > 14000 || s < -14000 {
			t.Fatalf("sample %d = %d, exceeds 0.4 gain ceiling", i/2, s)
		}
	}
}
