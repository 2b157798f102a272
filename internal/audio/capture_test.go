package audio

import (
	"encoding/binary"
	"testing"

	"github.com/hammamikhairi/ottotype/internal/logger"
)

func TestEnqueueEncodesLittleEndian(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	c := NewCapture(log)

	samples := make([]int16, frameSamples)
	samples[0] = 0x0102
	samples[1] = -1
	c.enqueue(samples)

	frame := make([]byte, frameBytes)
	if _, err := c.ring.Read(frame); err != nil {
		t.Fatalf("ring read: %v", err)
	}
	if got := binary.LittleEndian.Uint16(frame[0:2]); got != 0x0102 {
		t.Errorf("sample 0 = %#x, want 0x0102", got)
	}
	if got := int16(binary.LittleEndian.Uint16(frame[2:4])); got != -1 {
		t.Errorf("sample 1 = %d, want -1", got)
	}
}

func TestEnqueueGainClamps(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	c := NewCapture(log, WithGain(1000))

	samples := make([]int16, frameSamples)
	samples[0] = 100
	samples[1] = -100
	c.enqueue(samples)

	frame := make([]byte, frameBytes)
	if _, err := c.ring.Read(frame); err != nil {
		t.Fatalf("ring read: %v", err)
	}
	if got := int16(binary.LittleEndian.Uint16(frame[0:2])); got != 32767 {
		t.Errorf("boosted sample = %d, want 32767", got)
	}
	if got := int16(binary.LittleEndian.Uint16(frame[2:4])); got != -32768 {
		t.Errorf("boosted sample = %d, want -32768", got)
	}
}

func TestEnqueueDropsOldestWhenFull(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	c := NewCapture(log)

	capacity := c.ring.Capacity() / frameBytes
	samples := make([]int16, frameSamples)

	// Fill the ring, then push one more frame with a marker.
	for i := 0; i < capacity; i++ {
		c.enqueue(samples)
	}
	samples[0] = 0x7777
	c.enqueue(samples)

	if c.ring.Length() > c.ring.Capacity() {
		t.Fatalf("ring over capacity: %d > %d", c.ring.Length(), c.ring.Capacity())
	}

	// The marker frame must still be in the ring; only old frames drop.
	found := false
	frame := make([]byte, frameBytes)
	for c.ring.Length() >= frameBytes {
		if _, err := c.ring.Read(frame); err != nil {
			t.Fatalf("ring read: %v", err)
		}
		if binary.LittleEndian.Uint16(frame[0:2]) == 0x7777 {
			found = true
		}
	}
	if !found {
		t.Error("newest frame was dropped instead of the oldest")
	}
}
