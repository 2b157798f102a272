package domain

import "context"

// Transcriber streams microphone audio to a speech-to-text service and
// emits recognition results. Implementations can be WebSocket-backed
// (Deepgram) or in-memory fakes for tests.
type Transcriber interface {
	// SendAudio delivers one chunk of raw PCM audio. Calling SendAudio
	// after Close returns an error.
	SendAudio(chunk []byte) error

	// Results returns the channel of recognition results. Closed when
	// the session ends.
	Results() <-chan Transcript

	// Close flushes pending audio and shuts the stream down. Safe to
	// call more than once.
	Close() error
}

// TranscriberFactory opens a fresh transcription stream. The session
// calls this on every listening start so each dictation burst gets its
// own connection.
type TranscriberFactory interface {
	Open(ctx context.Context) (Transcriber, error)
}

// Typist injects synthetic keyboard events into the focused window.
// Implementations can shell out to an OS tool or be log-only no-ops.
type Typist interface {
	// Type writes literal text where the cursor is.
	Type(ctx context.Context, text string) error

	// PressKey presses a single logical key, e.g. "Return".
	PressKey(ctx context.Context, name string) error

	// Busy reports whether synthetic events are currently being
	// injected. Hotkey handlers check this to ignore self-generated
	// key events.
	Busy() bool
}

// TranscriptSink receives every literal-text emission for display and
// persistence. Implementations can buffer in memory, append to a file,
// or fan out to both.
type TranscriptSink interface {
	Append(ctx context.Context, text string) error
}

// StatusNotifier receives session state changes for the indicator.
type StatusNotifier interface {
	StatusChanged(status Status)
}

// AudioSource captures microphone audio as a stream of fixed-size PCM
// frames. Start is rejected while a capture is already running.
type AudioSource interface {
	// Start opens the device and returns the frame channel. The
	// channel is closed by Stop.
	Start(ctx context.Context) (<-chan []byte, error)

	// Stop halts capture. Idempotent.
	Stop()
}
