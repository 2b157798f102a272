package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrMissingAPIKey     = errors.New("transcription API key is not set")
	ErrStreamClosed      = errors.New("transcription stream is closed")
	ErrTypingUnavailable = errors.New("synthetic typing tool not available")
	ErrNotListening      = errors.New("session is not listening")
	ErrAlreadyListening  = errors.New("session is already listening")
)
