package domain

// Transcript is one recognition result from the streaming transcriber.
type Transcript struct {
	Text       string
	Confidence float64
	// IsFinal means the service committed to this segment; only final
	// transcripts are segmented and typed. Interim results exist to
	// drive the status indicator.
	IsFinal bool
	// SpeechFinal means the service detected end of speech for the
	// current utterance.
	SpeechFinal bool
}

// Status is the dictation session state shown on the indicator.
type Status int

const (
	StatusIdle Status = iota
	StatusListening
	StatusProcessing
)

// String returns the indicator label for the status.
func (s Status) String() string {
	switch s {
	case StatusListening:
		return "Listening"
	case StatusProcessing:
		return "Processing"
	default:
		return "Idle"
	}
}
