// Package domain holds the core types and ports of the dictation pipeline.
package domain

// ActionKind classifies what a segmented transcript piece should do.
type ActionKind int

const (
	// ActionEmitText types (and logs) a literal chunk of dictation text.
	ActionEmitText ActionKind = iota
	// ActionPressKey injects a single synthetic key press.
	ActionPressKey
)

// String returns a human-readable action kind.
func (k ActionKind) String() string {
	switch k {
	case ActionEmitText:
		return "emit_text"
	case ActionPressKey:
		return "press_key"
	default:
		return "unknown"
	}
}

// Action is one step of a segmented transcript: either literal text to
// type verbatim, or the name of a logical key to press ("Return").
type Action struct {
	Kind ActionKind
	Text string // literal dictation text for ActionEmitText
	Key  string // logical key name for ActionPressKey
}

// EmitText builds a literal-text action.
func EmitText(text string) Action {
	return Action{Kind: ActionEmitText, Text: text}
}

// PressKey builds a key-press action.
func PressKey(name string) Action {
	return Action{Kind: ActionPressKey, Key: name}
}
