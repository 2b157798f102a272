package segment

import (
	"testing"

	"github.com/hammamikhairi/ottotype/internal/domain"
	"github.com/hammamikhairi/ottotype/internal/logger"
)

func text(s string) domain.Action { return domain.EmitText(s) }

func press() domain.Action { return domain.PressKey(ReturnKey) }

func presses(n int) []domain.Action {
	out := make([]domain.Action, n)
	for i := range out {
		out[i] = press()
	}
	return out
}

func TestSegmenter(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	seg := New(log)

	tests := []struct {
		name  string
		input string
		want  []domain.Action
	}{
		// Bare command variants
		{"enter", "enter", presses(1)},
		{"enters", "Enters", presses(1)},
		{"enter key", "enter key", presses(1)},
		{"type enter", "type enter", presses(1)},
		{"press enter", "press enter", presses(1)},
		{"new line", "new line", presses(1)},
		{"next line", "next line", presses(1)},

		// Trailing punctuation after a command is swallowed
		{"command with period", "Enter.", presses(1)},
		{"command with comma", "new line,", presses(1)},

		// Repeated commands collapse into one press per word
		{"triple enter", "Enter enter enter", presses(3)},
		{"double enter period", "enter enter.", presses(2)},
		{"mixed repeat words", "enters enter", presses(2)},

		// Text flushes before the command fires
		{"text then command", "Test. Enter.",
			[]domain.Action{text("Test."), press()}},
		{"command then text", "New line. Hello",
			[]domain.Action{press(), text("Hello")}},
		{"command between sentences", "First part. Enter. Second part.",
			[]domain.Action{text("First part."), press(), text("Second part.")}},

		// A command phrase inside a longer token is literal text
		{"embedded phrase", "Press enter now",
			[]domain.Action{text("Press enter now")}},
		{"embedded enter word", "enter the room",
			[]domain.Action{text("enter the room")}},

		// Plain dictation passes through with punctuation intact
		{"plain sentence", "Hello, world!",
			[]domain.Action{text("Hello, world!")}},
		{"multiple sentences", "One. Two? Three!",
			[]domain.Action{text("One. Two? Three!")}},

		// Back-to-back commands
		{"two commands", "Enter. New line.", presses(2)},

		// Degenerate inputs
		{"empty", "", nil},
		{"only punctuation", "...", []domain.Action{text("...")}},
		{"only spaces", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := seg.Segment(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("input=%q: got %d actions %v, want %d %v",
					tt.input, len(got), got, len(tt.want), tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("input=%q: action %d = %v, want %v",
						tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSegmenterOrderPreserved(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	seg := New(log)

	got := seg.Segment("Dear team, new line. Thanks for everything. Enter enter. Bye")
	want := []domain.Action{
		text("Dear team,"),
		press(),
		text("Thanks for everything."),
		press(), press(),
		text("Bye"),
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("action %d = %v, want %v", i, got[i], want[i])
		}
	}
}
