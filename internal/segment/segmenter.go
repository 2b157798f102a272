// Package segment splits raw transcripts into literal dictation text
// and embedded voice commands.
package segment

import (
	"strings"

	"github.com/hammamikhairi/ottotype/internal/domain"
	"github.com/hammamikhairi/ottotype/internal/logger"
)

// ReturnKey is the logical key name every recognized command maps to.
const ReturnKey = "Return"

// commandPhrases maps an exact spoken phrase (trimmed, lower-cased) to
// the key it presses. A phrase embedded in a longer sentence is not a
// command; only whole content tokens match.
var commandPhrases = map[string]string{
	"enter":       ReturnKey,
	"enters":      ReturnKey,
	"enter key":   ReturnKey,
	"type enter":  ReturnKey,
	"press enter": ReturnKey,
	"new line":    ReturnKey,
	"next line":   ReturnKey,
}

// repeatWords are the words allowed in a repeated command token like
// "enter enter enter", which presses the key once per word.
var repeatWords = map[string]bool{
	"enter":  true,
	"enters": true,
}

// punctuation runs of these characters delimit content tokens.
const punctuation = ".?!,;"

// Segmenter converts a transcript into an ordered action sequence.
type Segmenter struct {
	log *logger.Logger
}

// New creates a transcript segmenter.
func New(log *logger.Logger) *Segmenter {
	return &Segmenter{log: log}
}

// Segment walks the transcript and returns the actions to perform, in
// input order. Literal text accumulates (punctuation included) until a
// command token forces a flush; the punctuation that trails a command
// is swallowed so it ends up in neither output.
func (s *Segmenter) Segment(transcript string) []domain.Action {
	tokens := splitKeepPunct(transcript)

	var actions []domain.Action
	var buf strings.Builder
	skipNextSep := false

	flush := func() {
		text := strings.TrimSpace(buf.String())
		buf.Reset()
		if text != "" {
			actions = append(actions, domain.EmitText(text))
		}
	}

	for i, tok := range tokens {
		// Odd indices are punctuation runs.
		if i%2 == 1 {
			if skipNextSep {
				skipNextSep = false
				continue
			}
			buf.WriteString(tok)
			continue
		}

		clean := strings.ToLower(strings.TrimSpace(tok))
		if clean == "" {
			continue
		}

		if key, ok := commandPhrases[clean]; ok {
			s.log.Debug("segment: command %q -> %s", clean, key)
			flush()
			actions = append(actions, domain.PressKey(key))
			skipNextSep = true
			continue
		}

		if n := repeatCount(clean); n > 0 {
			s.log.Debug("segment: repeated command %q x%d", clean, n)
			flush()
			for j := 0; j < n; j++ {
				actions = append(actions, domain.PressKey(ReturnKey))
			}
			skipNextSep = true
			continue
		}

		buf.WriteString(tok)
	}

	flush()
	return actions
}

// splitKeepPunct splits on runs of sentence punctuation, keeping the
// runs as their own tokens. Content and delimiters alternate, content
// first; a leading delimiter yields an empty content token so the
// parity invariant holds.
func splitKeepPunct(s string) []string {
	var tokens []string
	var cur strings.Builder
	inDelim := false

	for _, r := range s {
		isDelim := strings.ContainsRune(punctuation, r)
		if isDelim != inDelim {
			tokens = append(tokens, cur.String())
			cur.Reset()
			inDelim = isDelim
		}
		cur.WriteRune(r)
	}
	tokens = append(tokens, cur.String())
	return tokens
}

// repeatCount returns how many key presses a repeated command token
// produces, or 0 if the token is not a run of repeat words.
func repeatCount(clean string) int {
	words := strings.Fields(clean)
	if len(words) == 0 {
		return 0
	}
	for _, w := range words {
		if !repeatWords[w] {
			return 0
		}
	}
	return len(words)
}
