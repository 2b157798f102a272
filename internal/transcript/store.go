// Package transcript keeps a running record of everything dictated.
package transcript

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hammamikhairi/ottotype/internal/domain"
	"github.com/hammamikhairi/ottotype/internal/logger"
)

const (
	appendFile  = "transcriptions.txt"
	savePattern = "transcription_%s.txt"
	lineStamp   = "2006-01-02 15:04:05"
	saveStamp   = "20060102_150405"
)

// Compile-time interface check.
var _ domain.TranscriptSink = (*Store)(nil)

// Store holds transcribed lines in memory and mirrors each one to an
// append-only log file. Safe for concurrent access.
type Store struct {
	mu    sync.RWMutex
	lines []string
	dir   string
	log   *logger.Logger

	// now is swapped out in tests for stable timestamps.
	now func() time.Time
}

// NewStore creates a transcript store rooted at dir. The directory is
// created if it does not exist.
func NewStore(dir string, log *logger.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create transcript dir: %w", err)
	}
	return &Store{
		dir: dir,
		log: log,
		now: time.Now,
	}, nil
}

// Append records one dictated line, timestamped, in memory and in the
// running log file. A log write failure never loses the in-memory
// line.
func (s *Store) Append(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := fmt.Sprintf("[%s] %s", s.now().Format(lineStamp), text)
	s.lines = append(s.lines, line)

	f, err := os.OpenFile(filepath.Join(s.dir, appendFile),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		s.log.Warn("transcript: open log: %v", err)
		return nil
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		s.log.Warn("transcript: append: %v", err)
	}
	return nil
}

// Lines returns a copy of the recorded lines, oldest first.
func (s *Store) Lines() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// Clear drops the in-memory record. The append-only log is left
// untouched.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// Save writes the current record to a timestamped file and returns its
// path.
func (s *Store) Save() (string, error) {
	s.mu.RLock()
	content := strings.Join(s.lines, "\n")
	s.mu.RUnlock()

	if content != "" {
		content += "\n"
	}

	name := fmt.Sprintf(savePattern, s.now().Format(saveStamp))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("save transcript: %w", err)
	}

	s.log.Info("transcript: saved %d lines to %s", len(s.Lines()), path)
	return path, nil
}
