// Package journal persists the outcome of each evaluator tick.
package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Entry records what one tick decided.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Verdict   string    `json:"verdict"`
	Sample    *float64  `json:"sample,omitempty"`
	Approved  bool      `json:"approved"`
}

// Journal is a JSON-backed log of tick entries. Unlike the sample record it
// is rewritten atomically on each append, so a crashed tick leaves the
// previous journal intact.
type Journal struct {
	mu      sync.RWMutex
	path    string
	entries []Entry
}

// New creates a journal and loads existing entries if present.
func New(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal directory: %w", err)
	}

	j := &Journal{path: path}
	if err := j.load(); err != nil {
		return nil, err
	}
	return j, nil
}

// Append adds a new entry and persists the journal to disk.
func (j *Journal) Append(entry Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries = append(j.entries, entry)
	return j.persistLocked()
}

// Latest returns the most recent entry if one exists.
func (j *Journal) Latest() (Entry, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if len(j.entries) == 0 {
		return Entry{}, false
	}
	return j.entries[len(j.entries)-1], true
}

// History returns a copy of all persisted entries in order.
func (j *Journal) History() []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if len(j.entries) == 0 {
		return nil
	}
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

func (j *Journal) load() error {
	data, err := os.ReadFile(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			j.entries = nil
			return nil
		}
		return fmt.Errorf("read journal: %w", err)
	}
	if len(data) == 0 {
		j.entries = nil
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse journal: %w", err)
	}
	j.entries = entries
	return nil
}

func (j *Journal) persistLocked() error {
	bytes, err := json.MarshalIndent(j.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode journal: %w", err)
	}

	tmpPath := fmt.Sprintf("%s.%d.tmp", j.path, time.Now().UnixNano())
	if err := os.WriteFile(tmpPath, bytes, 0o644); err != nil {
		return fmt.Errorf("write temp journal: %w", err)
	}
	if err := os.Rename(tmpPath, j.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace journal file: %w", err)
	}
	return nil
}
