// Package record persists the load sample log across evaluator invocations.
package record

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Store is an append-only log of load samples, one decimal value per line.
// Entries are chronologically ordered and never removed or reordered. The
// file is created lazily on the first append.
//
// A single writer per tick is assumed; the compiled schedule spaces ticks at
// least one load window apart, but no file lock enforces mutual exclusion.
type Store struct {
	path string
}

// New creates a store backed by the given file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the backing file has been created yet.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Append adds one reading to the end of the persisted sequence.
func (s *Store) Append(sample float64) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure record directory: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open record file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s\n", strconv.FormatFloat(sample, 'f', -1, 64)); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// Tail returns the last n entries in order, fewer if the log is shorter.
func (s *Store) Tail(n int) ([]float64, error) {
	samples, err := s.All()
	if err != nil {
		return nil, err
	}
	if n < len(samples) {
		samples = samples[len(samples)-n:]
	}
	return samples, nil
}

// All returns every persisted entry in order. A missing file yields an empty
// log, not an error.
func (s *Store) All() ([]float64, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open record file: %w", err)
	}
	defer f.Close()

	var samples []float64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		value, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("parse record line %q: %w", line, err)
		}
		samples = append(samples, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read record file: %w", err)
	}
	return samples, nil
}
