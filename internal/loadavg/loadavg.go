// Package loadavg reads the kernel load-average interface.
package loadavg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultPath is the Linux loadavg pseudo-file.
const DefaultPath = "/proc/loadavg"

// windowIndex maps a window size in minutes to its field in /proc/loadavg.
var windowIndex = map[int]int{1: 0, 5: 1, 15: 2}

// Sampler supplies the current load average for a given averaging window.
type Sampler interface {
	Sample(windowMins int) (float64, error)
}

// ProcSampler reads load averages from a /proc/loadavg style file.
type ProcSampler struct {
	path string
}

// NewProcSampler creates a sampler backed by the given file. An empty path
// falls back to DefaultPath.
func NewProcSampler(path string) *ProcSampler {
	if path == "" {
		path = DefaultPath
	}
	return &ProcSampler{path: path}
}

// Sample returns the load average over the given window in minutes.
func (p *ProcSampler) Sample(windowMins int) (float64, error) {
	idx, ok := windowIndex[windowMins]
	if !ok {
		return 0, fmt.Errorf("unsupported loadavg window: %d minutes", windowMins)
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, fmt.Errorf("read loadavg: %w", err)
	}
	fields := strings.Fields(string(data))
	if len(fields) <= idx {
		return 0, fmt.Errorf("malformed loadavg file %s: %q", p.path, strings.TrimSpace(string(data)))
	}

	value, err := strconv.ParseFloat(fields[idx], 64)
	if err != nil {
		return 0, fmt.Errorf("parse loadavg field %d: %w", idx, err)
	}
	return value, nil
}
