// Package sshprobe detects live SSH sessions on the local machine.
package sshprobe

import (
	"bytes"
	"fmt"
	"os/exec"
)

// probeCommand lists established sockets on the ssh port in either direction.
// ss always prints a header line, so more than one line means a live session.
const probeCommand = `ss -o state established '( dport = :ssh or sport = :ssh )'`

// Probe implements engine.SSHGuard by shelling out to ss.
type Probe struct {
	run func() ([]byte, error)
}

// New creates a probe using the system ss binary.
func New() *Probe {
	return &Probe{
		run: func() ([]byte, error) {
			return exec.Command("sh", "-c", probeCommand).Output()
		},
	}
}

// HasOpenConnections reports whether any established SSH session exists.
func (p *Probe) HasOpenConnections() (bool, error) {
	out, err := p.run()
	if err != nil {
		return false, fmt.Errorf("run ss: %w", err)
	}
	return bytes.Count(out, []byte("\n")) > 1, nil
}
