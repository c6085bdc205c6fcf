package sshprobe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func probeWithOutput(out string, err error) *Probe {
	return &Probe{run: func() ([]byte, error) {
		return []byte(out), err
	}}
}

func TestHasOpenConnections(t *testing.T) {
	// ss always emits a header line; sessions add one line each.
	header := "Netid State Recv-Q Send-Q Local Address:Port Peer Address:Port Process\n"

	open, err := probeWithOutput(header, nil).HasOpenConnections()
	require.NoError(t, err)
	require.False(t, open)

	open, err = probeWithOutput(header+"tcp ESTAB 0 0 10.0.0.2:ssh 10.0.0.9:51234 timer:(keepalive,119min,0)\n", nil).HasOpenConnections()
	require.NoError(t, err)
	require.True(t, open)
}

func TestHasOpenConnectionsCommandFailure(t *testing.T) {
	_, err := probeWithOutput("", errors.New("exit status 255")).HasOpenConnections()
	require.Error(t, err)
}
