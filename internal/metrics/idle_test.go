package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeIdleStatsEmpty(t *testing.T) {
	stats := ComputeIdleStats(nil, 0.05)
	require.Equal(t, IdleStats{}, stats)
}

func TestComputeIdleStats(t *testing.T) {
	samples := []float64{0, 0.01, 1.2, 0.02, 0.03, 0.04}
	stats := ComputeIdleStats(samples, 0.05)

	require.Equal(t, 6, stats.TotalSamples)
	require.Equal(t, 5, stats.IdleSamples)
	require.Equal(t, 1, stats.BusySamples)
	require.Equal(t, 83.33, stats.IdlePercent)
	require.Equal(t, 3, stats.CurrentIdleStreak)
	require.Equal(t, 3, stats.LongestIdleStreak)
}

func TestComputeIdleStatsThresholdIsExclusive(t *testing.T) {
	// A sample exactly at the threshold counts as busy, like the classifier.
	stats := ComputeIdleStats([]float64{0.05}, 0.05)
	require.Equal(t, 1, stats.BusySamples)
	require.Equal(t, 0, stats.IdleSamples)
}

func TestComputeIdleStatsStreakEndsOnBusy(t *testing.T) {
	stats := ComputeIdleStats([]float64{0, 0, 0, 2}, 0.05)
	require.Equal(t, 3, stats.LongestIdleStreak)
	require.Equal(t, 0, stats.CurrentIdleStreak)
}
