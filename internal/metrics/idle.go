package metrics

import "math"

// IdleStats summarises idleness over the persisted sample log.
type IdleStats struct {
	TotalSamples      int     `json:"total_samples"`
	IdleSamples       int     `json:"idle_samples"`
	BusySamples       int     `json:"busy_samples"`
	IdlePercent       float64 `json:"idle_percent"`
	CurrentIdleStreak int     `json:"current_idle_streak"`
	LongestIdleStreak int     `json:"longest_idle_streak"`
}

// ComputeIdleStats aggregates idle statistics from a sample series. A sample
// strictly below idleThreshold counts as idle, matching the classifier.
func ComputeIdleStats(samples []float64, idleThreshold float64) IdleStats {
	stats := IdleStats{TotalSamples: len(samples)}

	streak := 0
	for _, sample := range samples {
		if sample < idleThreshold {
			stats.IdleSamples++
			streak++
			if streak > stats.LongestIdleStreak {
				stats.LongestIdleStreak = streak
			}
		} else {
			stats.BusySamples++
			streak = 0
		}
	}
	stats.CurrentIdleStreak = streak

	if stats.TotalSamples > 0 {
		stats.IdlePercent = round2(float64(stats.IdleSamples) / float64(stats.TotalSamples) * 100)
	}
	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
