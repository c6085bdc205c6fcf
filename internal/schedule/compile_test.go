package schedule

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"autoff/internal/policy"
)

func mustPolicy(t *testing.T, threshold, window int) policy.Policy {
	t.Helper()
	p, err := policy.New(threshold, window, 0.05, true)
	require.NoError(t, err)
	return p
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("1830")
	require.NoError(t, err)
	require.Equal(t, Clock{Hour: 18, Minute: 30}, c)

	for _, bad := range []string{"", "183", "18300", "2460", "1860", "ab30"} {
		_, err := ParseClock(bad)
		require.Errorf(t, err, "input %q", bad)
	}
}

func TestFirstRun(t *testing.T) {
	cases := []struct {
		shutdown  Clock
		threshold int
		window    int
		want      Clock
	}{
		{Clock{0, 0}, 15, 15, Clock{0, 0}},
		{Clock{18, 0}, 30, 15, Clock{17, 45}},
		{Clock{10, 0}, 615, 15, Clock{0, 0}},
	}
	for _, tc := range cases {
		got, err := FirstRun(tc.shutdown, mustPolicy(t, tc.threshold, tc.window))
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}
}

func TestFirstRunUnderflow(t *testing.T) {
	cases := []struct {
		shutdown  Clock
		threshold int
		window    int
	}{
		{Clock{0, 0}, 2, 1},
		{Clock{0, 0}, 15, 5},
		{Clock{0, 0}, 30, 15},
		{Clock{10, 0}, 630, 15},
	}
	for _, tc := range cases {
		_, err := FirstRun(tc.shutdown, mustPolicy(t, tc.threshold, tc.window))
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrFirstRunUnderflow))
	}
}

func TestCompileContinuationRange(t *testing.T) {
	// shutdown 21:00, threshold 30, window 15 -> first run 20:45
	windows, err := Compile(mustPolicy(t, 30, 15), Clock{21, 0}, Options{EvaluatorPath: "/usr/local/bin/autoff"})
	require.NoError(t, err)
	require.Len(t, windows, 2)

	require.Equal(t, []int{45}, windows[0].Minutes)
	require.Equal(t, 20, windows[0].HourFrom)
	require.Equal(t, 20, windows[0].HourTo)

	require.Equal(t, []int{0, 15, 30, 45}, windows[1].Minutes)
	require.Equal(t, 21, windows[1].HourFrom)
	require.Equal(t, 23, windows[1].HourTo)
}

func TestCompileHour22PinsContinuationTo23(t *testing.T) {
	// shutdown 22:15 -> first run 22:00
	windows, err := Compile(mustPolicy(t, 30, 15), Clock{22, 15}, Options{EvaluatorPath: "/usr/local/bin/autoff"})
	require.NoError(t, err)
	require.Len(t, windows, 2)

	require.Equal(t, []int{0, 15, 30, 45}, windows[0].Minutes)
	require.Equal(t, 22, windows[0].HourFrom)
	require.Equal(t, 22, windows[0].HourTo)

	require.Equal(t, []int{0, 15, 30, 45}, windows[1].Minutes)
	require.Equal(t, 23, windows[1].HourFrom)
	require.Equal(t, 23, windows[1].HourTo)
}

func TestCompileHour23EmitsSingleWindow(t *testing.T) {
	// shutdown 23:15 -> first run 23:00, already reaches midnight
	windows, err := Compile(mustPolicy(t, 30, 15), Clock{23, 15}, Options{EvaluatorPath: "/usr/local/bin/autoff"})
	require.NoError(t, err)
	require.Len(t, windows, 1)
	require.Equal(t, []int{0, 15, 30, 45}, windows[0].Minutes)
	require.Equal(t, 23, windows[0].HourFrom)
	require.Equal(t, 23, windows[0].HourTo)
}

func TestCompileOffPhaseMinutesKeepProgression(t *testing.T) {
	// shutdown 21:05, threshold 30, window 15 -> first run 20:50; the
	// continuation hours keep the same phase modulo 60.
	windows, err := Compile(mustPolicy(t, 30, 15), Clock{21, 5}, Options{EvaluatorPath: "/usr/local/bin/autoff"})
	require.NoError(t, err)
	require.Len(t, windows, 2)
	require.Equal(t, []int{50}, windows[0].Minutes)
	require.Equal(t, []int{5, 20, 35, 50}, windows[1].Minutes)
}

func TestCompileMidnightTrigger(t *testing.T) {
	windows, err := Compile(mustPolicy(t, 30, 15), Clock{22, 15}, Options{
		EvaluatorPath:      "/usr/local/bin/autoff",
		ShutdownAtMidnight: true,
	})
	require.NoError(t, err)
	require.Len(t, windows, 3)

	last := windows[len(windows)-1]
	require.True(t, last.Unconditional)
	require.Equal(t, []int{0}, last.Minutes)
	require.Equal(t, 0, last.HourFrom)
	require.Equal(t, DefaultShutdownCommand, last.Command)
}

func TestCompileUnderflowPropagates(t *testing.T) {
	_, err := Compile(mustPolicy(t, 30, 15), Clock{0, 0}, Options{EvaluatorPath: "/usr/local/bin/autoff"})
	require.True(t, errors.Is(err, ErrFirstRunUnderflow))
}

func TestEvaluatorCommand(t *testing.T) {
	p := mustPolicy(t, 30, 15)
	require.Equal(t,
		"foo/autoff --inactivity_threshold_mins 30 --loadavg_level_mins 15 --cpu_idle_threshold 0.05 --ssh",
		EvaluatorCommand(p, "foo/autoff"))

	p, err := policy.New(30, 15, 0.05, false)
	require.NoError(t, err)
	require.Equal(t,
		"foo/autoff --inactivity_threshold_mins 30 --loadavg_level_mins 15 --cpu_idle_threshold 0.05",
		EvaluatorCommand(p, "foo/autoff"))
}
