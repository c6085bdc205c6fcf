package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"autoff/internal/policy"
	"autoff/internal/record"
)

// queueSampler replays a fixed sequence of load readings.
type queueSampler struct {
	values []float64
	calls  int
}

func (q *queueSampler) Sample(windowMins int) (float64, error) {
	v := q.values[q.calls]
	q.calls++
	return v, nil
}

func newTestClassifier(t *testing.T, p policy.Policy, values ...float64) (*Classifier, *record.Store) {
	t.Helper()
	store := record.New(filepath.Join(t.TempDir(), "loadavg_record"))
	return NewClassifier(p, &queueSampler{values: values}, store), store
}

func mustPolicy(t *testing.T, threshold, window int) policy.Policy {
	t.Helper()
	p, err := policy.New(threshold, window, 0.05, false)
	require.NoError(t, err)
	return p
}

func TestEvaluateSinglePeriodIdle(t *testing.T) {
	p := mustPolicy(t, 15, 15) // requiredPeriods = 1
	c, _ := newTestClassifier(t, p, 0)

	verdict, sample, err := c.Evaluate()
	require.NoError(t, err)
	require.Equal(t, ShutdownApproved, verdict)
	require.Equal(t, 0.0, sample)
}

func TestEvaluateSinglePeriodBusy(t *testing.T) {
	p := mustPolicy(t, 15, 15)
	c, _ := newTestClassifier(t, p, 2)

	verdict, sample, err := c.Evaluate()
	require.NoError(t, err)
	require.Equal(t, Busy, verdict)
	require.Equal(t, 2.0, sample)
}

func TestEvaluateTwoPeriodsNeedsHistory(t *testing.T) {
	p := mustPolicy(t, 30, 15) // requiredPeriods = 2
	c, _ := newTestClassifier(t, p, 0, 0)

	verdict, _, err := c.Evaluate()
	require.NoError(t, err)
	require.Equal(t, WithinWindow, verdict)

	verdict, _, err = c.Evaluate()
	require.NoError(t, err)
	require.Equal(t, ShutdownApproved, verdict)
}

func TestEvaluateBusySampleResetsWindow(t *testing.T) {
	p := mustPolicy(t, 30, 15)
	c, _ := newTestClassifier(t, p, 0, 1, 0, 0)

	want := []Verdict{WithinWindow, Busy, WithinWindow, ShutdownApproved}
	for i, expected := range want {
		verdict, _, err := c.Evaluate()
		require.NoError(t, err)
		require.Equalf(t, expected, verdict, "tick %d", i)
	}
}

// Two classifiers over an identical historical log must agree on the verdict
// for the same newest sample.
func TestEvaluateDeterministicOverSharedHistory(t *testing.T) {
	p := mustPolicy(t, 30, 15)

	history := []float64{0.2, 0}
	runs := make([]Verdict, 0, 2)
	for i := 0; i < 2; i++ {
		store := record.New(filepath.Join(t.TempDir(), "loadavg_record"))
		for _, v := range history {
			require.NoError(t, store.Append(v))
		}
		c := NewClassifier(p, &queueSampler{values: []float64{0.01}}, store)
		verdict, _, err := c.Evaluate()
		require.NoError(t, err)
		runs = append(runs, verdict)
	}
	require.Equal(t, runs[0], runs[1])
}

func TestEvaluateAppendsEveryTick(t *testing.T) {
	p := mustPolicy(t, 15, 15)
	c, store := newTestClassifier(t, p, 0.5, 0.01)

	_, _, err := c.Evaluate()
	require.NoError(t, err)
	_, _, err = c.Evaluate()
	require.NoError(t, err)

	all, err := store.All()
	require.NoError(t, err)
	require.Equal(t, []float64{0.5, 0.01}, all)
}

func TestVerdictString(t *testing.T) {
	require.Equal(t, "busy", Busy.String())
	require.Equal(t, "within-window", WithinWindow.String())
	require.Equal(t, "shutdown-approved", ShutdownApproved.String())
}
