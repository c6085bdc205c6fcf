package schedule

import (
	"errors"
	"fmt"
	"strconv"

	"autoff/internal/policy"
)

// ErrFirstRunUnderflow means the first evaluator run would land before 00:00
// of the shutdown day. The operator must shorten the inactivity threshold or
// pick a later shutdown time; the value is never clamped.
var ErrFirstRunUnderflow = errors.New("first run time before midnight")

// DefaultShutdownCommand is the hard shutdown action for the midnight trigger.
const DefaultShutdownCommand = "/usr/sbin/shutdown now"

// TriggerWindow is one compiled scheduler rule: a minute set applied over a
// single hour or an inclusive hour range.
type TriggerWindow struct {
	Minutes  []int
	HourFrom int
	HourTo   int
	Command  string

	// Unconditional marks the fixed midnight hard-shutdown trigger, which
	// bypasses the evaluator entirely.
	Unconditional bool
}

// Options controls schedule compilation.
type Options struct {
	// EvaluatorPath is the absolute path of the per-tick evaluator binary.
	EvaluatorPath string
	// ShutdownAtMidnight appends the unconditional 00:00 trigger.
	ShutdownAtMidnight bool
	// ShutdownCommand overrides DefaultShutdownCommand when set.
	ShutdownCommand string
}

// FirstRun computes the earliest time the evaluator must start running so the
// machine can shut down at shutdownAt if idleness already holds: the shutdown
// time set back by (threshold - window) minutes, on the same calendar day.
func FirstRun(shutdownAt Clock, p policy.Policy) (Clock, error) {
	total := shutdownAt.TotalMinutes() - (p.InactivityThresholdMins - p.LoadWindowMins)
	if total < 0 {
		return Clock{}, fmt.Errorf("%w: shutdown time %s with threshold %d mins and window %d mins; reduce the threshold or pick a later shutdown time",
			ErrFirstRunUnderflow, shutdownAt, p.InactivityThresholdMins, p.LoadWindowMins)
	}
	return Clock{Hour: total / 60, Minute: total % 60}, nil
}

// Compile translates a policy and shutdown target time into an ordered set
// of non-overlapping trigger windows jointly covering every tick from the
// first run time through 23:59. Pure: no side effects, no persisted state.
func Compile(p policy.Policy, shutdownAt Clock, opts Options) ([]TriggerWindow, error) {
	first, err := FirstRun(shutdownAt, p)
	if err != nil {
		return nil, err
	}

	command := EvaluatorCommand(p, opts.EvaluatorPath)
	firstMinutes := minuteSeries(first.Minute, p.LoadWindowMins)
	// Continue the same arithmetic progression, wrapped into the next hour.
	contMinutes := minuteSeries(firstMinutes[len(firstMinutes)-1]+p.LoadWindowMins-60, p.LoadWindowMins)

	windows := []TriggerWindow{{
		Minutes:  firstMinutes,
		HourFrom: first.Hour,
		HourTo:   first.Hour,
		Command:  command,
	}}

	switch first.Hour {
	case 23:
		// The first partial hour already reaches midnight.
	case 22:
		windows = append(windows, TriggerWindow{
			Minutes:  contMinutes,
			HourFrom: 23,
			HourTo:   23,
			Command:  command,
		})
	default:
		windows = append(windows, TriggerWindow{
			Minutes:  contMinutes,
			HourFrom: first.Hour + 1,
			HourTo:   23,
			Command:  command,
		})
	}

	if opts.ShutdownAtMidnight {
		shutdownCommand := opts.ShutdownCommand
		if shutdownCommand == "" {
			shutdownCommand = DefaultShutdownCommand
		}
		windows = append(windows, TriggerWindow{
			Minutes:       []int{0},
			HourFrom:      0,
			HourTo:        0,
			Command:       shutdownCommand,
			Unconditional: true,
		})
	}

	return windows, nil
}

// EvaluatorCommand renders the evaluator invocation threading the policy
// parameters into every future tick.
func EvaluatorCommand(p policy.Policy, evaluatorPath string) string {
	command := fmt.Sprintf("%s --inactivity_threshold_mins %d --loadavg_level_mins %d --cpu_idle_threshold %s",
		evaluatorPath,
		p.InactivityThresholdMins,
		p.LoadWindowMins,
		strconv.FormatFloat(p.IdleLoadThreshold, 'f', -1, 64))
	if p.SSHCheck {
		command += " --ssh"
	}
	return command
}

// minuteSeries builds the ascending minute list starting at from with the
// given step, up to 59.
func minuteSeries(from, step int) []int {
	var minutes []int
	for m := from; m < 60; m += step {
		minutes = append(minutes, m)
	}
	return minutes
}
