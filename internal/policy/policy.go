package policy

import (
	"errors"
	"fmt"
)

// ErrInvalidPolicy marks a rejected parameter set. Callers must re-prompt or
// abort; values are never auto-corrected.
var ErrInvalidPolicy = errors.New("invalid policy")

// ValidWindows are the load-average windows the kernel exposes, in minutes.
var ValidWindows = []int{1, 5, 15}

// Policy holds the validated tunables for one evaluator invocation.
type Policy struct {
	InactivityThresholdMins int     `json:"inactivity_threshold_mins"`
	LoadWindowMins          int     `json:"loadavg_level_mins"`
	IdleLoadThreshold       float64 `json:"cpu_idle_threshold"`
	SSHCheck                bool    `json:"ssh_check"`

	// RequiredPeriods is the number of consecutive idle samples needed to
	// approve shutdown: InactivityThresholdMins / LoadWindowMins.
	RequiredPeriods int `json:"required_periods"`
}

// New validates the raw inputs and returns a fully constructed Policy.
// There is no partial construction: on error the zero Policy is returned.
func New(inactivityThresholdMins, loadWindowMins int, idleLoadThreshold float64, sshCheck bool) (Policy, error) {
	if idleLoadThreshold < 0 || idleLoadThreshold > 1 {
		return Policy{}, fmt.Errorf("%w: cpu_idle_threshold must be between 0 and 1, got %v", ErrInvalidPolicy, idleLoadThreshold)
	}
	if !validWindow(loadWindowMins) {
		return Policy{}, fmt.Errorf("%w: loadavg_level_mins must be one of 1, 5 or 15, got %d", ErrInvalidPolicy, loadWindowMins)
	}
	if inactivityThresholdMins <= 0 || inactivityThresholdMins%loadWindowMins != 0 {
		return Policy{}, fmt.Errorf("%w: inactivity_threshold_mins must be a positive multiple of %d, got %d", ErrInvalidPolicy, loadWindowMins, inactivityThresholdMins)
	}

	return Policy{
		InactivityThresholdMins: inactivityThresholdMins,
		LoadWindowMins:          loadWindowMins,
		IdleLoadThreshold:       idleLoadThreshold,
		SSHCheck:                sshCheck,
		RequiredPeriods:         inactivityThresholdMins / loadWindowMins,
	}, nil
}

func validWindow(mins int) bool {
	for _, w := range ValidWindows {
		if mins == w {
			return true
		}
	}
	return false
}
