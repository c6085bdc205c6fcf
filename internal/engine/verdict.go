package engine

// Verdict is the tri-state outcome of one classifier evaluation.
type Verdict int

const (
	// Busy means the newest sample is at or above the idle threshold.
	Busy Verdict = iota
	// WithinWindow means the machine looks idle but the required run of
	// consecutive idle samples is not complete yet.
	WithinWindow
	// ShutdownApproved means every sample in the trailing window was idle.
	ShutdownApproved
)

func (v Verdict) String() string {
	switch v {
	case Busy:
		return "busy"
	case WithinWindow:
		return "within-window"
	case ShutdownApproved:
		return "shutdown-approved"
	default:
		return "unknown"
	}
}
