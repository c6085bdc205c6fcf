package engine

import (
	"fmt"
	"log"

	"autoff/internal/policy"
)

// SSHGuard reports whether any live SSH session exists.
type SSHGuard interface {
	HasOpenConnections() (bool, error)
}

// Outcome captures everything one tick decided.
type Outcome struct {
	// Approved is the final go/no-go.
	Approved bool
	// SSHVetoed is set when an open SSH session short-circuited the tick;
	// the classifier was not invoked and no sample was recorded.
	SSHVetoed bool
	// Verdict and Sample are valid only when SSHVetoed is false.
	Verdict Verdict
	Sample  float64
}

// Engine composes the SSH guard and the inactivity classifier into the final
// shutdown decision. It is invoked once per trigger tick.
type Engine struct {
	policy     policy.Policy
	guard      SSHGuard
	classifier *Classifier
}

// New creates a decision engine.
func New(p policy.Policy, guard SSHGuard, classifier *Classifier) *Engine {
	return &Engine{policy: p, guard: guard, classifier: classifier}
}

// Decide runs one tick. The SSH check comes first: when it trips, the
// classifier is never consulted and no sample tick is consumed.
func (e *Engine) Decide() (Outcome, error) {
	if e.policy.SSHCheck {
		open, err := e.guard.HasOpenConnections()
		if err != nil {
			return Outcome{}, fmt.Errorf("probe ssh sessions: %w", err)
		}
		if open {
			log.Printf("SSH connection open")
			return Outcome{SSHVetoed: true}, nil
		}
	}

	verdict, sample, err := e.classifier.Evaluate()
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Approved: verdict == ShutdownApproved,
		Verdict:  verdict,
		Sample:   sample,
	}, nil
}
