// Package engine decides whether an idle machine should be powered off.
package engine

import (
	"log"

	"autoff/internal/loadavg"
	"autoff/internal/policy"
	"autoff/internal/record"
)

// Classifier applies the policy to the persisted sample log. It holds no
// state of its own: each evaluation appends the current load reading and
// re-derives the verdict from the trailing window.
type Classifier struct {
	policy  policy.Policy
	sampler loadavg.Sampler
	store   *record.Store
}

// NewClassifier wires a classifier to its sample source and log.
func NewClassifier(p policy.Policy, sampler loadavg.Sampler, store *record.Store) *Classifier {
	return &Classifier{policy: p, sampler: sampler, store: store}
}

// Evaluate samples the current load, appends it to the log and classifies
// the trailing window. It returns the verdict together with the sample just
// taken. Sustained idleness requires RequiredPeriods consecutive idle
// samples; a busy sample implicitly resets the count because it stays inside
// the look-back horizon until it ages out.
func (c *Classifier) Evaluate() (Verdict, float64, error) {
	sample, err := c.sampler.Sample(c.policy.LoadWindowMins)
	if err != nil {
		return 0, 0, err
	}
	if err := c.store.Append(sample); err != nil {
		return 0, sample, err
	}

	if sample >= c.policy.IdleLoadThreshold {
		log.Printf("system busy")
		return Busy, sample, nil
	}

	window, err := c.store.Tail(c.policy.RequiredPeriods)
	if err != nil {
		return 0, sample, err
	}
	if len(window) < c.policy.RequiredPeriods {
		log.Printf("inside inactivity window")
		return WithinWindow, sample, nil
	}
	for _, previous := range window[:len(window)-1] {
		if previous >= c.policy.IdleLoadThreshold {
			log.Printf("inside inactivity window")
			return WithinWindow, sample, nil
		}
	}

	log.Printf("shutting down machine")
	return ShutdownApproved, sample, nil
}
