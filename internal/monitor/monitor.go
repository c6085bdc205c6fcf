// Package monitor runs the shutdown decision engine as a resident loop.
// Production deployments use the compiled cron schedule instead; the monitor
// exists for the foreground watch mode.
package monitor

import (
	"log"
	"time"

	"autoff/internal/engine"
	"autoff/internal/journal"
	"autoff/internal/policy"
	"autoff/internal/record"
)

// Monitor evaluates one tick per load window and persists the outcome.
type Monitor struct {
	policy   policy.Policy
	eng      *engine.Engine
	store    *record.Store
	journal  *journal.Journal
	shutdown func() error
	interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates a monitor. shutdown is invoked when a tick approves power-off;
// pass nil to only observe.
func New(p policy.Policy, eng *engine.Engine, store *record.Store, jnl *journal.Journal, shutdown func() error) *Monitor {
	return &Monitor{
		policy:   p,
		eng:      eng,
		store:    store,
		journal:  jnl,
		shutdown: shutdown,
		interval: time.Duration(p.LoadWindowMins) * time.Minute,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the evaluation loop in a goroutine.
func (m *Monitor) Start() {
	go m.run()
}

// Stop requests graceful loop termination and waits until it is done.
func (m *Monitor) Stop() {
	select {
	case <-m.doneCh:
		return
	default:
	}
	close(m.stopCh)
	<-m.doneCh
}

// RunOnce executes a single tick: decide, journal the outcome, and invoke
// the shutdown action when approved. A failed tick makes no decision and
// never shuts the machine down.
func (m *Monitor) RunOnce() (journal.Entry, error) {
	if !m.store.Exists() {
		log.Printf("starting auto-off routine: machine will shut down after %d minutes of inactivity",
			m.policy.InactivityThresholdMins)
	}

	outcome, err := m.eng.Decide()
	if err != nil {
		return journal.Entry{}, err
	}

	entry := EntryFor(outcome)
	if m.journal != nil {
		if err := m.journal.Append(entry); err != nil {
			log.Printf("journal tick: %v", err)
		}
	}

	if outcome.Approved && m.shutdown != nil {
		if err := m.shutdown(); err != nil {
			return entry, err
		}
	}
	return entry, nil
}

// EntryFor converts a decision outcome into a journal entry.
func EntryFor(outcome engine.Outcome) journal.Entry {
	entry := journal.Entry{
		Timestamp: time.Now().UTC(),
		Approved:  outcome.Approved,
	}
	if outcome.SSHVetoed {
		entry.Verdict = "ssh-open"
		return entry
	}
	entry.Verdict = outcome.Verdict.String()
	sample := outcome.Sample
	entry.Sample = &sample
	return entry
}

func (m *Monitor) run() {
	defer close(m.doneCh)

	if _, err := m.RunOnce(); err != nil {
		log.Printf("initial tick failed: %v", err)
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := m.RunOnce(); err != nil {
				log.Printf("tick failed: %v", err)
			}
		case <-m.stopCh:
			return
		}
	}
}
