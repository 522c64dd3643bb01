package connection

import (
	"fmt"
	"time"
)

// State is the connection classification shown to the user.
type State string

const (
	Online   State = "online"
	Offline  State = "offline"
	Stale    State = "stale"
	Retrying State = "retrying"
)

// ParseState accepts online or offline, the two valid initial states.
func ParseState(s string) (State, error) {
	switch State(s) {
	case Online, Offline:
		return State(s), nil
	case "":
		return Offline, nil
	default:
		return "", fmt.Errorf("invalid initial state %q", s)
	}
}

// Outcome is the result of one fetch cycle.
type Outcome int

const (
	// OutcomeLive is a successful fetch served by the live device.
	OutcomeLive Outcome = iota
	// OutcomeCached is a successful fetch the backend served from its cache.
	OutcomeCached
	// OutcomeFailed covers transport, application and exhaustion failures.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLive:
		return "live"
	case OutcomeCached:
		return "cached"
	default:
		return "failed"
	}
}

// Config tunes the machine.
type Config struct {
	StaleAfter time.Duration
	Initial    State
}

// Transition describes the effect of one input.
type Transition struct {
	From        State
	To          State
	Reconnected bool
}

// Changed reports whether the authoritative state moved.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// Machine holds the authoritative connection state. It is not safe for
// concurrent use; the sync loop owns it.
type Machine struct {
	cfg        Config
	current    State
	previous   State
	lastUpdate time.Time
	pending    bool
	dismissed  bool
	retryIndex int
	retryTotal int
}

// New returns a machine in cfg.Initial (offline when unset) with no outcome
// observed yet.
func New(cfg Config) *Machine {
	if cfg.Initial != Online {
		cfg.Initial = Offline
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 30 * time.Second
	}
	return &Machine{
		cfg:      cfg,
		current:  cfg.Initial,
		previous: cfg.Initial,
		pending:  true,
	}
}

// Current returns the authoritative state. It is never Retrying.
func (m *Machine) Current() State { return m.current }

// Previous returns the state before the last transition.
func (m *Machine) Previous() State { return m.previous }

// LastUpdate returns the elapsed-time origin, zero until the first outcome.
func (m *Machine) LastUpdate() time.Time { return m.lastUpdate }

// Pending reports whether no fetch outcome has been observed yet.
func (m *Machine) Pending() bool { return m.pending }

// Dismissed reports whether the user hid the banner.
func (m *Machine) Dismissed() bool { return m.dismissed }

// Observe applies a fetch outcome at now and clears any retry overlay.
func (m *Machine) Observe(outcome Outcome, now time.Time) Transition {
	m.EndRetry()

	next := Offline
	switch outcome {
	case OutcomeLive:
		next = Online
		m.lastUpdate = now
	case OutcomeCached:
		m.lastUpdate = now
	default:
		if m.lastUpdate.IsZero() {
			m.lastUpdate = now
		}
	}

	t := Transition{From: m.current, To: next}
	if next == Online && (m.current == Offline || m.current == Stale) {
		if !m.pending {
			t.Reconnected = true
		}
		m.dismissed = false
	}
	m.pending = false
	m.move(next)
	return t
}

// Evaluate moves to Stale when the last update is older than the staleness
// threshold. Offline is left alone, and nothing happens while a fetch is in
// flight or before the first outcome.
func (m *Machine) Evaluate(now time.Time, inFlight bool) Transition {
	t := Transition{From: m.current, To: m.current}
	if inFlight || m.current == Offline || m.lastUpdate.IsZero() {
		return t
	}
	if now.Sub(m.lastUpdate) > m.cfg.StaleAfter {
		t.To = Stale
		m.move(Stale)
	}
	return t
}

// BeginRetry overlays the retrying display for attempt k of total.
func (m *Machine) BeginRetry(attempt, total int) {
	m.retryIndex = attempt
	m.retryTotal = total
}

// EndRetry removes the retrying overlay.
func (m *Machine) EndRetry() {
	m.retryIndex = 0
	m.retryTotal = 0
}

// Dismiss hides the banner until the next reconnect.
func (m *Machine) Dismiss() {
	m.dismissed = true
}

func (m *Machine) move(next State) {
	if next == m.current {
		return
	}
	m.previous = m.current
	m.current = next
}
