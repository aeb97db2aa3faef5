package retry

import (
	"fmt"
	"time"
)

// State of a retried call.
type State int

const (
	Attempting State = iota
	Waiting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Attempting:
		return "ATTEMPTING"
	case Waiting:
		return "WAITING"
	case Succeeded:
		return "SUCCEEDED"
	case Failed:
		return "FAILED"
	default:
		return fmt.Sprintf("STATE(%d)", int(s))
	}
}

// Transition describes a state change of a Machine.
type Transition struct {
	From    State
	To      State
	Attempt int
	Delay   time.Duration
	Err     error
}

// Machine tracks the progress of a call retried according to a Policy.
// It does not perform the call nor wait, it only decides what comes next, so
// it can be driven by any scheduler.
//
//	Attempting(n) --ok--> Succeeded
//	Attempting(n) --err, n < max--> Waiting(delay) --Resume--> Attempting(n+1)
//	Attempting(n) --err, n == max or permanent--> Failed
type Machine struct {
	policy  Policy
	random  func() float64
	state   State
	attempt int
	delay   time.Duration
	err     error
}

// NewMachine returns a machine in the Attempting(1) state.
func NewMachine(policy Policy, random func() float64) *Machine {
	return &Machine{
		policy:  policy.normalize(),
		random:  random,
		state:   Attempting,
		attempt: 1,
	}
}

func (m *Machine) State() State {
	return m.state
}

// Attempt returns the 1-based number of the current (or last) attempt.
func (m *Machine) Attempt() int {
	return m.attempt
}

// Delay returns how long to wait in the Waiting state.
func (m *Machine) Delay() time.Duration {
	return m.delay
}

// Err returns the final error once in the Failed state.
func (m *Machine) Err() error {
	return m.err
}

// Report feeds the outcome of the current attempt to the machine.
func (m *Machine) Report(err error) Transition {
	if m.state != Attempting {
		panic(fmt.Sprintf("retry: report in state %s", m.state))
	}

	t := Transition{From: m.state, Attempt: m.attempt, Err: err}
	switch {
	case err == nil:
		m.state = Succeeded
	case isPermanent(err):
		m.state = Failed
		m.err = unwrapPermanent(err)
	case m.attempt >= m.policy.MaxAttempts:
		m.state = Failed
		m.err = &MaxRetriesError{Attempts: m.attempt, Last: err}
	default:
		m.state = Waiting
		m.delay = m.policy.Delay(m.attempt-1, m.random)
	}
	t.To = m.state
	t.Delay = m.delay
	if m.state == Failed {
		t.Err = m.err
	}
	return t
}

// Resume moves the machine from Waiting to the next attempt.
func (m *Machine) Resume() Transition {
	if m.state != Waiting {
		panic(fmt.Sprintf("retry: resume in state %s", m.state))
	}

	m.attempt++
	m.state = Attempting
	m.delay = 0
	return Transition{From: Waiting, To: Attempting, Attempt: m.attempt}
}
