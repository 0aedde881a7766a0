package status

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/matheus3301/bpp/beeper"
	"github.com/matheus3301/bpp/internal/bus"
)

// State is what the last API call told us about Beeper Desktop.
type State string

const (
	Connecting   State = "CONNECTING"
	Ready        State = "READY"
	AuthRequired State = "AUTH_REQUIRED"
	Unreachable  State = "UNREACHABLE"
	Degraded     State = "DEGRADED"
)

// validTransitions defines allowed state transitions. AuthRequired only
// leaves through Connecting, after the token has been replaced.
var validTransitions = map[State][]State{
	Connecting:   {Ready, AuthRequired, Unreachable, Degraded},
	Ready:        {Connecting, AuthRequired, Unreachable, Degraded},
	AuthRequired: {Connecting},
	Unreachable:  {Connecting, Ready, AuthRequired, Degraded},
	Degraded:     {Connecting, Ready, AuthRequired, Unreachable},
}

// Machine tracks and enforces API connectivity state transitions.
type Machine struct {
	mu      sync.RWMutex
	current State
	lastErr error
	bus     *bus.Bus
}

// NewMachine creates a new state machine starting in Connecting state.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{
		current: Connecting,
		bus:     b,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// LastError returns the error that caused the current state, if any.
func (m *Machine) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// Transition attempts to move to a new state. Returns error if transition is invalid.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transitionLocked(to, nil)
}

// Observe feeds the outcome of an API call into the machine and returns the
// resulting state. Errors that say nothing about the API (missing input,
// cancelled context) leave the state alone, as do transitions the table
// forbids.
func (m *Machine) Observe(err error) State {
	to, ok := Classify(err)
	m.mu.Lock()
	defer m.mu.Unlock()
	if !ok {
		return m.current
	}
	if to == m.current {
		m.lastErr = err
		return m.current
	}
	_ = m.transitionLocked(to, err)
	return m.current
}

func (m *Machine) transitionLocked(to State, cause error) error {
	allowed := validTransitions[m.current]
	if !slices.Contains(allowed, to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	m.lastErr = cause
	if m.bus != nil {
		m.bus.Publish(bus.Event{
			Kind:      bus.KindAPIStatusChanged,
			Timestamp: time.Now(),
			Payload: StatusChange{
				From: from,
				To:   to,
				Err:  cause,
			},
		})
	}
	return nil
}

// Classify maps a call outcome to a state. ok is false when err carries no
// information about the API.
func Classify(err error) (state State, ok bool) {
	if err == nil {
		return Ready, true
	}
	var missing *beeper.MissingFieldError
	if errors.As(err, &missing) || errors.Is(err, context.Canceled) {
		return "", false
	}
	var notReachable *beeper.NotReachableError
	if errors.As(err, &notReachable) {
		return Unreachable, true
	}
	if errors.Is(err, beeper.ErrUnauthorized) {
		return AuthRequired, true
	}
	return Degraded, true
}

// StatusChange is the payload for status change events.
type StatusChange struct {
	From State
	To   State
	Err  error
}
