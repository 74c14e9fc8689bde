// Package gesture implements the hold-to-arm slider as an explicit finite
// state machine. Raw drag positions and the countdown timer are the only
// inputs; the machine decides when a touch becomes a deliberate activation.
package gesture

import (
	"context"
	"sync"
	"time"

	"github.com/safehold-app/safehold/internal/logging"
)

// State is the machine's position in the activation cycle.
type State int

const (
	// StateIdle: thumb at rest, no timer running.
	StateIdle State = iota
	// StateDragging: finger down, thumb position tracked continuously.
	StateDragging
	// StateArming: thumb past the travel threshold, hold countdown running.
	StateArming
	// StateArmed: countdown completed. Terminal until an external Reset.
	StateArmed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateArming:
		return "arming"
	case StateArmed:
		return "armed"
	}
	return "unknown"
}

const (
	// ArmThreshold is the fraction of the track the thumb must cross before
	// the countdown starts.
	ArmThreshold = 0.9

	// HoldDuration is how long the thumb must stay past the threshold.
	HoldDuration = 3 * time.Second
)

// Machine interprets drag input into idle/dragging/arming/armed transitions.
//
// Every entry into arming starts the countdown from zero; partial progress
// from earlier attempts is never accumulated. The countdown is validated
// against the wall clock when the timer fires, so a process that was
// suspended mid-countdown falls back to dragging instead of silently
// arming.
type Machine struct {
	clock   Clock
	log     logging.Logger
	onArmed func()
	onState func(State)

	mu          sync.Mutex
	state       State
	disabled    bool
	progress    float64
	armingStart time.Time
	armingSeq   uint64
	timer       Timer

	notifyMu    sync.Mutex
	notifyQueue []State
	notifying   bool
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock substitutes the wall clock, for tests.
func WithClock(c Clock) Option { return func(m *Machine) { m.clock = c } }

// WithOnArmed sets the hook invoked exactly once per armed transition. This
// is where haptic feedback and the activation orchestrator hang off.
func WithOnArmed(f func()) Option { return func(m *Machine) { m.onArmed = f } }

// WithOnStateChange sets a hook invoked after every state transition.
func WithOnStateChange(f func(State)) Option { return func(m *Machine) { m.onState = f } }

// NewMachine returns a machine in StateIdle.
func NewMachine(log logging.Logger, opts ...Option) *Machine {
	m := &Machine{
		clock: NewRealClock(),
		log:   log,
		state: StateIdle,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Begin starts a drag. It reports whether the gesture was accepted: a
// disabled machine, an armed machine, or a drag already in progress all
// ignore the touch.
func (m *Machine) Begin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disabled || m.state != StateIdle {
		return false
	}
	m.setStateLocked(StateDragging)
	return true
}

// Move reports the thumb position as a fraction of the available travel
// distance. Values outside [0,1] are clamped. Input is ignored unless the
// machine is dragging or arming.
func (m *Machine) Move(fraction float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}

	switch m.state {
	case StateDragging:
		m.progress = fraction
		if fraction >= ArmThreshold {
			m.startArmingLocked()
		}
	case StateArming:
		m.progress = fraction
		if fraction < ArmThreshold {
			// Retracted below the threshold: the countdown is cancelled
			// outright. Re-crossing starts a fresh window.
			m.cancelCountdownLocked()
			m.setStateLocked(StateDragging)
		}
	default:
	}
}

// Release ends the gesture. A drag that never armed snaps back to idle; an
// arming countdown keeps running, and an armed machine stays armed.
func (m *Machine) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateDragging {
		m.progress = 0
		m.setStateLocked(StateIdle)
	}
}

// SetDisabled toggles the external disabled flag. Disabling forces an
// immediate reset to idle, discarding any in-flight countdown.
func (m *Machine) SetDisabled(disabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.disabled = disabled
	if disabled && m.state != StateIdle {
		m.cancelCountdownLocked()
		m.progress = 0
		m.setStateLocked(StateIdle)
	}
}

// Reset returns the machine to idle from any state. Deactivation uses this
// to make the slider usable for the next cycle.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelCountdownLocked()
	m.progress = 0
	if m.state != StateIdle {
		m.setStateLocked(StateIdle)
	}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Progress returns the current thumb position as a fraction of travel.
func (m *Machine) Progress() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.progress
}

// HoldRemaining returns how much of the countdown is left, or zero when no
// countdown is running.
func (m *Machine) HoldRemaining() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateArming {
		return 0
	}
	remaining := HoldDuration - m.clock.Now().Sub(m.armingStart)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (m *Machine) startArmingLocked() {
	m.armingStart = m.clock.Now()
	m.armingSeq++
	seq := m.armingSeq
	m.timer = m.clock.AfterFunc(HoldDuration, func() { m.holdElapsed(seq) })
	m.setStateLocked(StateArming)
}

func (m *Machine) cancelCountdownLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.armingSeq++
}

// holdElapsed runs when the countdown timer fires. seq guards against timers
// from abandoned countdowns: a stale timer finds its sequence outdated and
// does nothing.
func (m *Machine) holdElapsed(seq uint64) {
	m.mu.Lock()

	if seq != m.armingSeq || m.state != StateArming || m.disabled {
		m.mu.Unlock()
		return
	}

	if m.clock.Now().Sub(m.armingStart) < HoldDuration {
		// The timer fired but wall-clock time says the hold is not over,
		// e.g. the process was suspended. Treat as cancelled, never armed.
		m.log.Warn(context.Background(), "hold countdown fired short, falling back to dragging")
		m.cancelCountdownLocked()
		m.setStateLocked(StateDragging)
		m.mu.Unlock()
		return
	}

	m.timer = nil
	m.progress = 1
	m.setStateLocked(StateArmed)
	armed := m.onArmed
	m.mu.Unlock()

	if armed != nil {
		armed()
	}
}

// setStateLocked performs the transition and schedules the state-change
// notification.
func (m *Machine) setStateLocked(next State) {
	if m.state == next {
		return
	}
	m.state = next
	m.enqueueNotify(next)
}

// enqueueNotify appends the transition to a queue drained by a single
// goroutine, so observers see transitions in the order they happened while
// still being free to call back into the machine without deadlocking.
func (m *Machine) enqueueNotify(next State) {
	if m.onState == nil {
		return
	}

	m.notifyMu.Lock()
	m.notifyQueue = append(m.notifyQueue, next)
	if m.notifying {
		m.notifyMu.Unlock()
		return
	}
	m.notifying = true
	m.notifyMu.Unlock()

	go m.drainNotifications()
}

func (m *Machine) drainNotifications() {
	for {
		m.notifyMu.Lock()
		if len(m.notifyQueue) == 0 {
			m.notifying = false
			m.notifyMu.Unlock()
			return
		}
		next := m.notifyQueue[0]
		m.notifyQueue = m.notifyQueue[1:]
		m.notifyMu.Unlock()

		m.onState(next)
	}
}
