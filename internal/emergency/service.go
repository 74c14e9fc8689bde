// Package emergency implements the activation orchestrator: the piece that
// turns an armed gesture into a durable local emergency state and a
// best-effort hand-off of the vaulted record to the intake service.
package emergency

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/safehold-app/safehold/internal/intake"
	"github.com/safehold-app/safehold/internal/logging"
	"github.com/safehold-app/safehold/internal/models"
	"github.com/safehold-app/safehold/internal/vault"
	"github.com/sethvargo/go-retry"
)

// Event identifies a feedback moment for the host UI (haptics, banners).
type Event string

const (
	EventActivated   Event = "activated"
	EventDeactivated Event = "deactivated"
)

// Resetter is the part of the gesture machine the orchestrator needs: the
// ability to return the slider to idle on deactivation.
type Resetter interface {
	Reset()
}

const (
	stateWriteAttempts = 5
	stateWriteBackoff  = 100 * time.Millisecond
)

// Service orchestrates activation and deactivation.
//
// Local activation is unconditional: it holds even when no personal record
// was ever staged and when transmission fails. Transmission is fire-and-
// forget on its own goroutine, so deactivation never waits on the network.
type Service struct {
	states   *vault.Store[models.EmergencyState]
	info     *vault.Store[models.PersonalInformation]
	intake   intake.Submitter
	log      logging.Logger
	now      func() time.Time
	feedback func(Event)
	gesture  Resetter

	inflight sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service)

// WithNow substitutes the time source, for tests.
func WithNow(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithFeedback sets the hook fired after activation and deactivation,
// regardless of network outcome.
func WithFeedback(f func(Event)) Option { return func(s *Service) { s.feedback = f } }

// NewService wires the orchestrator over the two vault stores and the intake
// collaborator.
func NewService(states *vault.Store[models.EmergencyState], info *vault.Store[models.PersonalInformation], submitter intake.Submitter, log logging.Logger, opts ...Option) *Service {
	s := &Service{
		states: states,
		info:   info,
		intake: submitter,
		log:    log,
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// AttachGesture registers the gesture machine reset on deactivation.
func (s *Service) AttachGesture(g Resetter) {
	s.gesture = g
}

// Activate runs the activation protocol:
//
//  1. Persist the activated EmergencyState, retrying transparently; it is
//     the only durable evidence the user intended activation.
//  2. Load the personal record. Absence skips transmission without failing
//     the activation.
//  3. Submit the record on a detached goroutine; failure is logged and
//     swallowed, success best-effort flips SentNotifications.
//  4. Fire feedback regardless of outcome.
func (s *Service) Activate(ctx context.Context, emergencyType string) error {
	state := models.NewActivatedState(s.now().UTC(), emergencyType)

	if err := s.saveStateRetrying(ctx, state); err != nil {
		s.log.Error(ctx, "failed to persist activation record", "error", err)
		return fmt.Errorf("persist activation: %w", err)
	}
	s.log.Info(ctx, "emergency mode activated", "type", emergencyType)

	if info := s.info.Load(ctx); info != nil {
		s.inflight.Add(1)
		go s.submit(info)
	} else {
		s.log.Info(ctx, "no personal record staged, skipping transmission")
	}

	s.fireFeedback(EventActivated)
	return nil
}

// Deactivate writes the all-default state back and resets the gesture
// machine. It does not cancel or wait on an in-flight submission.
func (s *Service) Deactivate(ctx context.Context) error {
	if err := s.states.Save(ctx, models.EmergencyState{}); err != nil {
		return fmt.Errorf("persist deactivation: %w", err)
	}
	s.log.Info(ctx, "emergency mode deactivated")

	if s.gesture != nil {
		s.gesture.Reset()
	}
	s.fireFeedback(EventDeactivated)
	return nil
}

// State returns the current emergency state. A missing or unreadable record
// reads as the all-false default, never as an error.
func (s *Service) State(ctx context.Context) models.EmergencyState {
	if st := s.states.Load(ctx); st != nil {
		return *st
	}
	return models.EmergencyState{}
}

// HasRecord reports whether a personal record is staged in the vault.
func (s *Service) HasRecord(ctx context.Context) bool {
	ok, err := s.info.Exists(ctx)
	if err != nil {
		s.log.Warn(ctx, "cannot check for personal record", "error", err)
		return false
	}
	return ok
}

func (s *Service) saveStateRetrying(ctx context.Context, state models.EmergencyState) error {
	backoff := retry.WithMaxRetries(stateWriteAttempts, retry.NewExponential(stateWriteBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.states.Save(ctx, state); err != nil {
			s.log.Warn(ctx, "activation record write failed, retrying", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

// submit runs detached from the activation call: the UI, and deactivation in
// particular, never block on it. The transport client owns the timeout.
func (s *Service) submit(info *models.PersonalInformation) {
	defer s.inflight.Done()
	ctx := context.Background()

	if err := s.intake.Submit(ctx, info); err != nil {
		s.log.Error(ctx, "emergency record transmission failed, local activation preserved", "error", err)
		return
	}

	// Best-effort bookkeeping; the record may have been deactivated while
	// the submission was in flight.
	if st := s.states.Load(ctx); st != nil && st.Activated {
		st.SentNotifications = true
		if err := s.states.Save(ctx, *st); err != nil {
			s.log.Warn(ctx, "cannot record notification status", "error", err)
		}
	}
}

func (s *Service) fireFeedback(e Event) {
	if s.feedback != nil {
		s.feedback(e)
	}
}

// waitInflight blocks until pending submissions finish. Tests use it to
// observe the detached goroutine deterministically.
func (s *Service) waitInflight() {
	s.inflight.Wait()
}
