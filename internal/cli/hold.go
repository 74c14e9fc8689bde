package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/safehold-app/safehold/internal/gesture"
)

// Hold simulates the press-drag-hold gesture on the terminal: the slider is
// dragged across the full travel and held until the countdown completes.
// Pressing is deliberate here by construction; on a touch screen the same
// machine receives the raw drag positions instead.
func (a *App) Hold(ctx context.Context) error {
	if !a.machine.Begin() {
		if a.machine.State() == gesture.StateArmed {
			printlnFn("Emergency mode is already active. Type 'deactivate' first.")
		} else {
			printlnFn("The slider is not available right now.")
		}
		return nil
	}

	printlnFn("Sliding across...")
	a.machine.Move(1.0)

	for a.machine.State() == gesture.StateArming {
		remaining := a.machine.HoldRemaining()
		printlnFn(fmt.Sprintf("Hold... %.1fs", remaining.Seconds()))

		select {
		case <-ctx.Done():
			a.machine.Release()
			a.machine.Reset()
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}

	a.machine.Release()

	if a.machine.State() != gesture.StateArmed {
		printlnFn("Gesture did not complete, nothing activated.")
	}
	return nil
}

// Deactivate is the host's always-available inverse of activation.
func (a *App) Deactivate(ctx context.Context) error {
	st := a.svc.State(ctx)
	if !st.Activated {
		printlnFn("Emergency mode is not active.")
		// The slider may still be mid-cycle, reset it anyway.
		a.machine.Reset()
		return nil
	}

	if err := a.svc.Deactivate(ctx); err != nil {
		a.log.Error(ctx, "deactivation failed", "error", err)
		printlnFn("Could not deactivate, please try again.")
		return err
	}
	return nil
}
