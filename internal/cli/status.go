package cli

import (
	"context"
	"fmt"
)

// Status shows the only two things the user is ever told: whether emergency
// mode is active, and whether a personal record is staged.
func (a *App) Status(ctx context.Context) error {
	st := a.svc.State(ctx)

	if st.Activated {
		printlnFn("Emergency Mode Active")
		if st.ActivatedAt != nil {
			printlnFn(fmt.Sprintf("  activated at: %s", st.ActivatedAt.Format("2006-01-02 15:04:05 MST")))
		}
		if st.EmergencyType != "" {
			printlnFn(fmt.Sprintf("  type: %s", st.EmergencyType))
		}
		printlnFn("  type 'deactivate' to turn it off")
	} else {
		printlnFn("Emergency mode not active")
	}

	if a.svc.HasRecord(ctx) {
		printlnFn("Personal record: staged")
	} else {
		printlnFn("Personal record: not filled in (use 'info')")
	}
	return nil
}
