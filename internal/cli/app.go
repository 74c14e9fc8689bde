// Package cli is the host surface for the SafeHold core: a small terminal
// app standing in for the device UI. It stages the personal record, drives
// the hold-to-arm slider, and exposes the deactivate control.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/safehold-app/safehold/internal/config"
	"github.com/safehold-app/safehold/internal/emergency"
	"github.com/safehold-app/safehold/internal/filex"
	"github.com/safehold-app/safehold/internal/gesture"
	"github.com/safehold-app/safehold/internal/intake"
	"github.com/safehold-app/safehold/internal/keystore"
	"github.com/safehold-app/safehold/internal/logging"
	"github.com/safehold-app/safehold/internal/models"
	"github.com/safehold-app/safehold/internal/storage"
	"github.com/safehold-app/safehold/internal/vault"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	info    *vault.Store[models.PersonalInformation]
	svc     *emergency.Service
	machine *gesture.Machine
	reader  *bufio.Reader

	// degraded is set once at startup when the keystore cannot produce a
	// key. The vault commands and the slider are switched off for the whole
	// session instead of failing one operation at a time.
	degraded bool
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	log := logging.NewDefault(os.Stderr, c.Debug)

	if err := filex.EnsureDir(c.DataDir); err != nil {
		return nil, err
	}

	db, err := storage.Open(ctx, c.VaultDBPath)
	if err != nil {
		return nil, fmt.Errorf("init device storage: %w", err)
	}

	st := storage.NewSQLite(db)
	keys := keystore.NewFile(c.KeystorePath, []byte(c.UnlockSecret), log)

	// Touch the keystore once so an unusable key surfaces here, at startup,
	// rather than as scattered save failures later in the session.
	degraded := false
	if _, err := keys.Key(ctx); err != nil {
		log.Error(ctx, "keystore unavailable, vault disabled for this session", "error", err)
		degraded = true
	}

	infoStore := vault.NewStore[models.PersonalInformation](vault.KeyPersonalInformation, st, keys, log)
	stateStore := vault.NewStore[models.EmergencyState](vault.KeyEmergencyState, st, keys, log)

	client := intake.NewClient(c.IntakeBaseURL, c.DeviceID, []byte(c.TokenSecret), c.IntakeTimeout, log)

	app := &App{
		config: c,
		log:    log,
		db:     db,
		info:   infoStore,
		reader: bufio.NewReader(os.Stdin),
	}

	app.svc = emergency.NewService(stateStore, infoStore, client, log,
		emergency.WithFeedback(app.feedback))

	app.machine = gesture.NewMachine(log, gesture.WithOnArmed(func() {
		_ = app.svc.Activate(context.Background(), c.EmergencyType)
	}))
	app.svc.AttachGesture(app.machine)

	if degraded {
		app.degraded = true
		app.machine.SetDisabled(true)
		printlnFn("WARNING: secure storage is unavailable on this device; the vault and the emergency slider are disabled.")
	}

	return app, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.statusLine, scanner)
}

func (a *App) statusLine() string {
	if a.degraded {
		return "vault unavailable"
	}
	st := a.svc.State(context.Background())
	if st.Activated {
		return "EMERGENCY ACTIVE"
	}
	if a.svc.HasRecord(context.Background()) {
		return "ready"
	}
	return "no record"
}

// feedback is the terminal stand-in for haptic/visual confirmation.
func (a *App) feedback(e emergency.Event) {
	switch e {
	case emergency.EventActivated:
		printlnFn("*** EMERGENCY MODE ACTIVE — type 'deactivate' to turn it off ***")
	case emergency.EventDeactivated:
		printlnFn("Emergency mode deactivated.")
	}
}
