package config

import (
	"flag"
	"os"
	"time"

	"github.com/safehold-app/safehold/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the intake endpoint (default from Config)
//	-d string   data directory for the vault and keystore
//	-t int      intake submission timeout in seconds
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.IntakeBaseURL, "a", cfg.IntakeBaseURL, "base URL of the intake endpoint")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory for vault and keystore")
	intakeTimeout := fs.Int("t", int(cfg.IntakeTimeout.Seconds()), "intake timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.IntakeTimeout = time.Duration(*intakeTimeout) * time.Second
}
