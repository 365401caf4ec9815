package config

import (
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const sentryFlushTimeout = 2 * time.Second

// Sentry holds CLI flags for error reporting
type Sentry struct {
	DSN string `masq:"secret"`
	env string
}

// Flags returns CLI flags for Sentry configuration
func (s *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN. Errors are reported only when set",
			Sources:     cli.EnvVars("TRIO_SENTRY_DSN"),
			Destination: &s.DSN,
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment",
			Sources:     cli.EnvVars("TRIO_SENTRY_ENV"),
			Destination: &s.env,
		},
	}
}

// Enabled reports whether a DSN is configured
func (s *Sentry) Enabled() bool {
	return s.DSN != ""
}

// LogValue implements slog.LogValuer
func (s *Sentry) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("enabled", s.Enabled()),
		slog.String("env", s.env),
	)
}

// Configure initializes the Sentry client. Without a DSN it does nothing.
// The returned function flushes pending events.
func (s *Sentry) Configure(release string) (func(), error) {
	if !s.Enabled() {
		return func() {}, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         s.DSN,
		Environment: s.env,
		Release:     release,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to initialize sentry")
	}

	return func() {
		sentry.Flush(sentryFlushTimeout)
	}, nil
}
