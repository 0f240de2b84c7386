package config

import (
	"fmt"

	"github.com/getsentry/sentry-go"
)

// InitSentry configures the global Sentry hub. It reports false when no DSN is set.
func (c *Config) InitSentry(release string) (bool, error) {
	if c.SentryDSN == "" {
		return false, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              c.SentryDSN,
		Environment:      c.AppEnv,
		Release:          release,
		EnableTracing:    c.SentrySampleRate > 0,
		TracesSampleRate: c.SentrySampleRate,
		AttachStacktrace: true,
	})
	if err != nil {
		return false, fmt.Errorf("failed to init sentry: %w", err)
	}
	return true, nil
}
