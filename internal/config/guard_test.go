package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGuardConfig_Defaults(t *testing.T) {
	cfg, err := LoadGuardConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"/api/v1/auth", "/health", "/public"}, cfg.SkipPrefixes)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, CounterModeAtomic, cfg.CounterMode)
	assert.Equal(t, SeatSourceRecord, cfg.SeatSource)
	assert.True(t, cfg.CountAPICalls)
	assert.False(t, cfg.AuditAdmits)
	assert.Equal(t, 30*time.Second, cfg.NotFoundTTL)
	assert.Empty(t, cfg.Routes)
}

func TestLoadGuardConfig_EnvOverrides(t *testing.T) {
	t.Setenv("GUARD_TIMEZONE", "IST")
	t.Setenv("GUARD_COUNTER_MODE", "record")
	t.Setenv("GUARD_SERIALIZE_TENANTS", "true")
	t.Setenv("GUARD_NOT_FOUND_TTL", "5s")

	cfg, err := LoadGuardConfig()
	require.NoError(t, err)

	assert.Equal(t, "IST", cfg.Timezone)
	assert.Equal(t, CounterModeRecord, cfg.CounterMode)
	assert.True(t, cfg.SerializeTenants)
	assert.Equal(t, 5*time.Second, cfg.NotFoundTTL)
}

func TestLoadGuardConfig_File(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "guard.yaml")
	content := `
skip_prefixes: ["/public", "/status"]
timezone: Asia/Kolkata
audit_admits: true
routes:
  - prefix: /api/v1/leads
    module: crm
  - prefix: /api/v1/attendance/reports
    module: reports
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))
	t.Setenv("GUARD_CONFIG_FILE", file)

	cfg, err := LoadGuardConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"/public", "/status"}, cfg.SkipPrefixes)
	assert.Equal(t, "Asia/Kolkata", cfg.Timezone)
	assert.True(t, cfg.AuditAdmits)
	require.Len(t, cfg.Routes, 2)
	assert.Equal(t, RouteModule{Prefix: "/api/v1/attendance/reports", Module: "reports"}, cfg.Routes[1])
}

func TestLoadGuardConfig_InvalidCounterMode(t *testing.T) {
	t.Setenv("GUARD_COUNTER_MODE", "eventual")

	_, err := LoadGuardConfig()
	assert.Error(t, err)
}
