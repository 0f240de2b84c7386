package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	CounterModeAtomic = "atomic"
	CounterModeRecord = "record"

	SeatSourceRecord = "record"
	SeatSourceUsers  = "users"
)

// RouteModule maps a path prefix to the module that owns it.
type RouteModule struct {
	Prefix string `mapstructure:"prefix"`
	Module string `mapstructure:"module"`
}

// GuardConfig is the admission policy. It is loaded once at startup and never mutated.
type GuardConfig struct {
	SkipPrefixes     []string      `mapstructure:"skip_prefixes"`
	Routes           []RouteModule `mapstructure:"routes"`
	Timezone         string        `mapstructure:"timezone"`
	CounterMode      string        `mapstructure:"counter_mode"`
	SerializeTenants bool          `mapstructure:"serialize_tenants"`
	CountAPICalls    bool          `mapstructure:"count_api_calls"`
	AuditAdmits      bool          `mapstructure:"audit_admits"`
	AuditBuffer      int           `mapstructure:"audit_buffer"`
	AuditWorkers     int           `mapstructure:"audit_workers"`
	NotFoundTTL      time.Duration `mapstructure:"not_found_ttl"`
	SeatSource       string        `mapstructure:"seat_source"`
}

// LoadGuardConfig reads the optional YAML file named by GUARD_CONFIG_FILE,
// then applies GUARD_* environment overrides (e.g. GUARD_TIMEZONE=IST).
func LoadGuardConfig() (*GuardConfig, error) {
	v := viper.New()
	setGuardDefaults(v)

	v.SetEnvPrefix("GUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read guard config %s: %w", file, err)
		}
	}

	var cfg GuardConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode guard config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setGuardDefaults(v *viper.Viper) {
	v.SetDefault("config_file", "")
	v.SetDefault("skip_prefixes", []string{"/api/v1/auth", "/health", "/public"})
	v.SetDefault("routes", []RouteModule{})
	v.SetDefault("timezone", "UTC")
	v.SetDefault("counter_mode", CounterModeAtomic)
	v.SetDefault("serialize_tenants", false)
	v.SetDefault("count_api_calls", true)
	v.SetDefault("audit_admits", false)
	v.SetDefault("audit_buffer", 1024)
	v.SetDefault("audit_workers", 2)
	v.SetDefault("not_found_ttl", 30*time.Second)
	v.SetDefault("seat_source", SeatSourceRecord)
}

func (c *GuardConfig) Validate() error {
	switch c.CounterMode {
	case CounterModeAtomic, CounterModeRecord:
	default:
		return fmt.Errorf("invalid guard counter_mode %q", c.CounterMode)
	}
	switch c.SeatSource {
	case SeatSourceRecord, SeatSourceUsers:
	default:
		return fmt.Errorf("invalid guard seat_source %q", c.SeatSource)
	}
	if c.AuditBuffer <= 0 {
		c.AuditBuffer = 1024
	}
	if c.AuditWorkers <= 0 {
		c.AuditWorkers = 1
	}
	for _, r := range c.Routes {
		if r.Prefix == "" || r.Module == "" {
			return fmt.Errorf("guard route entries need prefix and module, got %+v", r)
		}
	}
	return nil
}
