package config

type Config struct {
	AppEnv             string  `json:"app_env"`
	ServerPort         int     `json:"server_port"`
	JWTSecretKey       string  `json:"jwt_secret_key"`
	JWTExpirationHours int     `json:"jwt_expiration_hours"`
	GlobalRateLimit    int     `json:"global_rate_limit"`
	SentryDSN          string  `json:"-"`
	SentrySampleRate   float64 `json:"sentry_sample_rate"`
}

func Load() (*Config, error) {
	return &Config{
		AppEnv:             getEnvWithDefault("APP_ENV", "development"),
		ServerPort:         getEnvIntWithDefault("SERVER_PORT", 10000),
		JWTSecretKey:       getEnvWithDefault("JWT_SECRET_KEY", ""),
		JWTExpirationHours: getEnvIntWithDefault("JWT_EXPIRATION_HOURS", 24),
		GlobalRateLimit:    getEnvIntWithDefault("GLOBAL_RATE_LIMIT", 10000), // per IP per minute
		SentryDSN:          getEnvWithDefault("SENTRY_DSN", ""),
		SentrySampleRate:   getEnvFloatWithDefault("SENTRY_SAMPLE_RATE", 1.0),
	}, nil
}
