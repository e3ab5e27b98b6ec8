package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"rhai/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Provider  ProviderConfig
	Relay     RelayConfig
	Log       LogConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Metrics   MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Environment     string        `mapstructure:"environment"`
	// TrustedProxies lists the CIDRs or IPs whose forwarding headers are
	// honoured when resolving the client address. Empty trusts none.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// ProviderConfig holds settings for the upstream generation provider.
type ProviderConfig struct {
	Provider    string  `mapstructure:"provider"`
	APIKey      string  `mapstructure:"api_key"`
	Endpoint    string  `mapstructure:"endpoint"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	TimeoutSecs int     `mapstructure:"timeout_secs"`
}

// Timeout returns the upstream call timeout.
func (p *ProviderConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSecs) * time.Second
}

// RelayConfig holds generation relay behavior.
type RelayConfig struct {
	FallbackPolicy domain.FallbackPolicy `mapstructure:"fallback_policy"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig holds per-client limits for the generation endpoint.
type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	RPS     float64       `mapstructure:"rps"`
	Burst   int           `mapstructure:"burst"`
	Window  time.Duration `mapstructure:"window"`
}

// RedisConfig holds the optional Redis connection used for distributed rate limiting.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig holds optional bearer-token authentication settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// Enabled reports whether requests must carry a signed token.
func (a *AuthConfig) Enabled() bool {
	return a.JWTSecret != ""
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from environment variables with the RHAI_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RHAI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":10000")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.trusted_proxies", "")

	// Provider defaults
	v.SetDefault("generation.provider", "deepseek")
	v.SetDefault("generation.api_key", "")
	v.SetDefault("generation.endpoint", "")
	v.SetDefault("generation.model", "")
	v.SetDefault("generation.temperature", 0.3)
	v.SetDefault("generation.max_tokens", 3000)
	v.SetDefault("generation.timeout_secs", 45)

	v.SetDefault("relay.fallback_policy", string(domain.FallbackPolicyFail))

	v.SetDefault("log.level", "info")

	v.SetDefault("cors.allowed_origins", "*")

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.rps", 0.5)
	v.SetDefault("rate_limit.burst", 5)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "RHAI_SERVER_PORT",
		"server.read_timeout":     "RHAI_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "RHAI_SERVER_WRITE_TIMEOUT",
		"server.shutdown_timeout": "RHAI_SERVER_SHUTDOWN_TIMEOUT",
		"server.environment":      "RHAI_SERVER_ENVIRONMENT",
		"server.trusted_proxies":  "RHAI_SERVER_TRUSTED_PROXIES",
		"generation.provider":     "RHAI_PROVIDER",
		"generation.api_key":      "RHAI_PROVIDER_API_KEY",
		"generation.endpoint":     "RHAI_PROVIDER_ENDPOINT",
		"generation.model":        "RHAI_PROVIDER_MODEL",
		"generation.temperature":  "RHAI_PROVIDER_TEMPERATURE",
		"generation.max_tokens":   "RHAI_PROVIDER_MAX_TOKENS",
		"generation.timeout_secs": "RHAI_PROVIDER_TIMEOUT_SECS",
		"relay.fallback_policy":   "RHAI_RELAY_FALLBACK_POLICY",
		"log.level":               "RHAI_LOG_LEVEL",
		"cors.allowed_origins":    "RHAI_CORS_ALLOWED_ORIGINS",
		"rate_limit.enabled":      "RHAI_RATE_LIMIT_ENABLED",
		"rate_limit.rps":          "RHAI_RATE_LIMIT_RPS",
		"rate_limit.burst":        "RHAI_RATE_LIMIT_BURST",
		"rate_limit.window":       "RHAI_RATE_LIMIT_WINDOW",
		"redis.addr":              "RHAI_REDIS_ADDR",
		"redis.password":          "RHAI_REDIS_PASSWORD",
		"redis.db":                "RHAI_REDIS_DB",
		"auth.jwt_secret":         "RHAI_AUTH_JWT_SECRET",
		"auth.issuer":             "RHAI_AUTH_ISSUER",
		"metrics.enabled":         "RHAI_METRICS_ENABLED",
		"metrics.path":            "RHAI_METRICS_PATH",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Render/Heroku set a PORT env var. Use it if RHAI_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("RHAI_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:            serverPort,
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		Environment:     v.GetString("server.environment"),
		TrustedProxies:  splitList(v.GetString("server.trusted_proxies")),
	}
	cfg.Provider = ProviderConfig{
		Provider:    strings.ToLower(strings.TrimSpace(v.GetString("generation.provider"))),
		APIKey:      strings.TrimSpace(v.GetString("generation.api_key")),
		Endpoint:    v.GetString("generation.endpoint"),
		Model:       v.GetString("generation.model"),
		Temperature: v.GetFloat64("generation.temperature"),
		MaxTokens:   v.GetInt("generation.max_tokens"),
		TimeoutSecs: v.GetInt("generation.timeout_secs"),
	}
	cfg.Relay = RelayConfig{
		FallbackPolicy: domain.FallbackPolicy(strings.ToLower(strings.TrimSpace(v.GetString("relay.fallback_policy")))),
	}
	cfg.Log = LogConfig{
		Level: v.GetString("log.level"),
	}

	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}

	cfg.RateLimit = RateLimitConfig{
		Enabled: v.GetBool("rate_limit.enabled"),
		RPS:     v.GetFloat64("rate_limit.rps"),
		Burst:   v.GetInt("rate_limit.burst"),
		Window:  v.GetDuration("rate_limit.window"),
	}
	cfg.Redis = RedisConfig{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
	cfg.Auth = AuthConfig{
		JWTSecret: v.GetString("auth.jwt_secret"),
		Issuer:    v.GetString("auth.issuer"),
	}
	cfg.Metrics = MetricsConfig{
		Enabled: v.GetBool("metrics.enabled"),
		Path:    v.GetString("metrics.path"),
	}

	return cfg, nil
}

// splitList parses a comma-separated setting, dropping blank entries.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate checks the settings the relay cannot start without.
func (c *Config) Validate() error {
	if c.Provider.APIKey == "" {
		return &domain.ConfigurationError{Key: "RHAI_PROVIDER_API_KEY", Reason: "upstream API key is required"}
	}
	if !KnownProviders[c.Provider.Provider] {
		return &domain.ConfigurationError{Key: "RHAI_PROVIDER", Reason: "unknown provider " + c.Provider.Provider}
	}
	if !domain.ValidFallbackPolicies[c.Relay.FallbackPolicy] {
		return &domain.ConfigurationError{Key: "RHAI_RELAY_FALLBACK_POLICY", Reason: "must be 'fail' or 'template'"}
	}
	if c.Provider.TimeoutSecs <= 0 {
		return &domain.ConfigurationError{Key: "RHAI_PROVIDER_TIMEOUT_SECS", Reason: "must be positive"}
	}
	if c.Provider.MaxTokens <= 0 {
		return &domain.ConfigurationError{Key: "RHAI_PROVIDER_MAX_TOKENS", Reason: "must be positive"}
	}
	return nil
}

// KnownProviders lists the provider names accepted in RHAI_PROVIDER.
var KnownProviders = map[string]bool{
	"deepseek": true,
	"openai":   true,
	"claude":   true,
	"gemini":   true,
}
