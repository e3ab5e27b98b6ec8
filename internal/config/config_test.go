package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rhai/internal/config"
	"rhai/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("RHAI_SERVER_PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":10000", cfg.Server.Port)
	assert.Equal(t, "deepseek", cfg.Provider.Provider)
	assert.Equal(t, 0.3, cfg.Provider.Temperature)
	assert.Equal(t, 3000, cfg.Provider.MaxTokens)
	assert.Equal(t, 45*time.Second, cfg.Provider.Timeout())
	assert.Equal(t, domain.FallbackPolicyFail, cfg.Relay.FallbackPolicy)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Auth.Enabled())
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Empty(t, cfg.Server.TrustedProxies)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("RHAI_PROVIDER", "Claude")
	t.Setenv("RHAI_PROVIDER_API_KEY", " sk-test ")
	t.Setenv("RHAI_PROVIDER_TIMEOUT_SECS", "30")
	t.Setenv("RHAI_RELAY_FALLBACK_POLICY", "TEMPLATE")
	t.Setenv("RHAI_CORS_ALLOWED_ORIGINS", "https://rh.example.com, http://localhost:3000")
	t.Setenv("RHAI_AUTH_JWT_SECRET", "s3cret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "claude", cfg.Provider.Provider)
	assert.Equal(t, "sk-test", cfg.Provider.APIKey)
	assert.Equal(t, 30*time.Second, cfg.Provider.Timeout())
	assert.Equal(t, domain.FallbackPolicyTemplate, cfg.Relay.FallbackPolicy)
	assert.Equal(t, []string{"https://rh.example.com", "http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Auth.Enabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ProviderSelection(t *testing.T) {
	for _, name := range []string{"deepseek", "openai", "claude", "gemini"} {
		t.Run(name, func(t *testing.T) {
			t.Setenv("RHAI_PROVIDER", name)
			t.Setenv("RHAI_PROVIDER_API_KEY", "sk-test")

			cfg, err := config.Load()
			require.NoError(t, err)

			assert.Equal(t, name, cfg.Provider.Provider)
			assert.Equal(t, "sk-test", cfg.Provider.APIKey)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestLoad_TrustedProxies(t *testing.T) {
	t.Setenv("RHAI_SERVER_TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.10")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.10"}, cfg.Server.TrustedProxies)
}

func TestLoad_PortEnvFallback(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("RHAI_SERVER_PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			Provider: config.ProviderConfig{Provider: "deepseek", APIKey: "sk-test", MaxTokens: 3000, TimeoutSecs: 45},
			Relay:    config.RelayConfig{FallbackPolicy: domain.FallbackPolicyFail},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *config.Config)
		key    string
	}{
		{"missing api key", func(c *config.Config) { c.Provider.APIKey = "" }, "RHAI_PROVIDER_API_KEY"},
		{"unknown provider", func(c *config.Config) { c.Provider.Provider = "mistral" }, "RHAI_PROVIDER"},
		{"unknown policy", func(c *config.Config) { c.Relay.FallbackPolicy = "retry" }, "RHAI_RELAY_FALLBACK_POLICY"},
		{"zero timeout", func(c *config.Config) { c.Provider.TimeoutSecs = 0 }, "RHAI_PROVIDER_TIMEOUT_SECS"},
		{"zero max tokens", func(c *config.Config) { c.Provider.MaxTokens = 0 }, "RHAI_PROVIDER_MAX_TOKENS"},
	}

	assert.NoError(t, valid().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrConfiguration))

			var ce *domain.ConfigurationError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.key, ce.Key)
		})
	}
}
