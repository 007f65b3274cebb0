package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.APIPort)
	assert.Equal(t, "https://api.getgems.io/graphql", cfg.GetgemsURL)
	assert.Equal(t, "https://tonapi.io/v2", cfg.TonAPIURL)
	assert.Equal(t, 15*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 10*time.Second, cfg.BalanceTimeout)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 2*time.Second, cfg.SimulationDelay)
	assert.Equal(t, 0.8, cfg.SimulationSuccessRate)
	assert.False(t, cfg.UsePostgres())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("API_PORT", "8080")
	t.Setenv("PROVIDER_TIMEOUT", "12")
	t.Setenv("CACHE_TTL", "1m")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("SIMULATION_SUCCESS_RATE", "1")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.APIPort)
	assert.Equal(t, 12*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.True(t, cfg.UsePostgres())
	assert.Equal(t, 1.0, cfg.SimulationSuccessRate)
}

func TestLoadConfigLeavesValidationToCaller(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "")
	t.Setenv("COLLECTION_ADDRESS", "nope")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "nope", cfg.CollectionAddress)
	assert.Error(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			APIPort:               3001,
			GetgemsURL:            "https://api.getgems.io/graphql",
			GetgemsOrigin:         "https://getgems.io",
			TonAPIURL:             "https://tonapi.io/v2",
			ToncenterURL:          "https://toncenter.com/api/v2",
			CollectionAddress:     "EQCMryyDgKwd0d-ZS1UxWpP-1y-bjPnPD7KCrFhGDAKuOJnZ",
			ProviderTimeout:       15 * time.Second,
			BalanceTimeout:        10 * time.Second,
			ProviderRateLimit:     10,
			ProviderRateBurst:     5,
			CacheTTL:              30 * time.Second,
			SimulationSuccessRate: 0.8,
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "bad port", mutate: func(c *Config) { c.APIPort = 0 }},
		{name: "bad collection", mutate: func(c *Config) { c.CollectionAddress = "nope" }},
		{name: "relative url", mutate: func(c *Config) { c.TonAPIURL = "/v2" }},
		{name: "timeout too small", mutate: func(c *Config) { c.ProviderTimeout = 100 * time.Millisecond }},
		{name: "timeout too large", mutate: func(c *Config) { c.ProviderTimeout = 2 * time.Minute }},
		{name: "zero rate", mutate: func(c *Config) { c.ProviderRateLimit = 0 }},
		{name: "zero ttl", mutate: func(c *Config) { c.CacheTTL = 0 }},
		{name: "success rate above one", mutate: func(c *Config) { c.SimulationSuccessRate = 1.5 }},
		{name: "bot without webapp", mutate: func(c *Config) { c.TelegramBotToken = "token" }},
		{name: "postgres without db", mutate: func(c *Config) { c.PostgresHost = "db" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
