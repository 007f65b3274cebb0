package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/TeaDudePro/AOSNFTTMAtest/pkg/validation"
)

const (
	minProviderTimeout = time.Second
	maxProviderTimeout = time.Minute
)

type Config struct {
	Development bool
	// API configuration
	APIPort    int
	CORSOrigin string

	// Provider configuration
	GetgemsURL        string
	GetgemsOrigin     string
	TonAPIURL         string
	TonAPIKey         string
	ToncenterURL      string
	ToncenterAPIKey   string
	ProviderTimeout   time.Duration
	BalanceTimeout    time.Duration
	ProviderRateLimit float64
	ProviderRateBurst int

	// Marketplace configuration
	CollectionAddress string
	IPFSGateway       string
	PlaceholderImage  string
	CacheTTL          time.Duration

	// Postgres configuration, an empty host keeps purchases in memory
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     int
	PostgresDB       string

	// Purchase simulation configuration
	SimulationDelay       time.Duration
	SimulationSuccessRate float64

	// Telegram bot configuration
	TelegramBotToken string
	WebAppURL        string
}

// UsePostgres reports whether purchases are stored in PostgreSQL.
func (c *Config) UsePostgres() bool {
	return c.PostgresHost != ""
}

// LoadConfig loads the configuration from environment variables.
// It does not validate: callers apply overrides first, then call Validate.
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Development: getEnvAsBool("DEVELOPMENT", false),
		APIPort:     getEnvAsInt("API_PORT", 3001),
		CORSOrigin:  getEnv("CORS_ORIGIN", "http://localhost:3000"),

		GetgemsURL:        getEnv("GETGEMS_URL", "https://api.getgems.io/graphql"),
		GetgemsOrigin:     getEnv("GETGEMS_ORIGIN", "https://getgems.io"),
		TonAPIURL:         getEnv("TONAPI_URL", "https://tonapi.io/v2"),
		TonAPIKey:         getEnv("TONAPI_KEY", ""),
		ToncenterURL:      getEnv("TONCENTER_URL", "https://toncenter.com/api/v2"),
		ToncenterAPIKey:   getEnv("TONCENTER_API_KEY", ""),
		ProviderTimeout:   getEnvAsDuration("PROVIDER_TIMEOUT", 15*time.Second),
		BalanceTimeout:    getEnvAsDuration("BALANCE_TIMEOUT", 10*time.Second),
		ProviderRateLimit: getEnvAsFloat("PROVIDER_RATE_LIMIT", 10),
		ProviderRateBurst: getEnvAsInt("PROVIDER_RATE_BURST", 5),

		CollectionAddress: getEnv("COLLECTION_ADDRESS", "EQCMryyDgKwd0d-ZS1UxWpP-1y-bjPnPD7KCrFhGDAKuOJnZ"),
		IPFSGateway:       getEnv("IPFS_GATEWAY", "ipfs.io"),
		PlaceholderImage:  getEnv("PLACEHOLDER_IMAGE", "https://via.placeholder.com/300"),
		CacheTTL:          getEnvAsDuration("CACHE_TTL", 30*time.Second),

		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresHost:     getEnv("POSTGRES_HOST", ""),
		PostgresPort:     getEnvAsInt("POSTGRES_PORT", 5432),
		PostgresDB:       getEnv("POSTGRES_DB", "marketplace"),

		SimulationDelay:       getEnvAsDuration("SIMULATION_DELAY", 2*time.Second),
		SimulationSuccessRate: getEnvAsFloat("SIMULATION_SUCCESS_RATE", 0.8),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebAppURL:        getEnv("WEBAPP_URL", "http://localhost:3000"),
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are properly set
func (c *Config) Validate() error {
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("API_PORT must be between 1 and 65535, got %d", c.APIPort)
	}

	if err := validation.ValidateAddress(c.CollectionAddress); err != nil {
		return fmt.Errorf("invalid COLLECTION_ADDRESS format: %w", err)
	}

	for name, value := range map[string]string{
		"GETGEMS_URL":    c.GetgemsURL,
		"GETGEMS_ORIGIN": c.GetgemsOrigin,
		"TONAPI_URL":     c.TonAPIURL,
		"TONCENTER_URL":  c.ToncenterURL,
	} {
		if err := validateURL(value); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	if c.ProviderTimeout < minProviderTimeout || c.ProviderTimeout > maxProviderTimeout {
		return fmt.Errorf("PROVIDER_TIMEOUT must be between %s and %s, got %s", minProviderTimeout, maxProviderTimeout, c.ProviderTimeout)
	}

	if c.BalanceTimeout < minProviderTimeout || c.BalanceTimeout > maxProviderTimeout {
		return fmt.Errorf("BALANCE_TIMEOUT must be between %s and %s, got %s", minProviderTimeout, maxProviderTimeout, c.BalanceTimeout)
	}

	if c.ProviderRateLimit <= 0 {
		return fmt.Errorf("PROVIDER_RATE_LIMIT must be positive")
	}

	if c.ProviderRateBurst <= 0 {
		return fmt.Errorf("PROVIDER_RATE_BURST must be positive")
	}

	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}

	if c.SimulationDelay < 0 {
		return fmt.Errorf("SIMULATION_DELAY cannot be negative")
	}

	if c.SimulationSuccessRate < 0 || c.SimulationSuccessRate > 1 {
		return fmt.Errorf("SIMULATION_SUCCESS_RATE must be between 0 and 1, got %v", c.SimulationSuccessRate)
	}

	if c.UsePostgres() && c.PostgresDB == "" {
		return fmt.Errorf("POSTGRES_DB is required")
	}

	if c.TelegramBotToken != "" && c.WebAppURL == "" {
		return fmt.Errorf("WEBAPP_URL is required when TELEGRAM_BOT_TOKEN is set")
	}

	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%q is not an absolute http(s) URL", raw)
	}
	return nil
}

// Helper functions to read environment variables
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsFloat(name string, defaultValue float64) float64 {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
			return value
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("15s") and plain integers as seconds.
func getEnvAsDuration(name string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
		if seconds, err := strconv.Atoi(valueStr); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
