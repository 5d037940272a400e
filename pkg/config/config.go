package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Pagination bounds for entry listings.
	DefaultPageSize int
	MaxPageSize     int

	// LazyAccountCreation lets a posting auto-register unknown accounts
	// when the entry carries an account_type. Off by default.
	LazyAccountCreation bool

	// Cash flow classification inputs.
	CashAccountNames  []string
	CashflowRulesPath string

	// RateLimit uses the limiter format, e.g. "300-M" for 300 per minute.
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("DEFAULT_PAGE_SIZE", 50)
	viper.SetDefault("MAX_PAGE_SIZE", 100)
	viper.SetDefault("LAZY_ACCOUNT_CREATION", false)
	viper.SetDefault("CASH_ACCOUNT_NAMES", "Cash_and_Bank")
	viper.SetDefault("CASHFLOW_RULES_PATH", "")
	viper.SetDefault("RATE_LIMIT", "300-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.DefaultPageSize = viper.GetInt("DEFAULT_PAGE_SIZE")
	cfg.MaxPageSize = viper.GetInt("MAX_PAGE_SIZE")
	if cfg.DefaultPageSize < 1 || cfg.MaxPageSize < cfg.DefaultPageSize {
		log.Printf("Warning: Invalid page size bounds (default %d, max %d). Using 50/100.\n", cfg.DefaultPageSize, cfg.MaxPageSize)
		cfg.DefaultPageSize = 50
		cfg.MaxPageSize = 100
	}

	cfg.LazyAccountCreation = viper.GetBool("LAZY_ACCOUNT_CREATION")

	for _, name := range strings.Split(viper.GetString("CASH_ACCOUNT_NAMES"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			cfg.CashAccountNames = append(cfg.CashAccountNames, name)
		}
	}
	if len(cfg.CashAccountNames) == 0 {
		log.Println("Warning: CASH_ACCOUNT_NAMES resolved empty. Defaulting to Cash_and_Bank.")
		cfg.CashAccountNames = []string{"Cash_and_Bank"}
	}

	cfg.CashflowRulesPath = viper.GetString("CASHFLOW_RULES_PATH")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
