package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/openfield/gleaner/pkg/constants"
)

// Config holds the application configuration loaded from config files,
// environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool

	// Config file
	ConfigFile string

	// Harvest configuration
	SourcesFile string
	CatalogBase string
	PageSize    int
	HTTPTimeout time.Duration

	// Harvest object store (PostgreSQL). An empty host selects the
	// in-memory store.
	DatabaseHost     string
	DatabasePort     int
	DatabaseUser     string
	DatabasePassword string
	DatabaseName     string
	DatabaseSSLMode  string

	// Record portal (CKAN action API). An empty URL selects the
	// in-memory repository.
	PortalURL    string
	PortalAPIKey string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.gleaner.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	// Set up Viper for environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Try to read config file if it exists
	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Search for config in standard locations
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(constants.DefaultConfigName)
		}
	}

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	// Build config from viper
	config := &Config{
		// Global flags (may be overridden by cobra flags later)
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),

		// Config file
		ConfigFile: viper.ConfigFileUsed(),

		// Harvest configuration
		SourcesFile: viper.GetString("sources_file"),
		CatalogBase: viper.GetString("catalog_base"),
		PageSize:    viper.GetInt("page_size"),
		HTTPTimeout: viper.GetDuration("http_timeout"),

		// Harvest object store
		DatabaseHost:     viper.GetString("database_host"),
		DatabasePort:     viper.GetInt("database_port"),
		DatabaseUser:     viper.GetString("database_user"),
		DatabasePassword: viper.GetString("database_password"),
		DatabaseName:     viper.GetString("database_name"),
		DatabaseSSLMode:  viper.GetString("database_sslmode"),

		// Record portal
		PortalURL:    viper.GetString("ckan_url"),
		PortalAPIKey: viper.GetString("ckan_api_key"),

		// Logging configuration
		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	// Set defaults
	if config.SourcesFile == "" {
		config.SourcesFile = constants.DefaultSourcesFile
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet bool, sourcesFile, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	if sourcesFile != "" {
		c.SourcesFile = sourcesFile
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	envFiles := []string{
		".env",
		".env.local",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
