package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/nutriscope/backend/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Cache    CacheConfig     `mapstructure:"cache"`
	Fetch    FetchConfig     `mapstructure:"fetch"`
	Report   ReportConfig    `mapstructure:"report"`
	Datasets []DatasetConfig `mapstructure:"datasets"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CacheConfig holds dataset-cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// FetchConfig holds reference-table fetch configuration
type FetchConfig struct {
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	Burst         int           `mapstructure:"burst"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// ReportConfig holds report-generation configuration
type ReportConfig struct {
	EnableDebugLogging bool    `mapstructure:"enable_debug_logging"`
	SuggestionFloor    float64 `mapstructure:"suggestion_floor"`
}

// DatasetConfig describes one reference table in the catalog
type DatasetConfig struct {
	Name     string `mapstructure:"name"`
	URL      string `mapstructure:"url"`
	Role     string `mapstructure:"role"`
	Optional bool   `mapstructure:"optional"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/nutriscope/")

	// Environment variable settings
	v.SetEnvPrefix("NUTRISCOPE")
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// The dataset catalog is a nested list, which viper defaults don't
	// reach; fall back to the built-in catalog when the file declares none.
	if len(config.Datasets) == 0 {
		config.Datasets = DefaultCatalog()
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Cache defaults
	v.SetDefault("cache.ttl", "1h")

	// Fetch defaults - reference tables are small static CSVs
	v.SetDefault("fetch.rate_per_second", 2.0)
	v.SetDefault("fetch.burst", 5)
	v.SetDefault("fetch.timeout", "30s")

	// Report defaults
	v.SetDefault("report.enable_debug_logging", false)
	v.SetDefault("report.suggestion_floor", 0.55)
}

// DefaultCatalog returns the built-in reference-table catalog used when the
// config file declares no datasets. Only the macro table is required; the
// cross-reference tables degrade to empty when unavailable.
func DefaultCatalog() []DatasetConfig {
	return []DatasetConfig{
		{Name: "macros", URL: "https://data.nutriscope.dev/tables/macros.csv", Role: domain.RoleMacro},
		{Name: "benefits", URL: "https://data.nutriscope.dev/tables/benefits.csv", Role: domain.RoleBenefit, Optional: true},
		{Name: "diets", URL: "https://data.nutriscope.dev/tables/diets.csv", Role: domain.RoleDiet, Optional: true},
		{Name: "microbiome", URL: "https://data.nutriscope.dev/tables/microbiome.csv", Role: domain.RoleMicrobiome, Optional: true},
		{Name: "micronutrients", URL: "https://data.nutriscope.dev/tables/micronutrients.csv", Role: domain.RoleMicronutrient, Optional: true},
		{Name: "aliases", URL: "https://data.nutriscope.dev/tables/aliases.csv", Role: domain.RoleAlias, Optional: true},
	}
}

// validRoles are the dataset roles the loader understands
var validRoles = map[string]bool{
	domain.RoleMacro:         true,
	domain.RoleBenefit:       true,
	domain.RoleDiet:          true,
	domain.RoleMicrobiome:    true,
	domain.RoleMicronutrient: true,
	domain.RoleAlias:         true,
}

// validate validates the configuration
func validate(config *Config) error {
	hasMacro := false
	seen := make(map[string]bool, len(config.Datasets))
	for _, ds := range config.Datasets {
		if ds.Name == "" {
			return fmt.Errorf("dataset with URL %q has no name", ds.URL)
		}
		if seen[ds.Name] {
			return fmt.Errorf("duplicate dataset name %q", ds.Name)
		}
		seen[ds.Name] = true
		if ds.URL == "" {
			return fmt.Errorf("dataset %q has no URL", ds.Name)
		}
		if !validRoles[ds.Role] {
			return fmt.Errorf("dataset %q has unknown role %q", ds.Name, ds.Role)
		}
		if ds.Role == domain.RoleMacro {
			hasMacro = true
		}
	}
	if !hasMacro {
		return fmt.Errorf("catalog must declare a macro dataset")
	}

	if config.Fetch.RatePerSecond <= 0 {
		return fmt.Errorf("fetch rate_per_second must be positive, got: %v", config.Fetch.RatePerSecond)
	}

	return nil
}
