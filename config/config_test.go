package config

import (
	"os"
	"testing"
	"time"

	"github.com/nutriscope/backend/internal/domain"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("NUTRISCOPE_SERVER_PORT")
		os.Unsetenv("NUTRISCOPE_SERVER_ENVIRONMENT")
		os.Unsetenv("NUTRISCOPE_CACHE_TTL")
		os.Unsetenv("NUTRISCOPE_FETCH_RATE_PER_SECOND")
		os.Unsetenv("NUTRISCOPE_FETCH_BURST")
		os.Unsetenv("NUTRISCOPE_REPORT_SUGGESTION_FLOOR")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
		if cfg.Fetch.RatePerSecond != 2.0 {
			t.Errorf("Fetch.RatePerSecond = %v, want 2.0", cfg.Fetch.RatePerSecond)
		}
		if cfg.Fetch.Burst != 5 {
			t.Errorf("Fetch.Burst = %d, want 5", cfg.Fetch.Burst)
		}
		if cfg.Report.SuggestionFloor != 0.55 {
			t.Errorf("Report.SuggestionFloor = %v, want 0.55", cfg.Report.SuggestionFloor)
		}
	})

	t.Run("falls back to the built-in dataset catalog", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if len(cfg.Datasets) == 0 {
			t.Fatal("Datasets is empty, want built-in catalog")
		}

		hasMacro := false
		for _, ds := range cfg.Datasets {
			if ds.Role == domain.RoleMacro {
				hasMacro = true
				if ds.Optional {
					t.Error("macro dataset must be required")
				}
			}
		}
		if !hasMacro {
			t.Error("built-in catalog has no macro dataset")
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("NUTRISCOPE_SERVER_PORT", "9090")
		os.Setenv("NUTRISCOPE_SERVER_ENVIRONMENT", "production")
		os.Setenv("NUTRISCOPE_CACHE_TTL", "24h")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Fetch:    FetchConfig{RatePerSecond: 2},
			Datasets: DefaultCatalog(),
		}
	}

	t.Run("accepts the default catalog", func(t *testing.T) {
		if err := validate(base()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		cfg := base()
		cfg.Datasets = append(cfg.Datasets, DatasetConfig{Name: "extra", URL: "https://x", Role: "telemetry"})
		if err := validate(cfg); err == nil {
			t.Error("validate() = nil, want error for unknown role")
		}
	})

	t.Run("rejects catalog without a macro dataset", func(t *testing.T) {
		cfg := base()
		cfg.Datasets = []DatasetConfig{{Name: "diets", URL: "https://x", Role: domain.RoleDiet}}
		if err := validate(cfg); err == nil {
			t.Error("validate() = nil, want error for missing macro dataset")
		}
	})

	t.Run("rejects duplicate dataset names", func(t *testing.T) {
		cfg := base()
		cfg.Datasets = append(cfg.Datasets, cfg.Datasets[0])
		if err := validate(cfg); err == nil {
			t.Error("validate() = nil, want error for duplicate name")
		}
	})

	t.Run("rejects missing URL", func(t *testing.T) {
		cfg := base()
		cfg.Datasets[0].URL = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() = nil, want error for missing URL")
		}
	})

	t.Run("rejects non-positive fetch rate", func(t *testing.T) {
		cfg := base()
		cfg.Fetch.RatePerSecond = 0
		if err := validate(cfg); err == nil {
			t.Error("validate() = nil, want error for zero rate")
		}
	})
}
