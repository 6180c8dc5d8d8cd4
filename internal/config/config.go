package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"CodeSentinel/internal/detector"
)

// Config holds all application configuration.
type Config struct {
	Scan struct {
		Paths     []string `yaml:"paths"`
		Exclude   []string `yaml:"exclude"`
		SkipTests bool     `yaml:"skip_tests"`
	} `yaml:"scan"`
	Detectors struct {
		Enabled []string `yaml:"enabled"`
	} `yaml:"detectors"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Watch struct {
		Cron string `yaml:"cron"`
	} `yaml:"watch"`
	Report struct {
		Format string `yaml:"format"`
	} `yaml:"report"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SENTINEL_PATHS"); v != "" {
		cfg.Scan.Paths = splitList(v)
	}
	if v := os.Getenv("SENTINEL_EXCLUDE"); v != "" {
		cfg.Scan.Exclude = splitList(v)
	}
	if v := os.Getenv("SENTINEL_SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SENTINEL_CRON"); v != "" {
		cfg.Watch.Cron = v
	}
	if v := os.Getenv("SENTINEL_FORMAT"); v != "" {
		cfg.Report.Format = v
	}

	// Defaults
	if len(cfg.Scan.Paths) == 0 {
		cfg.Scan.Paths = []string{"."}
	}
	if cfg.Watch.Cron == "" {
		cfg.Watch.Cron = "0 0 * * * *"
	}
	if cfg.Report.Format == "" {
		cfg.Report.Format = "text"
	}

	return cfg, nil
}

// Validate checks that all fields hold acceptable values.
func (c *Config) Validate() error {
	switch c.Report.Format {
	case "text", "json":
	default:
		return fmt.Errorf("report.format must be text or json, got %q", c.Report.Format)
	}
	if _, err := detector.Enabled(c.Detectors.Enabled); err != nil {
		return fmt.Errorf("detectors.enabled: %w (known: %s)", err, strings.Join(detector.Names(), ", "))
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
