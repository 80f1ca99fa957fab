// Package config resolves runtime configuration from the environment.
//
// Every setting has a default matching the production deployment, so the
// Lambda can run with no configuration at all; any value can be overridden
// through environment variables (STATUS_REPORT_BUCKET, STATUS_REPORT_REGION,
// and so on).
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all settings for a single report run.
type Config struct {
	// Region is the AWS region queried for inventory and metrics.
	Region string `mapstructure:"region"`

	// Bucket is the S3 bucket receiving the finished report.
	Bucket string `mapstructure:"bucket"`

	// KeyPrefix is prepended to the timestamped report object key.
	KeyPrefix string `mapstructure:"key_prefix"`

	// AccountName is the display name shown in the report header.
	AccountName string `mapstructure:"account_name"`

	// SheetName is the name of the single worksheet.
	SheetName string `mapstructure:"sheet_name"`

	// LookbackMinutes is the trailing window queried for current values.
	LookbackMinutes int `mapstructure:"lookback_minutes"`

	// Workers bounds the per-instance metric fetch fan-out.
	Workers int `mapstructure:"workers"`

	// DiskPaths lists the Linux mount paths included in the report,
	// comma separated. A path matches by prefix, so "/usr" also covers
	// "/usr/sap".
	DiskPaths string `mapstructure:"disk_paths"`
}

// AllowedDiskPaths returns the Linux disk path filters as a slice.
func (c *Config) AllowedDiskPaths() []string {
	parts := strings.Split(c.DiskPaths, ",")
	paths := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// Load reads configuration from the environment, applying defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("status_report")
	v.SetDefault("region", "ap-south-1")
	v.SetDefault("bucket", "audit-log-sm20-bucket")
	v.SetDefault("key_prefix", "status/Sapphire-PRD")
	v.SetDefault("account_name", "Sapphire-PRD")
	v.SetDefault("sheet_name", "Sapphire-PRD")
	v.SetDefault("lookback_minutes", 10)
	v.SetDefault("workers", 10)
	v.SetDefault("disk_paths", "/,/usr,/hana")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment: %w", err)
	}

	if cfg.Workers < 1 {
		return nil, fmt.Errorf("config: workers must be positive, got %d", cfg.Workers)
	}
	if cfg.LookbackMinutes < 1 {
		return nil, fmt.Errorf("config: lookback_minutes must be positive, got %d", cfg.LookbackMinutes)
	}

	return &cfg, nil
}
