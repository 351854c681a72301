package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents application configuration
type Config struct {
	Vault    VaultConfig    `mapstructure:"vault"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Log      LogConfig      `mapstructure:"log"`
}

// VaultConfig locates the vault root and its collections
type VaultConfig struct {
	Root       string `mapstructure:"root"`
	UnitsDir   string `mapstructure:"units_dir"`
	ClassesDir string `mapstructure:"classes_dir"`
	PlansDir   string `mapstructure:"plans_dir"`
}

// CalendarConfig locates the calendar source documents
type CalendarConfig struct {
	HolidaysDoc  string `mapstructure:"holidays_doc"`
	SchedulesDoc string `mapstructure:"schedules_doc"`
	CacheTTL     string `mapstructure:"cache_ttl"`
}

// LogConfig controls log output
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.unit-planner")
		v.AddConfigPath("/etc/unit-planner")
	}

	v.SetDefault("vault.units_dir", "units")
	v.SetDefault("vault.classes_dir", "classes")
	v.SetDefault("vault.plans_dir", "plans")
	v.SetDefault("calendar.holidays_doc", "calendars/holidays.md")
	v.SetDefault("calendar.schedules_doc", "calendars/special-schedules.md")
	v.SetDefault("calendar.cache_ttl", "5m")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Vault.Root == "" {
		return fmt.Errorf("vault.root is required")
	}
	if c.Vault.UnitsDir == "" {
		return fmt.Errorf("vault.units_dir is required")
	}
	if c.Vault.ClassesDir == "" {
		return fmt.Errorf("vault.classes_dir is required")
	}
	if c.Vault.PlansDir == "" {
		return fmt.Errorf("vault.plans_dir is required")
	}
	if c.Calendar.HolidaysDoc == "" {
		return fmt.Errorf("calendar.holidays_doc is required")
	}
	if c.Calendar.SchedulesDoc == "" {
		return fmt.Errorf("calendar.schedules_doc is required")
	}
	return nil
}

// GetCacheTTL returns the calendar cache freshness window
func (c *CalendarConfig) GetCacheTTL() time.Duration {
	if c.CacheTTL == "" {
		return 5 * time.Minute
	}
	duration, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 5 * time.Minute
	}
	return duration
}
