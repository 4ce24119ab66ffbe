// config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DashboardLimits bounds every read-side truncation the dashboard performs.
type DashboardLimits struct {
	AlertsPerGoal      int `yaml:"alerts_per_goal"`
	HistoryPerGoal     int `yaml:"history_per_goal"`
	InsightsPerGoal    int `yaml:"insights_per_goal"`
	MaxAlerts          int `yaml:"max_alerts"`
	MaxInsights        int `yaml:"max_insights"`
	MaxDeadlines       int `yaml:"max_deadlines"`
	MaxTimeline        int `yaml:"max_timeline"`
	DeadlineWindowDays int `yaml:"deadline_window_days"`
}

type Config struct {
	Port           string
	PublicURL      string
	AllowedOrigins []string
	Verbose        bool
	Limits         DashboardLimits
}

// DefaultLimits returns the stock dashboard truncation limits.
func DefaultLimits() DashboardLimits {
	return DashboardLimits{
		AlertsPerGoal:      3,
		HistoryPerGoal:     5,
		InsightsPerGoal:    3,
		MaxAlerts:          10,
		MaxInsights:        10,
		MaxDeadlines:       5,
		MaxTimeline:        20,
		DeadlineWindowDays: 30,
	}
}

// LoadConfig reads configuration from the environment. When OKRDECK_CONFIG
// points at a YAML file, its values override the environment defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		PublicURL:      getEnv("PUBLIC_URL", "http://localhost:8080"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		Verbose:        getEnvBool("VERBOSE", false),
		Limits:         DefaultLimits(),
	}

	if path := os.Getenv("OKRDECK_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

type fileConfig struct {
	Port           string           `yaml:"port"`
	PublicURL      string           `yaml:"public_url"`
	AllowedOrigins []string         `yaml:"allowed_origins"`
	Limits         *DashboardLimits `yaml:"limits"`
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Port != "" {
		c.Port = fc.Port
	}
	if fc.PublicURL != "" {
		c.PublicURL = fc.PublicURL
	}
	if len(fc.AllowedOrigins) > 0 {
		c.AllowedOrigins = fc.AllowedOrigins
	}
	if fc.Limits != nil {
		c.Limits = mergeLimits(c.Limits, *fc.Limits)
	}

	return nil
}

// mergeLimits overrides only the fields the file actually set.
func mergeLimits(base, override DashboardLimits) DashboardLimits {
	if override.AlertsPerGoal > 0 {
		base.AlertsPerGoal = override.AlertsPerGoal
	}
	if override.HistoryPerGoal > 0 {
		base.HistoryPerGoal = override.HistoryPerGoal
	}
	if override.InsightsPerGoal > 0 {
		base.InsightsPerGoal = override.InsightsPerGoal
	}
	if override.MaxAlerts > 0 {
		base.MaxAlerts = override.MaxAlerts
	}
	if override.MaxInsights > 0 {
		base.MaxInsights = override.MaxInsights
	}
	if override.MaxDeadlines > 0 {
		base.MaxDeadlines = override.MaxDeadlines
	}
	if override.MaxTimeline > 0 {
		base.MaxTimeline = override.MaxTimeline
	}
	if override.DeadlineWindowDays > 0 {
		base.DeadlineWindowDays = override.DeadlineWindowDays
	}
	return base
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
