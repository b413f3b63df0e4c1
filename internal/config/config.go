// Package config loads and validates the engine's runtime configuration.
package config

import (
	"github.com/sentrypolicy/authzcore/internal/domain/matcher"
)

// EngineConfig is the top-level configuration for an authzcore engine
// process (the authzctl CLI and any embedding service read this shape).
type EngineConfig struct {
	Server     ServerConfig     `mapstructure:"server"`
	Matcher    MatcherConfig    `mapstructure:"matcher"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Delegation DelegationConfig `mapstructure:"delegation"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Audit      AuditConfig      `mapstructure:"audit"`
	DevMode    bool             `mapstructure:"dev_mode"`
}

// ServerConfig controls process-level logging and runtime knobs.
type ServerConfig struct {
	LogLevel string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// MatcherConfig selects and orders the matcher strategies the engine's
// evaluator chain tries. MatcherOrder lists which of acl/rbac/abac/restful
// is active and in what fallback order; the first entry is primary.
type MatcherConfig struct {
	MatcherOrder []string `mapstructure:"matcher_order" validate:"required,min=1,matcher_order"`
}

// Strategies resolves MatcherOrder into domain Strategy values, in order.
func (m MatcherConfig) Strategies() []matcher.Strategy {
	out := make([]matcher.Strategy, 0, len(m.MatcherOrder))
	for _, name := range m.MatcherOrder {
		out = append(out, matcher.Strategy(name))
	}
	return out
}

// CacheConfig sizes the engine's decision cache.
type CacheConfig struct {
	Size int `mapstructure:"size" validate:"min=0"`
}

// DelegationConfig bounds how delegation grants may be created.
type DelegationConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	MaxDurationDays   int  `mapstructure:"max_duration_days" validate:"omitempty,min=1"`
	SweepIntervalMins int  `mapstructure:"sweep_interval_minutes" validate:"omitempty,min=1"`
	RetentionHours    int  `mapstructure:"retention_hours" validate:"omitempty,min=1"`
}

// RateLimitConfig throttles evaluation calls per subject, mirroring the
// GCRA-based limiter wired into internal/adapter/outbound/memory.
type RateLimitConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	SubjectRate     int    `mapstructure:"subject_rate" validate:"omitempty,min=1"`
	CleanupInterval string `mapstructure:"cleanup_interval"`
	MaxTTL          string `mapstructure:"max_ttl"`
}

// AuditConfig controls where decision audit records are written.
type AuditConfig struct {
	Output string `mapstructure:"output" validate:"required,audit_output"`
}

// SetDefaults fills in zero-valued fields with the engine's production
// defaults. Existing (non-zero) values are left untouched.
func (c *EngineConfig) SetDefaults() {
	if len(c.Matcher.MatcherOrder) == 0 {
		c.Matcher.MatcherOrder = []string{"acl", "rbac", "abac", "restful"}
	}
	if c.Cache.Size == 0 {
		c.Cache.Size = 1024
	}
	if c.Delegation.MaxDurationDays == 0 {
		c.Delegation.MaxDurationDays = 90
	}
	if c.Delegation.SweepIntervalMins == 0 {
		c.Delegation.SweepIntervalMins = 15
	}
	if c.Delegation.RetentionHours == 0 {
		c.Delegation.RetentionHours = 24
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.SubjectRate == 0 {
			c.RateLimit.SubjectRate = 1000
		}
		if c.RateLimit.CleanupInterval == "" {
			c.RateLimit.CleanupInterval = "5m"
		}
		if c.RateLimit.MaxTTL == "" {
			c.RateLimit.MaxTTL = "1h"
		}
	}
	if c.Audit.Output == "" {
		c.Audit.Output = "stdout"
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
}

// SetDevDefaults relaxes defaults for local development: when DevMode is
// set, a log level that is unset or "info" becomes "debug"; any other log
// level is left as it is.
func (c *EngineConfig) SetDevDefaults() {
	if !c.DevMode {
		return
	}
	if c.Server.LogLevel == "" || c.Server.LogLevel == "info" {
		c.Server.LogLevel = "debug"
	}
}
