// Package config provides configuration loading for authzcore.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// InitViper initializes Viper with the configuration file and environment
// variables. If configFile is empty, it searches for authzcore.yaml/.yml in
// standard locations. The search requires an explicit YAML extension to
// avoid matching the binary itself, which Viper's built-in SetConfigName
// would match (same base name, no extension).
func InitViper(configFile string) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else if found := findConfigFile(); found != "" {
		viper.SetConfigFile(found)
	} else {
		// No config file found in any standard location.
		// Set name/type without search paths so ReadInConfig returns
		// ConfigFileNotFoundError (handled gracefully by callers).
		viper.SetConfigName("authzcore")
		viper.SetConfigType("yaml")
	}

	// Environment variable support: AUTHZCORE_CACHE_SIZE
	viper.SetEnvPrefix("AUTHZCORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	bindNestedEnvKeys()
}

// findConfigFile searches standard locations for an authzcore config file
// with an explicit YAML extension (.yaml or .yml). This prevents Viper from
// matching the binary "authzcore" (no extension) in the current directory.
func findConfigFile() string {
	home, _ := os.UserHomeDir()
	paths := []string{
		".",
		filepath.Join(home, ".authzcore"),
	}
	if runtime.GOOS == "windows" {
		if pd := os.Getenv("ProgramData"); pd != "" {
			paths = append(paths, filepath.Join(pd, "authzcore"))
		}
	} else {
		paths = append(paths, "/etc/authzcore")
	}
	return findConfigFileInPaths(paths)
}

// findConfigFileInPaths searches the given directories for authzcore.yaml
// or .yml. Returns the full path of the first match, or empty string if
// none found.
func findConfigFileInPaths(paths []string) string {
	for _, dir := range paths {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, "authzcore"+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// bindNestedEnvKeys binds config keys for environment variable support.
func bindNestedEnvKeys() {
	_ = viper.BindEnv("server.log_level")

	// matcher_order is an array, complex to override via env; use config file.

	_ = viper.BindEnv("cache.size")

	_ = viper.BindEnv("delegation.enabled")
	_ = viper.BindEnv("delegation.max_duration_days")
	_ = viper.BindEnv("delegation.sweep_interval_minutes")
	_ = viper.BindEnv("delegation.retention_hours")

	_ = viper.BindEnv("rate_limit.enabled")
	_ = viper.BindEnv("rate_limit.subject_rate")
	_ = viper.BindEnv("rate_limit.cleanup_interval")
	_ = viper.BindEnv("rate_limit.max_ttl")

	_ = viper.BindEnv("audit.output")

	_ = viper.BindEnv("dev_mode")
}

// LoadConfig reads the configuration file, applies environment overrides,
// sets defaults, applies dev defaults, validates, and returns the
// EngineConfig. Use LoadConfigRaw when CLI flags (e.g. --dev) must be
// applied before dev defaults and validation.
func LoadConfig() (*EngineConfig, error) {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - continue with env vars only.
	}

	var cfg EngineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.SetDefaults()
	cfg.SetDevDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigRaw reads the configuration file and applies defaults, but does
// NOT apply dev defaults or validate. Use this when CLI flags may override
// DevMode before validation.
func LoadConfigRaw() (*EngineConfig, error) {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg EngineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.SetDefaults()
	return &cfg, nil
}

// ConfigFileUsed returns the path to the configuration file that was
// loaded. Returns an empty string if no config file was found (env vars
// only mode).
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}
