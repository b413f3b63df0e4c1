package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEngineConfig_SetDefaults(t *testing.T) {
	t.Parallel()

	var cfg EngineConfig
	cfg.SetDefaults()

	if len(cfg.Matcher.MatcherOrder) != 4 {
		t.Errorf("MatcherOrder = %v, want 4 entries", cfg.Matcher.MatcherOrder)
	}
	if cfg.Audit.Output != "stdout" {
		t.Errorf("Audit.Output = %q, want %q", cfg.Audit.Output, "stdout")
	}
	if cfg.Cache.Size != 1024 {
		t.Errorf("Cache.Size = %d, want 1024", cfg.Cache.Size)
	}
	if cfg.Delegation.MaxDurationDays != 90 {
		t.Errorf("Delegation.MaxDurationDays = %d, want 90", cfg.Delegation.MaxDurationDays)
	}
	if cfg.Server.LogLevel != "info" {
		t.Errorf("Server.LogLevel = %q, want %q", cfg.Server.LogLevel, "info")
	}
}

func TestEngineConfig_SetDefaults_RateLimitEnabled(t *testing.T) {
	t.Parallel()

	var cfg EngineConfig
	cfg.RateLimit.Enabled = true
	cfg.SetDefaults()

	if cfg.RateLimit.SubjectRate != 1000 {
		t.Errorf("SubjectRate = %d, want 1000", cfg.RateLimit.SubjectRate)
	}
	if cfg.RateLimit.CleanupInterval != "5m" {
		t.Errorf("CleanupInterval = %q, want %q", cfg.RateLimit.CleanupInterval, "5m")
	}
	if cfg.RateLimit.MaxTTL != "1h" {
		t.Errorf("MaxTTL = %q, want %q", cfg.RateLimit.MaxTTL, "1h")
	}
}

func TestEngineConfig_SetDefaults_RateLimitDisabledLeavesSubDefaultsUnset(t *testing.T) {
	t.Parallel()

	var cfg EngineConfig
	cfg.SetDefaults()

	if cfg.RateLimit.SubjectRate != 0 {
		t.Errorf("SubjectRate = %d, want 0 when rate limiting disabled", cfg.RateLimit.SubjectRate)
	}
}

func TestEngineConfig_SetDefaults_PreservesExistingValues(t *testing.T) {
	t.Parallel()

	cfg := EngineConfig{
		Matcher: MatcherConfig{MatcherOrder: []string{"rbac"}},
		Audit:   AuditConfig{Output: "file:///var/log/custom.log"},
		Cache:   CacheConfig{Size: 64},
	}
	cfg.SetDefaults()

	if len(cfg.Matcher.MatcherOrder) != 1 || cfg.Matcher.MatcherOrder[0] != "rbac" {
		t.Errorf("MatcherOrder was overwritten: got %v", cfg.Matcher.MatcherOrder)
	}
	if cfg.Audit.Output != "file:///var/log/custom.log" {
		t.Errorf("Audit.Output was overwritten: got %q", cfg.Audit.Output)
	}
	if cfg.Cache.Size != 64 {
		t.Errorf("Cache.Size was overwritten: got %d, want 64", cfg.Cache.Size)
	}
}

func TestEngineConfig_SetDevDefaults_AppliesOnlyWhenDevModeSet(t *testing.T) {
	t.Parallel()

	cfg := EngineConfig{}
	cfg.SetDefaults()
	cfg.SetDevDefaults()
	if cfg.Server.LogLevel != "info" {
		t.Errorf("expected dev defaults to be a no-op without DevMode, got %q", cfg.Server.LogLevel)
	}

	cfg2 := EngineConfig{DevMode: true}
	cfg2.SetDefaults()
	cfg2.SetDevDefaults()
	if cfg2.Server.LogLevel != "debug" {
		t.Errorf("expected dev mode to relax log level to debug, got %q", cfg2.Server.LogLevel)
	}
}

func TestFindConfigFileInPaths_EmptyDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	got := findConfigFileInPaths([]string{dir})
	if got != "" {
		t.Errorf("findConfigFileInPaths(empty dir) = %q, want empty", got)
	}
}

func TestFindConfigFileInPaths_MatchesYAML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "authzcore.yaml")
	_ = os.WriteFile(cfgPath, []byte("matcher:\n  matcher_order: [acl]\n"), 0644)

	got := findConfigFileInPaths([]string{dir})
	if got != cfgPath {
		t.Errorf("findConfigFileInPaths = %q, want %q", got, cfgPath)
	}
}

func TestFindConfigFileInPaths_MatchesYML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "authzcore.yml")
	_ = os.WriteFile(cfgPath, []byte("matcher:\n  matcher_order: [acl]\n"), 0644)

	got := findConfigFileInPaths([]string{dir})
	if got != cfgPath {
		t.Errorf("findConfigFileInPaths = %q, want %q", got, cfgPath)
	}
}

func TestFindConfigFileInPaths_IgnoresNoExtension(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	// Simulate the binary: a file named "authzcore" with no extension.
	_ = os.WriteFile(filepath.Join(dir, "authzcore"), []byte("\x7fELF binary"), 0755)

	got := findConfigFileInPaths([]string{dir})
	if got != "" {
		t.Errorf("findConfigFileInPaths matched binary = %q, want empty", got)
	}
}

func TestFindConfigFileInPaths_PrefersYAMLOverYML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "authzcore.yaml")
	ymlPath := filepath.Join(dir, "authzcore.yml")
	_ = os.WriteFile(yamlPath, []byte("matcher:\n  matcher_order: [acl]\n"), 0644)
	_ = os.WriteFile(ymlPath, []byte("matcher:\n  matcher_order: [rbac]\n"), 0644)

	got := findConfigFileInPaths([]string{dir})
	if got != yamlPath {
		t.Errorf("findConfigFileInPaths = %q, want %q (.yaml preferred)", got, yamlPath)
	}
}
