package cfg

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testEnv(configDir, home string, vars map[string]string) Env {
	return Env{
		Getenv:        func(key string) string { return vars[key] },
		UserHomeDir:   func() (string, error) { return home, nil },
		UserConfigDir: func() (string, error) { return configDir, nil },
	}
}

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestLoadDefaults(t *testing.T) {
	configDir := t.TempDir()
	home := t.TempDir()

	cfg, err := Load(Options{}, testEnv(configDir, home, nil))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.OPMLPath != filepath.Join(configDir, "news", "feeds.opml") {
		t.Errorf("Unexpected OPML path '%s'", cfg.OPMLPath)
	}
	if cfg.CacheDir != filepath.Join(home, ".cache", "news") {
		t.Errorf("Unexpected cache dir '%s'", cfg.CacheDir)
	}
	if cfg.CacheTTL != 30*time.Minute {
		t.Errorf("Expected TTL 30m, got %v", cfg.CacheTTL)
	}
	if cfg.DefaultLimit != 3 {
		t.Errorf("Expected default limit 3, got %d", cfg.DefaultLimit)
	}
	if cfg.FetchTimeout != 30*time.Second {
		t.Errorf("Expected fetch timeout 30s, got %v", cfg.FetchTimeout)
	}
	if !strings.HasPrefix(cfg.UserAgent, "news-cli/") {
		t.Errorf("Unexpected user agent '%s'", cfg.UserAgent)
	}
}

func TestLoadUsesXDGCacheHome(t *testing.T) {
	cacheHome := t.TempDir()

	cfg, err := Load(Options{}, testEnv(t.TempDir(), t.TempDir(), map[string]string{"XDG_CACHE_HOME": cacheHome}))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CacheDir != filepath.Join(cacheHome, "news") {
		t.Errorf("Expected cache dir under XDG_CACHE_HOME, got '%s'", cfg.CacheDir)
	}
}

func TestLoadConfigFileAndPrecedence(t *testing.T) {
	configDir := t.TempDir()
	appDir := filepath.Join(configDir, "news")
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		t.Fatal(err)
	}

	content := `
opml: feeds/world.opml
cache_dir: /var/cache/news
cache_ttl_minutes: 15
limit: 5
user_agent: "File Agent/1.0"
fetch_timeout: 10
`
	if err := os.WriteFile(filepath.Join(appDir, "config.yml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(Options{CacheTTLMinutes: 45, UserAgent: "Flag Agent/2.0"}, testEnv(configDir, t.TempDir(), nil))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.OPMLPath != filepath.Join(appDir, "feeds", "world.opml") {
		t.Errorf("Expected OPML path relative to config file, got '%s'", cfg.OPMLPath)
	}
	if cfg.CacheDir != "/var/cache/news" {
		t.Errorf("Expected cache dir from file, got '%s'", cfg.CacheDir)
	}
	if cfg.CacheTTL != 45*time.Minute {
		t.Errorf("Expected flag TTL to win, got %v", cfg.CacheTTL)
	}
	if cfg.DefaultLimit != 5 {
		t.Errorf("Expected limit 5 from file, got %d", cfg.DefaultLimit)
	}
	if cfg.UserAgent != "Flag Agent/2.0" {
		t.Errorf("Expected flag user agent, got '%s'", cfg.UserAgent)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("Expected fetch timeout 10s, got %v", cfg.FetchTimeout)
	}
}

func TestLoadExplicitConfigFileMustExist(t *testing.T) {
	opts := Options{ConfigFile: filepath.Join(t.TempDir(), "missing.yml")}

	if _, err := Load(opts, testEnv(t.TempDir(), t.TempDir(), nil)); err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}

func TestLoadInvalidConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("limit: [not, a, number]"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(Options{ConfigFile: path}, testEnv(t.TempDir(), t.TempDir(), nil)); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	env := testEnv(t.TempDir(), t.TempDir(), nil)

	if _, err := Load(Options{CacheTTLMinutes: -1}, env); err == nil {
		t.Error("Expected error for negative TTL")
	}
	if _, err := Load(Options{FetchTimeout: -1}, env); err == nil {
		t.Error("Expected error for negative fetch timeout")
	}
}

func TestLoadWithoutConfigDir(t *testing.T) {
	env := Env{
		Getenv:        func(string) string { return "" },
		UserHomeDir:   func() (string, error) { return "", errors.New("no home") },
		UserConfigDir: func() (string, error) { return "", errors.New("no config dir") },
	}

	cfg, err := Load(Options{}, env)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if filepath.Base(cfg.OPMLPath) != "feeds.opml" || !filepath.IsAbs(cfg.OPMLPath) {
		t.Errorf("Expected absolute feeds.opml fallback, got '%s'", cfg.OPMLPath)
	}
}

func TestApplyTimezone(t *testing.T) {
	original := time.Local
	defer func() { time.Local = original }()

	if err := ApplyTimezone("Asia/Tokyo"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if time.Local.String() != "Asia/Tokyo" {
		t.Errorf("Expected Asia/Tokyo, got %s", time.Local.String())
	}

	if err := ApplyTimezone("Not/AZone"); err == nil {
		t.Error("Expected error for unknown timezone")
	}
	if err := ApplyTimezone(""); err != nil {
		t.Errorf("Expected empty timezone to be a no-op, got %v", err)
	}
}
