package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Version is set at build time via -ldflags
var Version = "dev"

const (
	appDirName          = "news"
	defaultTTLMinutes   = 30
	defaultLimit        = 3
	defaultFetchTimeout = 30
)

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

// Env abstracts the lookups needed to compute default paths.
type Env struct {
	Getenv        func(string) string
	UserHomeDir   func() (string, error)
	UserConfigDir func() (string, error)
}

func OSEnv() Env {
	return Env{
		Getenv:        os.Getenv,
		UserHomeDir:   os.UserHomeDir,
		UserConfigDir: os.UserConfigDir,
	}
}

// Load merges parsed options with the YAML file and built-in defaults.
func Load(opts Options, env Env) (*Cfg, error) {
	file, err := loadFile(opts.ConfigFile, env)
	if err != nil {
		return nil, err
	}

	cfg := &Cfg{
		OPMLPath:     cmp.Or(opts.OPMLPath, file.OPMLPath, defaultOPMLPath(env)),
		CacheDir:     cmp.Or(opts.CacheDir, file.CacheDir, defaultCacheDir(env)),
		DefaultLimit: cmp.Or(file.Limit, defaultLimit),
		UserAgent:    cmp.Or(opts.UserAgent, file.UserAgent, "news-cli/"+GetVersion()),
		Timezone:     cmp.Or(opts.Timezone, file.Timezone),
		Debug:        opts.Debug,
		Version:      GetVersion(),
	}

	ttl := cmp.Or(opts.CacheTTLMinutes, file.CacheTTLMinutes, defaultTTLMinutes)
	if ttl <= 0 {
		return nil, errors.New("--cache-ttl-minutes must be a positive integer")
	}
	cfg.CacheTTL = time.Duration(ttl) * time.Minute

	if cfg.DefaultLimit <= 0 {
		return nil, errors.New("limit must be a positive integer")
	}

	timeout := cmp.Or(opts.FetchTimeout, file.FetchTimeout, defaultFetchTimeout)
	if timeout < 0 {
		return nil, errors.New("--fetch-timeout must not be negative")
	}
	cfg.FetchTimeout = time.Duration(timeout) * time.Second

	if cfg.OPMLPath, err = filepath.Abs(cfg.OPMLPath); err != nil {
		return nil, fmt.Errorf("failed to resolve OPML path: %w", err)
	}
	if cfg.CacheDir, err = filepath.Abs(cfg.CacheDir); err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory: %w", err)
	}

	return cfg, nil
}

// ApplyTimezone switches time.Local so date keys follow the configured zone.
func ApplyTimezone(timezone string) error {
	if timezone == "" {
		return nil
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	time.Local = loc
	return nil
}

func loadFile(path string, env Env) (fileCfg, error) {
	var file fileCfg

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile(env)
		if path == "" {
			return file, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return file, nil
		}
		return file, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// Relative paths in the file are relative to the file itself.
	base := filepath.Dir(path)
	if file.OPMLPath != "" && !filepath.IsAbs(file.OPMLPath) {
		file.OPMLPath = filepath.Join(base, file.OPMLPath)
	}
	if file.CacheDir != "" && !filepath.IsAbs(file.CacheDir) {
		file.CacheDir = filepath.Join(base, file.CacheDir)
	}

	return file, nil
}

func configDir(env Env) string {
	dir, err := env.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appDirName)
}

func defaultConfigFile(env Env) string {
	dir := configDir(env)
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yml")
}

func defaultOPMLPath(env Env) string {
	dir := configDir(env)
	if dir == "" {
		return "feeds.opml"
	}
	return filepath.Join(dir, "feeds.opml")
}

func defaultCacheDir(env Env) string {
	if base := env.Getenv("XDG_CACHE_HOME"); base != "" {
		return filepath.Join(base, appDirName)
	}

	home, err := env.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appDirName)
	}
	return filepath.Join(home, ".cache", appDirName)
}
