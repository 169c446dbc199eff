package cfg

import "time"

type Cfg struct {
	OPMLPath     string
	CacheDir     string
	CacheTTL     time.Duration
	DefaultLimit int

	UserAgent    string
	FetchTimeout time.Duration
	Timezone     string
	Debug        bool
	Version      string
}

// Options are the global command-line options; each can also come from the
// environment. Zero values fall back to the YAML file, then to defaults.
type Options struct {
	OPMLPath        string `long:"opml" env:"NEWSCLI_OPML_PATH" value-name:"path" description:"Override OPML feed file path"`
	CacheDir        string `long:"cache-dir" env:"NEWSCLI_CACHE_DIR" value-name:"path" description:"Override cache directory"`
	CacheTTLMinutes int    `long:"cache-ttl-minutes" env:"NEWSCLI_CACHE_TTL_MINUTES" value-name:"minutes" description:"Cache freshness window in minutes (default: 30)"`
	ConfigFile      string `long:"config" env:"NEWSCLI_CONFIG" value-name:"path" description:"YAML configuration file"`
	UserAgent       string `long:"user-agent" env:"NEWSCLI_USER_AGENT" description:"User agent string for feed requests"`
	FetchTimeout    int    `long:"fetch-timeout" env:"NEWSCLI_FETCH_TIMEOUT" value-name:"seconds" description:"Per-feed HTTP timeout in seconds (default: 30)"`
	Timezone        string `long:"timezone" env:"NEWSCLI_TIMEZONE" description:"Timezone used for calendar dates (e.g. Asia/Tokyo)"`
	Debug           bool   `long:"debug" env:"NEWSCLI_DEBUG" description:"Enable debug logging"`
	Version         bool   `long:"version" description:"Print version and exit"`
}

// fileCfg is the layout of the optional YAML configuration file.
type fileCfg struct {
	OPMLPath        string `yaml:"opml"`
	CacheDir        string `yaml:"cache_dir"`
	CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`
	Limit           int    `yaml:"limit"`
	UserAgent       string `yaml:"user_agent"`
	FetchTimeout    int    `yaml:"fetch_timeout"`
	Timezone        string `yaml:"timezone"`
}
