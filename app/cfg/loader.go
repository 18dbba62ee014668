package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

const (
	FeedSourceProxy  = "proxy"
	FeedSourceDirect = "direct"
)

type rawCfg struct {
	// Feed configuration
	FeedURL      string        `long:"feed-url" env:"FEED_URL" default:"https://anchor.fm/s/bc46e210/podcast/rss" description:"Podcast RSS feed URL"`
	FeedSource   string        `long:"feed-source" env:"FEED_SOURCE" default:"proxy" choice:"proxy" choice:"direct" description:"Fetch the feed through the RSS-to-JSON proxy or directly"`
	ProxyURL     string        `long:"proxy-url" env:"PROXY_URL" default:"https://api.rss2json.com/v1/api.json" description:"RSS-to-JSON conversion endpoint"`
	ProxyAPIKey  string        `long:"proxy-api-key" env:"PROXY_API_KEY" description:"API key for the conversion endpoint (optional)"`
	FetchTimeout time.Duration `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"0s" description:"Deadline for a single feed fetch, 0 disables it"`
	FetchRate    float64       `long:"fetch-rate" env:"FETCH_RATE" default:"5" description:"Maximum outbound feed fetches per second, 0 disables the limit"`

	// Signup configuration
	SignupURL           string        `long:"signup-url" env:"SIGNUP_URL" description:"Newsletter signup embed URL (optional)"`
	SignupProbeInterval time.Duration `long:"signup-probe-interval" env:"SIGNUP_PROBE_INTERVAL" default:"5m" description:"How often the signup embed is probed"`

	// History configuration
	DBPath        string        `long:"db-path" env:"DB_PATH" default:"./data/thinkers-table.db" description:"SQLite database path for page-load history"`
	LoadRetention time.Duration `long:"load-retention" env:"LOAD_RETENTION" default:"720h" description:"How long page-load history is kept"`

	// Application configuration
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl           string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://thinkerstable.example.com)"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"60" description:"Scheduler interval in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Thinkers Table/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for episode dates (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	cfg, err := parse(os.Args[1:])
	if err != nil || cfg == nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func parse(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validate(&raw); err != nil {
		return nil, err
	}

	return &Cfg{
		FeedURL:             raw.FeedURL,
		FeedSource:          raw.FeedSource,
		ProxyURL:            raw.ProxyURL,
		ProxyAPIKey:         raw.ProxyAPIKey,
		FetchTimeout:        raw.FetchTimeout,
		FetchRate:           raw.FetchRate,
		SignupURL:           raw.SignupURL,
		SignupProbeInterval: raw.SignupProbeInterval,
		DBPath:              raw.DBPath,
		LoadRetention:       raw.LoadRetention,
		Port:                raw.Port,
		BaseUrl:             raw.BaseUrl,
		WorkerCount:         raw.WorkerCount,
		SchedulerInterval:   raw.SchedulerInterval,
		APIAccessKey:        raw.APIAccessKey,
		UserAgent:           raw.UserAgent,
		Timezone:            raw.Timezone,
		Debug:               raw.Debug,
		Version:             GetVersion(),
	}, nil
}

func validate(raw *rawCfg) error {
	if raw.FeedURL == "" {
		return fmt.Errorf("feed URL must not be empty")
	}
	if raw.FetchTimeout < 0 {
		return fmt.Errorf("fetch timeout must not be negative: %s", raw.FetchTimeout)
	}
	if raw.FetchRate < 0 {
		return fmt.Errorf("fetch rate must not be negative: %v", raw.FetchRate)
	}
	if raw.WorkerCount < 1 {
		return fmt.Errorf("worker count must be at least 1: %d", raw.WorkerCount)
	}
	if raw.SchedulerInterval < 1 {
		return fmt.Errorf("scheduler interval must be at least 1 second: %d", raw.SchedulerInterval)
	}
	if raw.SignupProbeInterval <= 0 {
		return fmt.Errorf("signup probe interval must be positive: %s", raw.SignupProbeInterval)
	}
	if raw.LoadRetention <= 0 {
		return fmt.Errorf("load retention must be positive: %s", raw.LoadRetention)
	}
	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
