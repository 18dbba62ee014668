package cfg

import (
	"time"
)

type Cfg struct {
	// Feed configuration
	FeedURL      string
	FeedSource   string
	ProxyURL     string
	ProxyAPIKey  string
	FetchTimeout time.Duration
	FetchRate    float64

	// Signup configuration
	SignupURL           string
	SignupProbeInterval time.Duration

	// History configuration
	DBPath        string
	LoadRetention time.Duration

	// Application configuration
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
