package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "PODCAST_POSTER_CONFIG"
	logLevelEnv     = "LOG_LEVEL"
	dryRunEnv       = "DRY_RUN"
	apiKeyEnv       = "X_API_KEY"
	apiSecretEnv    = "X_API_SECRET"
	accessTokenEnv  = "X_ACCESS_TOKEN"
	accessSecretEnv = "X_ACCESS_SECRET"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	State     StateConfig     `yaml:"state"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Post      PostConfig      `yaml:"post"`
	Directory DirectoryConfig `yaml:"directory"`
	X         XConfig         `yaml:"x"`
	Feeds     []FeedConfig    `yaml:"feeds"`
}

// LoggingConfig controls the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// StateConfig selects and locates the publication-state backend.
type StateConfig struct {
	Backend string `yaml:"backend"` // "file" or "sqlite"
	Path    string `yaml:"path"`
}

// SchedulerConfig defines the optional recurring run. An empty cron
// expression means a single-shot run.
type SchedulerConfig struct {
	CronExpression string `yaml:"cronExpression"`
}

// PostConfig carries the composition and eligibility parameters.
type PostConfig struct {
	Limit           int  `yaml:"limit"`           // platform character budget
	URLWidth        int  `yaml:"urlWidth"`        // fixed billed width of any URL
	TitleMaxLen     int  `yaml:"titleMaxLen"`     // raw-title cap before composing
	CheckItems      int  `yaml:"checkItems"`      // entries inspected per feed
	FreshWaitMin    int  `yaml:"freshWaitMin"`    // default minimum entry age
	AllowEnclosures bool `yaml:"allowEnclosures"` // permit direct media links
}

// DirectoryConfig describes the external episode directory service.
type DirectoryConfig struct {
	BaseURL   string `yaml:"baseUrl"`
	Country   string `yaml:"country"`
	PageLimit int    `yaml:"pageLimit"`
}

// XConfig wires submission credentials. Secrets come from env only.
type XConfig struct {
	APIKey       string `yaml:"-"`
	APISecret    string `yaml:"-"`
	AccessToken  string `yaml:"-"`
	AccessSecret string `yaml:"-"`
	DryRun       bool   `yaml:"-"`
}

// FeedConfig describes a single monitored feed.
type FeedConfig struct {
	URL                string `yaml:"url"`
	Template           string `yaml:"template"`
	Kind               string `yaml:"kind"`
	ProgramName        string `yaml:"programName"`
	DirectoryProgramID string `yaml:"directoryProgramId"`
	FreshWaitMin       int    `yaml:"freshWaitMin"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// Credentialed reports whether all four submission secrets are set.
func (c Config) Credentialed() bool {
	return c.X.APIKey != "" && c.X.APISecret != "" &&
		c.X.AccessToken != "" && c.X.AccessSecret != ""
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	c.X.APIKey = os.Getenv(apiKeyEnv)
	c.X.APISecret = os.Getenv(apiSecretEnv)
	c.X.AccessToken = os.Getenv(accessTokenEnv)
	c.X.AccessSecret = os.Getenv(accessSecretEnv)
	c.X.DryRun = os.Getenv(dryRunEnv) == "1"
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.State.Backend != "" {
		base.State.Backend = override.State.Backend
	}
	if override.State.Path != "" {
		base.State.Path = override.State.Path
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}

	if override.Post.Limit > 0 {
		base.Post.Limit = override.Post.Limit
	}
	if override.Post.URLWidth > 0 {
		base.Post.URLWidth = override.Post.URLWidth
	}
	if override.Post.TitleMaxLen > 0 {
		base.Post.TitleMaxLen = override.Post.TitleMaxLen
	}
	if override.Post.CheckItems > 0 {
		base.Post.CheckItems = override.Post.CheckItems
	}
	if override.Post.FreshWaitMin > 0 {
		base.Post.FreshWaitMin = override.Post.FreshWaitMin
	}
	if override.Post.AllowEnclosures {
		base.Post.AllowEnclosures = true
	}

	if override.Directory.BaseURL != "" {
		base.Directory.BaseURL = override.Directory.BaseURL
	}
	if override.Directory.Country != "" {
		base.Directory.Country = override.Directory.Country
	}
	if override.Directory.PageLimit > 0 {
		base.Directory.PageLimit = override.Directory.PageLimit
	}

	if len(override.Feeds) > 0 {
		base.Feeds = override.Feeds
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		State:   StateConfig{Backend: "file", Path: "state_podcast.json"},
		Post: PostConfig{
			Limit:           280,
			URLWidth:        23,
			TitleMaxLen:     200,
			CheckItems:      8,
			FreshWaitMin:    60,
			AllowEnclosures: false,
		},
		Directory: DirectoryConfig{
			BaseURL:   "https://itunes.apple.com",
			Country:   "JP",
			PageLimit: 200,
		},
	}
}
