package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "Asia/Seoul"
	configPathEnv   = "CONF_ALERT_CONFIG"
	timezoneEnv     = "CONF_ALERT_TIMEZONE"
	webhookURLEnv   = "SLACK_WEBHOOK_URL"
	slackTimeoutEnv = "SLACK_TIMEOUT_SECONDS"
	fetchTimeoutEnv = "FETCH_TIMEOUT_SECONDS"
	logLevelEnv     = "CONF_ALERT_LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Fetch         FetchConfig        `yaml:"fetch"`
	Notifications NotificationConfig `yaml:"notifications"`
	Sources       []SourceConfig     `yaml:"sources"`
	Targets       []TargetConfig     `yaml:"targets"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SchedulerConfig defines when the pipeline should run.
type SchedulerConfig struct {
	Enabled        bool           `yaml:"enabled"`
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location. It
// never returns nil.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	return defaultLocation()
}

// defaultLocation loads the default timezone, falling back to UTC on hosts
// without a tz database.
func defaultLocation() *time.Location {
	loc, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// FetchConfig bounds upstream source fetches.
type FetchConfig struct {
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
	UserAgent      string `yaml:"userAgent"`
}

// Timeout converts the configured seconds into a duration.
func (f FetchConfig) Timeout() time.Duration {
	if f.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Slack SlackConfig `yaml:"slack"`
}

// SlackConfig wires all data required to deliver digests.
type SlackConfig struct {
	WebhookURL     string `yaml:"webhookUrl"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
	FailOnError    bool   `yaml:"failOnError"`
}

// Timeout converts the configured seconds into a duration.
func (s SlackConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// SourceConfig describes a single upstream feed with its adapter strategy.
type SourceConfig struct {
	Name    string            `yaml:"name"`
	Adapter string            `yaml:"adapter"`
	URL     string            `yaml:"url"`
	Options map[string]string `yaml:"options"`
}

// TargetConfig maps one category onto the aliases that identify it.
type TargetConfig struct {
	Category string   `yaml:"category"`
	Aliases  []string `yaml:"aliases"`
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
	cfg.bindTimezone()

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}
	if len(cfg.Targets) == 0 {
		cfg.Targets = defaultConfig().Targets
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(webhookURLEnv); v != "" {
		c.Notifications.Slack.WebhookURL = v
	}

	if v := os.Getenv(slackTimeoutEnv); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			c.Notifications.Slack.TimeoutSeconds = seconds
		}
	}

	if v := os.Getenv(fetchTimeoutEnv); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			c.Fetch.TimeoutSeconds = seconds
		}
	}

	if v := os.Getenv(timezoneEnv); v != "" {
		c.Scheduler.Timezone = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc = defaultLocation()
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Scheduler.Enabled {
		base.Scheduler.Enabled = true
	}
	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Fetch.TimeoutSeconds > 0 {
		base.Fetch.TimeoutSeconds = override.Fetch.TimeoutSeconds
	}
	if override.Fetch.UserAgent != "" {
		base.Fetch.UserAgent = override.Fetch.UserAgent
	}

	if override.Notifications.Slack.WebhookURL != "" {
		base.Notifications.Slack.WebhookURL = override.Notifications.Slack.WebhookURL
	}
	if override.Notifications.Slack.TimeoutSeconds > 0 {
		base.Notifications.Slack.TimeoutSeconds = override.Notifications.Slack.TimeoutSeconds
	}
	if override.Notifications.Slack.FailOnError {
		base.Notifications.Slack.FailOnError = true
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}
	if len(override.Targets) > 0 {
		base.Targets = override.Targets
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Scheduler: SchedulerConfig{
			Enabled:        false,
			CronExpression: "0 9 * * *",
			Timezone:       defaultTimezone,
			location:       defaultLocation(),
		},
		Fetch: FetchConfig{TimeoutSeconds: 15, UserAgent: "Mozilla/5.0"},
		Notifications: NotificationConfig{
			Slack: SlackConfig{WebhookURL: "", TimeoutSeconds: 10, FailOnError: false},
		},
		Sources: []SourceConfig{
			{
				Name:    "ccfddl",
				Adapter: "ccfddl",
				URL:     "https://ccfddl.github.io/conference/allconf.yml",
			},
			{
				Name:    "deadline-feed",
				Adapter: "deadline-json",
				URL:     "https://deadlines.example.org/conferences.json",
			},
			{
				Name:    "wikicfp",
				Adapter: "wikicfp",
				URL:     "http://www.wikicfp.com/cfp/servlet/tool.search",
			},
		},
		Targets: []TargetConfig{
			{Category: "AI/Vision", Aliases: []string{"CVPR", "ECCV", "ICCV", "AAAI", "ICML", "ICLR", "NeurIPS"}},
			{Category: "Security", Aliases: []string{"S&P", "CCS", "USENIX Security", "NDSS", "Eurocrypt", "ESORICS", "DSN", "Black Hat"}},
			{Category: "Network", Aliases: []string{"SIGMETRICS", "INFOCOM", "SIGCOMM"}},
			{Category: "Data", Aliases: []string{"ICDM", "IEEE BigData", "VLDB", "SIGMOD"}},
			{Category: "System", Aliases: []string{"OSDI", "SOSP", "EuroSys", "USENIX ATC"}},
			{Category: "Software", Aliases: []string{"ICSE", "FSE", "ASE", "ISSTA"}},
		},
	}
}
