package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	Feed        FeedConfig      `toml:"feed"`
	Calendar    CalendarConfig  `toml:"calendar"`
	Forward     ForwardConfig   `toml:"forward"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"min=1,max=65535"`
	Host string `toml:"host" validate:"required"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"` // "debug", "info", "warn", "error"
	Format string   `toml:"format"`                                      // "json" or "text"
	Output []string `toml:"output"`                                      // "stdout", "file"
}

// SchedulerConfig controls the internal sync schedule and the trigger endpoint
type SchedulerConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // Cron schedule format (standard 5-field)
	Secret   string `toml:"secret"`   // Optional bearer token for /api/sync; empty disables the check
}

// FeedConfig configures the JSON economic-calendar feed adapter
type FeedConfig struct {
	BaseURL        string        `toml:"base_url" validate:"required,url"`
	Currency       string        `toml:"currency" validate:"required"` // Country/currency filter, e.g. "USD"
	WindowDays     int           `toml:"window_days" validate:"min=1"` // Forward window for feed events
	RequestTimeout time.Duration `toml:"request_timeout"`
	RateLimit      int           `toml:"rate_limit"` // Requests per second
}

// CalendarConfig configures the HTML calendar-page adapter
type CalendarConfig struct {
	URL            string        `toml:"url" validate:"required,url"`
	UserAgent      string        `toml:"user_agent"`
	RequestTimeout time.Duration `toml:"request_timeout"`
}

// ForwardConfig configures the synthetic forward-schedule generator
type ForwardConfig struct {
	WeeksAhead int `toml:"weeks_ahead" validate:"min=1,max=52"`
}

// NewDefaultConfig creates a configuration with default values
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in macrocal.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8090,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
		Scheduler: SchedulerConfig{
			Enabled:  true,
			Schedule: "0 * * * *", // Hourly
			Secret:   "",
		},
		Feed: FeedConfig{
			BaseURL:        "https://nfs.faireconomy.media/ff_calendar_thisweek.json",
			Currency:       "USD",
			WindowDays:     7,
			RequestTimeout: 30 * time.Second,
			RateLimit:      5,
		},
		Calendar: CalendarConfig{
			URL:            "https://www.marketwatch.com/economy-politics/calendar",
			UserAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
			RequestTimeout: 30 * time.Second,
		},
		Forward: ForwardConfig{
			WeeksAhead: 4,
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("MACROCAL_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("MACROCAL_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("MACROCAL_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("MACROCAL_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("MACROCAL_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	// Scheduler configuration
	if schedule := os.Getenv("MACROCAL_SCHEDULE"); schedule != "" {
		config.Scheduler.Schedule = schedule
	}
	if enabled := os.Getenv("MACROCAL_SCHEDULER_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Scheduler.Enabled = e
		}
	}
	if secret := os.Getenv("MACROCAL_SYNC_SECRET"); secret != "" {
		config.Scheduler.Secret = secret
	}

	// Feed configuration
	if feedURL := os.Getenv("MACROCAL_FEED_URL"); feedURL != "" {
		config.Feed.BaseURL = feedURL
	}
	if currency := os.Getenv("MACROCAL_FEED_CURRENCY"); currency != "" {
		config.Feed.Currency = currency
	}
	if windowDays := os.Getenv("MACROCAL_FEED_WINDOW_DAYS"); windowDays != "" {
		if d, err := strconv.Atoi(windowDays); err == nil {
			config.Feed.WindowDays = d
		}
	}
	if timeout := os.Getenv("MACROCAL_FEED_TIMEOUT"); timeout != "" {
		if t, err := time.ParseDuration(timeout); err == nil {
			config.Feed.RequestTimeout = t
		}
	}

	// Calendar page configuration
	if calURL := os.Getenv("MACROCAL_CALENDAR_URL"); calURL != "" {
		config.Calendar.URL = calURL
	}
	if userAgent := os.Getenv("MACROCAL_CALENDAR_USER_AGENT"); userAgent != "" {
		config.Calendar.UserAgent = userAgent
	}

	// Forward schedule configuration
	if weeks := os.Getenv("MACROCAL_FORWARD_WEEKS"); weeks != "" {
		if w, err := strconv.Atoi(weeks); err == nil {
			config.Forward.WeeksAhead = w
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate validates the configuration using go-playground/validator tags
// plus the cron schedule expression.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Scheduler.Enabled {
		if _, err := cron.ParseStandard(c.Scheduler.Schedule); err != nil {
			return fmt.Errorf("invalid scheduler cron expression %q: %w", c.Scheduler.Schedule, err)
		}
	}

	return nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
