package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		initErr = load(filepath.Clean("./config/settings.yaml"))
	})

	return initErr
}

func load(configPath string) error {
	setDefaults()

	viper.SetEnvPrefix("AUDIONOTE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigFile(configPath)
	if err := viper.ReadInConfig(); err != nil {
		// A missing file means defaults and env vars only
		if !os.IsNotExist(err) {
			return fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
	}

	if err := validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Watch reloads the config file on change and hands the new values to fn
func Watch(fn func(*Config)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		logrus.WithField("file", e.Name).Info("Configuration file changed")
		if err := validate(); err != nil {
			logrus.WithError(err).Warn("Ignoring invalid configuration change")
			return
		}
		cfg, err := GetConfig()
		if err != nil {
			logrus.WithError(err).Warn("Could not reload configuration")
			return
		}
		fn(cfg)
	})
	viper.WatchConfig()
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// Get returns a config value by key using Viper directly
func Get(key string) any {
	return viper.Get(key)
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// GetStringSlice returns a string slice config value
func GetStringSlice(key string) []string {
	return viper.GetStringSlice(key)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	switch driver := viper.GetString("database.driver"); driver {
	case "sqlite":
		if viper.GetString("database.path") == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	case "mysql":
		if viper.GetString("database.dsn") == "" {
			return fmt.Errorf("database.dsn is required for the mysql driver")
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", driver)
	}

	switch policy := viper.GetString("reminders.notification_policy"); policy {
	case "replace", "keep", "append":
	default:
		return fmt.Errorf("unsupported notification policy: %q", policy)
	}

	// Auto-correct invalid worker count
	if viper.GetInt("reminders.workers") <= 0 {
		viper.Set("reminders.workers", 1)
	}

	if viper.GetDuration("reminders.poll_interval") <= 0 {
		viper.Set("reminders.poll_interval", time.Second)
	}

	if viper.GetDuration("reminders.notification_delay") < 0 {
		viper.Set("reminders.notification_delay", 10*time.Second)
	}

	return validateAPIToken()
}

var tokenPlaceholders = []string{"changeme", "your-api-token", "secret"}

func validateAPIToken() error {
	token := viper.GetString("security.api_token")
	isProduction := viper.GetString("environment") == "production"
	for _, placeholder := range tokenPlaceholders {
		if token != placeholder {
			continue
		}
		if isProduction {
			return fmt.Errorf("invalid API token: cannot use placeholder values in production")
		}
		logrus.Warn("API token is using a placeholder value")
	}
	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Driver != "sqlite" && c.Database.Driver != "mysql" {
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}

	if c.Reminders.Workers <= 0 {
		c.Reminders.Workers = 1
	}

	if c.Reminders.PollInterval <= 0 {
		c.Reminders.PollInterval = time.Second
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)
	viper.SetDefault("server.max_body_bytes", 1048576)

	// Database defaults
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.path", "./data/audionote.db")
	viper.SetDefault("database.dsn", "")
	viper.SetDefault("database.max_connections", 10)
	viper.SetDefault("database.max_idle_connections", 5)
	viper.SetDefault("database.connection_max_lifetime", 30*time.Minute)
	viper.SetDefault("database.verbose", false)

	// Storage defaults
	viper.SetDefault("storage.recordings_dir", "./data/recordings")
	viper.SetDefault("storage.max_orphan_age", 24*time.Hour)
	viper.SetDefault("storage.cleanup_interval", 1*time.Hour)

	// Audio defaults: mono AMR narrowband in a 3GPP container
	viper.SetDefault("audio.ffmpeg_path", "ffmpeg")
	viper.SetDefault("audio.ffprobe_path", "ffprobe")
	viper.SetDefault("audio.ffplay_path", "ffplay")
	viper.SetDefault("audio.input_format", "pulse")
	viper.SetDefault("audio.input_device", "default")
	viper.SetDefault("audio.sample_rate", 8000)
	viper.SetDefault("audio.channels", 1)
	viper.SetDefault("audio.codec", "libopencore_amrnb")
	viper.SetDefault("audio.bitrate", "12.2k")
	viper.SetDefault("audio.extension", ".3gp")
	viper.SetDefault("audio.stop_timeout", 3*time.Second)

	// Reminder defaults
	viper.SetDefault("reminders.notification_delay", 10*time.Second)
	viper.SetDefault("reminders.notification_work_name", "audio-notes-notification")
	viper.SetDefault("reminders.notification_policy", "replace")
	viper.SetDefault("reminders.poll_interval", 1*time.Second)
	viper.SetDefault("reminders.workers", 1)
	viper.SetDefault("reminders.job_retention_days", 7)

	// Notification defaults
	viper.SetDefault("notifications.backends", []string{"tray", "log"})
	viper.SetDefault("notifications.deep_link_scheme", "audionote")
	viper.SetDefault("notifications.desktop_command", "notify-send")
	viper.SetDefault("notifications.redis.addr", "localhost:6379")
	viper.SetDefault("notifications.redis.password", "")
	viper.SetDefault("notifications.redis.db", 0)
	viper.SetDefault("notifications.redis.channel", "audionote:notifications")

	// Rate limiting defaults
	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.requests_per_second", 10.0)
	viper.SetDefault("rate_limiting.burst", 20)

	// Security defaults
	viper.SetDefault("security.enable_cors", true)
	viper.SetDefault("security.cors_origins", []string{"*"})
	viper.SetDefault("security.api_token", "")
	viper.SetDefault("security.jwks_url", "")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
}
