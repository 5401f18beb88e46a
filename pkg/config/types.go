package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment   string              `mapstructure:"environment"`
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Audio         AudioConfig         `mapstructure:"audio"`
	Reminders     RemindersConfig     `mapstructure:"reminders"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	RateLimiting  RateLimitConfig     `mapstructure:"rate_limiting"`
	Security      SecurityConfig      `mapstructure:"security"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

// DatabaseConfig contains database settings.
// Driver is "sqlite" (Path is used) or "mysql" (DSN is used).
type DatabaseConfig struct {
	Driver                string        `mapstructure:"driver"`
	Path                  string        `mapstructure:"path"`
	DSN                   string        `mapstructure:"dsn"`
	MaxConnections        int           `mapstructure:"max_connections"`
	MaxIdleConnections    int           `mapstructure:"max_idle_connections"`
	ConnectionMaxLifetime time.Duration `mapstructure:"connection_max_lifetime"`
	Verbose               bool          `mapstructure:"verbose"`
}

// StorageConfig contains recording storage settings
type StorageConfig struct {
	RecordingsDir   string        `mapstructure:"recordings_dir"`
	MaxOrphanAge    time.Duration `mapstructure:"max_orphan_age"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// AudioConfig contains capture and playback settings
type AudioConfig struct {
	FFmpegPath  string        `mapstructure:"ffmpeg_path"`
	FFprobePath string        `mapstructure:"ffprobe_path"`
	FFplayPath  string        `mapstructure:"ffplay_path"`
	InputFormat string        `mapstructure:"input_format"`
	InputDevice string        `mapstructure:"input_device"`
	SampleRate  int           `mapstructure:"sample_rate"`
	Channels    int           `mapstructure:"channels"`
	Codec       string        `mapstructure:"codec"`
	Bitrate     string        `mapstructure:"bitrate"`
	Extension   string        `mapstructure:"extension"`
	StopTimeout time.Duration `mapstructure:"stop_timeout"`
}

// RemindersConfig contains alarm and notification job settings
type RemindersConfig struct {
	NotificationDelay    time.Duration `mapstructure:"notification_delay"`
	NotificationWorkName string        `mapstructure:"notification_work_name"`
	NotificationPolicy   string        `mapstructure:"notification_policy"`
	PollInterval         time.Duration `mapstructure:"poll_interval"`
	Workers              int           `mapstructure:"workers"`
	JobRetentionDays     int           `mapstructure:"job_retention_days"`
}

// NotificationsConfig contains notification poster settings
type NotificationsConfig struct {
	Backends       []string    `mapstructure:"backends"`
	DeepLinkScheme string      `mapstructure:"deep_link_scheme"`
	DesktopCommand string      `mapstructure:"desktop_command"`
	Redis          RedisConfig `mapstructure:"redis"`
}

// RedisConfig contains the redis publisher settings
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

// RateLimitConfig contains rate limiting settings
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// SecurityConfig contains security settings
type SecurityConfig struct {
	EnableCORS  bool     `mapstructure:"enable_cors"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	// APIToken and JWKSURL enable bearer authentication on /api/v1
	APIToken string `mapstructure:"api_token"`
	JWKSURL  string `mapstructure:"jwks_url"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
