package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Import
		Parsers
		Notifications
		Audit
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path         string
		MaxOpenConns int // Connection pool bound (default: 5)
	}
	Import struct {
		BatchSize int // Records per transaction (default: 50)
	}
	Parsers struct {
		ConfigPath     string        // JSON state file holding custom parsers
		DefaultTimeout time.Duration // Applies to parsers without their own timeout
		WatchEnabled   bool          // Reload parsers when ConfigPath changes
		WatchDebounce  time.Duration // Quiet period before a reload (default: 2s)
	}
	Notifications struct {
		RetentionDays   int    // Days to keep notifications (default: 30)
		CleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
		EventBuffer     int    // Per-subscriber SSE buffer
	}
	Audit struct {
		Dir string // Failure reports for imports with rejected entries; empty disables
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
)

func NewConfig() *Config {
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_max_connections", DefaultMaxOpenConns)
	v.SetDefault("import_batch_size", DefaultImportBatchSize)

	// Parser defaults
	v.SetDefault("parsers_config_path", DefaultParsersConfigPath)
	v.SetDefault("parser_timeout", "5m")
	v.SetDefault("config_watch_enabled", true)
	v.SetDefault("config_watch_debounce", "2s")

	// Notification defaults
	v.SetDefault("notifications_retention_days", 30)
	v.SetDefault("notifications_cleanup_schedule", "0 3 * * *") // Daily at 03:00
	v.SetDefault("events_buffer", 16)
	v.SetDefault("audit_dir", "./audit")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 2)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "15m")
	v.SetDefault("task_release_after", "30m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return v
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path:         v.GetString("DATABASE_PATH"),
			MaxOpenConns: v.GetInt("DATABASE_MAX_CONNECTIONS"),
		},
		Import: Import{
			BatchSize: v.GetInt("IMPORT_BATCH_SIZE"),
		},
		Parsers: Parsers{
			ConfigPath:     v.GetString("PARSERS_CONFIG_PATH"),
			DefaultTimeout: v.GetDuration("PARSER_TIMEOUT"),
			WatchEnabled:   v.GetBool("CONFIG_WATCH_ENABLED"),
			WatchDebounce:  v.GetDuration("CONFIG_WATCH_DEBOUNCE"),
		},
		Notifications: Notifications{
			RetentionDays:   v.GetInt("NOTIFICATIONS_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("NOTIFICATIONS_CLEANUP_SCHEDULE"),
			EventBuffer:     v.GetInt("EVENTS_BUFFER"),
		},
		Audit: Audit{
			Dir: v.GetString("AUDIT_DIR"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
	}
}

// NotificationRetention converts RetentionDays into a duration.
func (n Notifications) NotificationRetention() time.Duration {
	return time.Duration(n.RetentionDays) * 24 * time.Hour
}
