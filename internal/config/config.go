package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Ledger engine
	TimelineSeedWeeks  int           // weeks pre-generated when a goal is created
	LookaheadWeeks     int           // forward coverage kept ahead of "now"
	RolloverSchedule   string        // cron spec for the forward-coverage job
	MilestoneEmailFrom string        // sender for milestone congratulation mail
	OwnerEmail         string        // recipient of milestone congratulation mail
	ResendAPIKey       string        // empty = log instead of sending
	BackupTimeout      time.Duration

	// Observability (optional)
	SentryDSN string

	// Backup target (S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.)
	// All empty = backups disabled.
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	return &Config{
		AppName: envString("APP_NAME", "Nestegg"),
		AppEnv:  envRequired("APP_ENV"), // 'development' or 'production'
		Port:    envString("PORT", "8090"),

		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/nestegg.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		TimelineSeedWeeks:  envInt("TIMELINE_SEED_WEEKS", 52),
		LookaheadWeeks:     envInt("LOOKAHEAD_WEEKS", 4),
		RolloverSchedule:   envString("ROLLOVER_SCHEDULE", "0 3 * * *"), // daily, 03:00
		MilestoneEmailFrom: envString("MILESTONE_EMAIL_FROM", "noreply@example.com"),
		OwnerEmail:         envString("OWNER_EMAIL", ""),
		ResendAPIKey:       envString("RESEND_API_KEY", ""),
		BackupTimeout:      envDuration("BACKUP_TIMEOUT", 30*time.Second),

		SentryDSN: envString("SENTRY_DSN", ""),

		S3Region:    envString("S3_REGION", ""),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// BackupEnabled reports whether an S3 target is configured.
func (c *Config) BackupEnabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}
