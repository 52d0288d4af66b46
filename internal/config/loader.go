package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies PREDLEDGER_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known PREDLEDGER_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Program ──
	setStr(&cfg.Program.ID, "PREDLEDGER_PROGRAM_ID")
	setStr(&cfg.Program.StateSlot, "PREDLEDGER_PROGRAM_STATE_SLOT")
	setStr(&cfg.Program.MintSlot, "PREDLEDGER_PROGRAM_MINT_SLOT")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "PREDLEDGER_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "PREDLEDGER_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "PREDLEDGER_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "PREDLEDGER_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "PREDLEDGER_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "PREDLEDGER_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "PREDLEDGER_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "PREDLEDGER_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "PREDLEDGER_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "PREDLEDGER_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "PREDLEDGER_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "PREDLEDGER_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "PREDLEDGER_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "PREDLEDGER_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "PREDLEDGER_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "PREDLEDGER_REDIS_TLS_ENABLED")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "PREDLEDGER_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "PREDLEDGER_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "PREDLEDGER_S3_REGION")
	setStr(&cfg.S3.Bucket, "PREDLEDGER_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "PREDLEDGER_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "PREDLEDGER_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "PREDLEDGER_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "PREDLEDGER_S3_FORCE_PATH_STYLE")

	// ── Host ──
	setStr(&cfg.Host.Stream, "PREDLEDGER_HOST_STREAM")
	setStr(&cfg.Host.StreamStart, "PREDLEDGER_HOST_STREAM_START")
	setInt(&cfg.Host.ReadBatch, "PREDLEDGER_HOST_READ_BATCH")
	setDuration(&cfg.Host.PollInterval, "PREDLEDGER_HOST_POLL_INTERVAL")
	setDuration(&cfg.Host.LockTTL, "PREDLEDGER_HOST_LOCK_TTL")
	setDuration(&cfg.Host.SnapshotInterval, "PREDLEDGER_HOST_SNAPSHOT_INTERVAL")

	// ── Top-level ──
	setStr(&cfg.Mode, "PREDLEDGER_MODE")
	setStr(&cfg.LogLevel, "PREDLEDGER_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}
