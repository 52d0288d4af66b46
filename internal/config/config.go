// Package config defines the top-level configuration for the prediction
// ledger host and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/alanyoungcy/predledger/internal/domain"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by PREDLEDGER_* environment
// variables.
type Config struct {
	Program  ProgramConfig  `toml:"program"`
	Postgres PostgresConfig `toml:"postgres"`
	Redis    RedisConfig    `toml:"redis"`
	S3       S3Config       `toml:"s3"`
	Host     HostConfig     `toml:"host"`
	Mode     string         `toml:"mode"`
	LogLevel string         `toml:"log_level"`
}

// ProgramConfig identifies the program and its storage slots.
type ProgramConfig struct {
	// ID is the hex-encoded 32-byte program identity used for account-owner
	// checks.
	ID string `toml:"id"`
	// StateSlot is the slot key holding the predictions aggregate.
	StateSlot string `toml:"state_slot"`
	// MintSlot is the slot key holding the token ledger record.
	MintSlot string `toml:"mint_slot"`
}

// Identity parses the configured program id.
func (p ProgramConfig) Identity() (domain.Identity, error) {
	return domain.ParseIdentity(p.ID)
}

// PostgresConfig holds PostgreSQL connection parameters for slot and audit
// persistence.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters for the slot lock and the
// instruction stream.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds S3-compatible object storage parameters for snapshots.
type S3Config struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// HostConfig holds parameters of the call-serial host loop.
type HostConfig struct {
	// Stream is the Redis stream instructions are consumed from.
	Stream string `toml:"stream"`
	// StreamStart is the stream id to begin reading after ("0" for the
	// beginning, "$" for new messages only).
	StreamStart string `toml:"stream_start"`
	// ReadBatch is the maximum number of stream entries fetched per read.
	ReadBatch int `toml:"read_batch"`
	// PollInterval is the sleep between empty stream reads.
	PollInterval duration `toml:"poll_interval"`
	// LockTTL bounds how long a crashed holder can keep a slot locked.
	LockTTL duration `toml:"lock_ttl"`
	// SnapshotInterval is how often slot snapshots are archived in serve
	// mode. Zero disables periodic snapshots.
	SnapshotInterval duration `toml:"snapshot_interval"`
}

// duration is a time.Duration that unmarshals from TOML strings like "30s".
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Defaults returns the built-in configuration defaults.
func Defaults() Config {
	return Config{
		Program: ProgramConfig{
			StateSlot: "predictions",
			MintSlot:  "mint",
		},
		Postgres: PostgresConfig{
			Port:          5432,
			SSLMode:       "disable",
			PoolMaxConns:  4,
			PoolMinConns:  1,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Host: HostConfig{
			Stream:       "predledger:instructions",
			StreamStart:  "0",
			ReadBatch:    64,
			PollInterval: duration{500 * time.Millisecond},
			LockTTL:      duration{30 * time.Second},
		},
		Mode:     "serve",
		LogLevel: "info",
	}
}

// Validate checks the configuration for the configured mode and returns a
// descriptive error on the first problem found.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Mode) {
	case "serve", "apply", "snapshot":
	default:
		return fmt.Errorf("config: unsupported mode %q", c.Mode)
	}

	if _, err := c.Program.Identity(); err != nil {
		return fmt.Errorf("config: program id: %w", err)
	}
	if c.Program.StateSlot == "" || c.Program.MintSlot == "" {
		return fmt.Errorf("config: state_slot and mint_slot are required")
	}
	if c.Program.StateSlot == c.Program.MintSlot {
		return fmt.Errorf("config: state_slot and mint_slot must differ")
	}

	if c.Postgres.DSN == "" && (c.Postgres.Host == "" || c.Postgres.Database == "" || c.Postgres.User == "") {
		return fmt.Errorf("config: postgres requires a dsn or host/database/user")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("config: redis addr is required")
	}
	if c.S3.Enabled && (c.S3.Bucket == "" || c.S3.Region == "") {
		return fmt.Errorf("config: s3 requires bucket and region when enabled")
	}
	if c.Host.Stream == "" {
		return fmt.Errorf("config: host stream is required")
	}
	if c.Host.ReadBatch <= 0 {
		return fmt.Errorf("config: host read_batch must be positive")
	}
	if c.Host.LockTTL.Duration <= 0 {
		return fmt.Errorf("config: host lock_ttl must be positive")
	}

	return nil
}
