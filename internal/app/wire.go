package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "github.com/alanyoungcy/predledger/internal/blob/s3"
	"github.com/alanyoungcy/predledger/internal/cache/redis"
	"github.com/alanyoungcy/predledger/internal/config"
	"github.com/alanyoungcy/predledger/internal/domain"
	"github.com/alanyoungcy/predledger/internal/host"
	"github.com/alanyoungcy/predledger/internal/program"
	"github.com/alanyoungcy/predledger/internal/store/postgres"
)

// Dependencies bundles everything the application modes need to operate. It
// is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	SlotStore   domain.SlotStore
	AuditStore  domain.AuditStore
	LockManager domain.LockManager
	Stream      domain.InstructionStream
	Archiver    domain.Archiver

	Program *program.Program
	Host    *host.Host
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- PostgreSQL ---
	pgClient, err := postgres.New(ctx, postgres.ClientConfig{
		DSN:      cfg.Postgres.DSN,
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		Database: cfg.Postgres.Database,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		SSLMode:  cfg.Postgres.SSLMode,
		MaxConns: cfg.Postgres.PoolMaxConns,
		MinConns: cfg.Postgres.PoolMinConns,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: postgres: %w", err)
	}
	closers = append(closers, pgClient.Close)

	if cfg.Postgres.RunMigrations {
		if err := pgClient.RunMigrations(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
		}
	}

	pool := pgClient.Pool()
	deps.SlotStore = postgres.NewSlotStore(pool)
	deps.AuditStore = postgres.NewAuditStore(pool)

	// --- Redis ---
	redisClient, err := redis.New(ctx, redis.ClientConfig{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		PoolSize:   cfg.Redis.PoolSize,
		MaxRetries: cfg.Redis.MaxRetries,
		TLSEnabled: cfg.Redis.TLSEnabled,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: redis: %w", err)
	}
	closers = append(closers, func() { _ = redisClient.Close() })

	deps.LockManager = redis.NewLockManager(redisClient)
	deps.Stream = redis.NewInstructionStream(redisClient, cfg.Host.Stream)

	// --- S3 snapshots (optional) ---
	if cfg.S3.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		deps.Archiver = s3blob.NewArchiver(s3Client)
	}

	// --- Program + host ---
	programID, err := cfg.Program.Identity()
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: program id: %w", err)
	}
	deps.Program = program.New(programID, logger)

	deps.Host = host.New(
		host.Config{
			StateSlot:    cfg.Program.StateSlot,
			MintSlot:     cfg.Program.MintSlot,
			StreamStart:  cfg.Host.StreamStart,
			ReadBatch:    cfg.Host.ReadBatch,
			PollInterval: cfg.Host.PollInterval.Duration,
			LockTTL:      cfg.Host.LockTTL.Duration,
		},
		deps.Program,
		deps.SlotStore,
		deps.LockManager,
		deps.Stream,
		deps.AuditStore,
		deps.Archiver,
		logger,
	)

	return deps, cleanup, nil
}
