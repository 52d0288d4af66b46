package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/predledger/internal/host"
)

// ServeMode runs the instruction loop plus, when configured, a periodic
// snapshot ticker. It blocks until the context is cancelled or a component
// fails.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return deps.Host.Run(ctx)
	})

	if interval := a.cfg.Host.SnapshotInterval.Duration; interval > 0 && deps.Archiver != nil {
		g.Go(func() error {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-ticker.C:
					if err := deps.Host.Snapshot(ctx); err != nil {
						a.logger.WarnContext(ctx, "snapshot failed",
							slog.String("error", err.Error()),
						)
					}
				}
			}
		})
	}

	return g.Wait()
}

// ApplyMode applies a single instruction envelope supplied on the command
// line and exits. This is the operational path for ad-hoc instructions and
// debugging.
func (a *App) ApplyMode(ctx context.Context, deps *Dependencies) error {
	if a.ApplyEnvelope == "" {
		return fmt.Errorf("app: apply mode requires an envelope (-envelope)")
	}

	var env host.Envelope
	if err := json.Unmarshal([]byte(a.ApplyEnvelope), &env); err != nil {
		return fmt.Errorf("app: parse envelope: %w", err)
	}

	result, err := deps.Host.Apply(ctx, env)
	if err != nil {
		return err
	}
	if result.Err != nil {
		return fmt.Errorf("app: instruction %s rejected (code %d): %w",
			result.Op, result.Code, result.Err)
	}

	a.logger.InfoContext(ctx, "instruction applied",
		slog.String("op", result.Op.String()),
	)
	return nil
}

// SnapshotMode archives the current slot contents once and exits.
func (a *App) SnapshotMode(ctx context.Context, deps *Dependencies) error {
	if deps.Archiver == nil {
		return fmt.Errorf("app: snapshot mode requires s3 to be enabled")
	}
	return deps.Host.Snapshot(ctx)
}
