package agent

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"hostmon/internal/monitor"
)

func (a *Agent) run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.monitor.Run(gctx)
	})
	g.Go(func() error {
		return a.runProbeListener(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (a *Agent) observeCycle(r monitor.CycleReport) {
	a.health.Observe(r)
	a.logger.Log(context.Background(), slog.LevelDebug, "agent health", "snapshot", a.health.Snapshot())
}

func (a *Agent) shutdown() {
	a.health.SetRunning(false)
	a.logger.Debug("agent health at shutdown", "snapshot", a.health.Snapshot())
}
