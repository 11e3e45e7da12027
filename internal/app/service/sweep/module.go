package sweep

import (
	"context"

	cfgpkg "github.com/greenplate/mealsub/pkg/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module exposes the sweep service and its cron schedule via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
	fx.Invoke(registerSchedule),
)

// registerSchedule runs the sweep on the configured cron expression.
func registerSchedule(lc fx.Lifecycle, cfg *cfgpkg.Config, svc *Service, log *zap.SugaredLogger) error {
	if !cfg.Sweep.Enabled {
		log.Infow("sweep schedule disabled")
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Sweep.Schedule, func() {
		svc.RunAll(context.Background())
	}); err != nil {
		log.Errorw("invalid sweep schedule", "schedule", cfg.Sweep.Schedule, "err", err)
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("sweep schedule started", "schedule", cfg.Sweep.Schedule)
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopped := c.Stop()
			select {
			case <-stopped.Done():
			case <-ctx.Done():
			}
			log.Infow("sweep schedule stopped")
			return nil
		},
	})
	return nil
}
