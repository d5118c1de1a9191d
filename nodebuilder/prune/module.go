package prune

import (
	"context"

	"go.uber.org/fx"

	"github.com/sambacha/reth/engine"
	"github.com/sambacha/reth/libs/tasks"
	"github.com/sambacha/reth/pruner"
)

func ConstructModule(cfg *Config) fx.Option {
	if !cfg.Enabled {
		return fx.Options()
	}

	return fx.Module("prune",
		fx.Supply(*cfg),
		fx.Provide(func(lc fx.Lifecycle) *tasks.Pool {
			pool := tasks.NewPool()
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					pool.Stop()
					return nil
				},
			})
			return pool
		}),
		fx.Provide(func(pool *tasks.Pool) tasks.Spawner {
			return pool
		}),
		fx.Provide(fx.Annotate(
			newPruner,
			fx.OnStop(func(_ context.Context, p *pruner.Pruner) error {
				return p.Close()
			}),
		)),
		fx.Provide(newPruneController),
		fx.Provide(fx.Annotate(
			newService,
			fx.OnStart(func(ctx context.Context, serv *engine.Service) error {
				return serv.Start(ctx)
			}),
			fx.OnStop(func(ctx context.Context, serv *engine.Service) error {
				return serv.Stop(ctx)
			}),
		)),
		fx.Invoke(func(*engine.Service) {}),
	)
}
