package nodebuilder

import (
	"context"
	"fmt"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"go.uber.org/fx"

	"github.com/sambacha/reth/chain"
	"github.com/sambacha/reth/nodebuilder/prune"
	"github.com/sambacha/reth/store"
)

var log = logging.Logger("node")

// Timeout per lifecycle hook during startup and shutdown.
var lifecycleTimeout = time.Minute

// Node assembles the node's subsystems over a shared Store and wires their
// lifecycles together.
type Node struct {
	Store     *store.Store
	CanonFeed *chain.CanonFeed

	app *fx.App
}

// New assembles a Node from the given open Store and Config.
func New(s *store.Store, cfg *Config) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	feed := chain.NewCanonFeed()
	app := fx.New(
		fx.NopLogger,
		fx.StartTimeout(lifecycleTimeout),
		fx.StopTimeout(lifecycleTimeout),
		fx.Supply(s, feed),
		prune.ConstructModule(&cfg.Prune),
	)
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("node: assembling subsystems: %w", err)
	}

	return &Node{
		Store:     s,
		CanonFeed: feed,
		app:       app,
	}, nil
}

// Start launches the Node's subsystems.
func (n *Node) Start(ctx context.Context) error {
	if err := n.app.Start(ctx); err != nil {
		return fmt.Errorf("node: failed to start: %w", err)
	}
	log.Info("node started")
	return nil
}

// Stop shuts the Node down gracefully.
func (n *Node) Stop(ctx context.Context) error {
	if err := n.app.Stop(ctx); err != nil {
		return fmt.Errorf("node: failed to stop: %w", err)
	}
	log.Info("node stopped")
	return nil
}
