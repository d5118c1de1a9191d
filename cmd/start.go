package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/sambacha/reth/nodebuilder"
	"github.com/sambacha/reth/nodebuilder/prune"
	"github.com/sambacha/reth/store"
)

// Start constructs a CLI command to start the node daemon. The first
// stopping signal gracefully stops the node and the second terminates it.
func Start(fsets ...*flag.FlagSet) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "start",
		Short:        "Starts the node daemon.",
		Aliases:      []string{"run", "daemon"},
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := StorePath(cmd)
			if err != nil {
				return err
			}
			if !nodebuilder.IsInit(path) {
				return nodebuilder.ErrNotInited
			}

			cfg, err := nodebuilder.LoadConfig(nodebuilder.ConfigPath(path))
			if err != nil {
				return err
			}
			// options passed on start override configuration options
			// only on start and are not persisted in config
			prune.ParseFlags(cmd, &cfg.Prune)

			s, err := store.Open(path)
			if err != nil {
				return err
			}
			defer s.Close() //nolint:errcheck

			nd, err := nodebuilder.New(s, cfg)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if err := nd.Start(ctx); err != nil {
				return err
			}

			<-ctx.Done()
			cancel() // ensure we stop reading from the signal channel

			ctx, cancel = signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return nd.Stop(ctx)
		},
	}
	for _, set := range fsets {
		cmd.Flags().AddFlagSet(set)
	}
	return cmd
}
