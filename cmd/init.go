package cmd

import (
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/sambacha/reth/nodebuilder"
	"github.com/sambacha/reth/nodebuilder/prune"
)

// Init constructs a CLI command to initialize the node store. Passed flags
// have persisted effect.
func Init(fsets ...*flag.FlagSet) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialization for the node. Passed flags have persisted effect.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := StorePath(cmd)
			if err != nil {
				return err
			}

			cfg := nodebuilder.DefaultConfig()
			prune.ParseFlags(cmd, &cfg.Prune)

			return nodebuilder.Init(*cfg, path)
		},
	}
	for _, set := range fsets {
		cmd.Flags().AddFlagSet(set)
	}
	return cmd
}
