package prune

import (
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
)

var (
	archivalModeFlag  = "archival-mode"
	pruneDistanceFlag = "prune.distance"
)

func Flags() *flag.FlagSet {
	flags := &flag.FlagSet{}

	flags.Bool(
		archivalModeFlag,
		false,
		"Enables archival mode. When enabled, the node will not prune old data.",
	)
	flags.Uint64(
		pruneDistanceFlag,
		DefaultConfig().PruneDistance,
		"Number of recent blocks kept behind the canonical head when pruning.",
	)
	return flags
}

func ParseFlags(
	cmd *cobra.Command,
	cfg *Config,
) {
	archivalMode, err := cmd.Flags().GetBool(archivalModeFlag)
	if err != nil {
		panic(err)
	}
	if cmd.Flags().Changed(archivalModeFlag) {
		cfg.Enabled = !archivalMode
	}

	distance, err := cmd.Flags().GetUint64(pruneDistanceFlag)
	if err != nil {
		panic(err)
	}
	if cmd.Flags().Changed(pruneDistanceFlag) {
		cfg.PruneDistance = distance
	}
}
