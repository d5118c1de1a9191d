package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/sambacha/reth/cmd"
	"github.com/sambacha/reth/nodebuilder/prune"
)

func init() {
	rootCmd.AddCommand(
		cmd.Init(cmd.NodeFlags(), prune.Flags()),
		cmd.Start(cmd.NodeFlags(), prune.Flags()),
	)
	rootCmd.SetHelpCommand(&cobra.Command{})
}

var rootCmd = &cobra.Command{
	Use:  "reth [subcommand]",
	Args: cobra.NoArgs,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
