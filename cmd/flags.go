package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
)

var storePathFlag = "store.path"

// NodeFlags gives the node-level flags common to every command.
func NodeFlags() *flag.FlagSet {
	flags := &flag.FlagSet{}

	flags.String(
		storePathFlag,
		"~/.reth",
		"The path to the node's store directory.",
	)
	return flags
}

// StorePath reads the store path flag off the command, expanding a leading
// '~' to the user's home directory.
func StorePath(cmd *cobra.Command) (string, error) {
	path, err := cmd.Flags().GetString(storePathFlag)
	if err != nil {
		return "", err
	}

	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Clean(path), nil
}
