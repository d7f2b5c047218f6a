package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/bike-hunter/pkg/lexicon"
)

// Version is set at build time via ldflags.
var Version = "dev"

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bike-hunter %s (lexicon %s)\n", Version, lexicon.Version)
		},
	}
}
