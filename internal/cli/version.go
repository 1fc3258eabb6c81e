package cli

import (
	"fmt"

	"github.com/jpl-au/nrdb"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the nrdb tool version and the snapshot format version it reads and writes.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "nrdb v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "snapshot format %d\n", nrdb.Version)
		},
	}
}
