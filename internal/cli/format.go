package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewFormatCommand creates the format command.
func NewFormatCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "format <snapshot>",
		Short: "Rewrite a snapshot",
		Long: `Load a snapshot and write it back, in place or to --out. Use --pretty to
indent it and --compress to Zstd compress it; an output path ending in .zst
is always compressed. Loading re-validates every row, so format also checks
that a snapshot is readable.`,
		Example: `  nrdb format --pretty data.json
  nrdb format --out data.json.zst data.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args[0], out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (default: rewrite in place)")

	return cmd
}

func runFormat(cmd *cobra.Command, path, out string) error {
	db, err := loadSnapshot(cmd, path)
	if err != nil {
		return err
	}
	if out == "" {
		out = path
	}
	if err := db.Serialize(out, GetConfig(cmd.Context()).SaveOptions()); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d tables)\n", out, db.Len())
	return nil
}
