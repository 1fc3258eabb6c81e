package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <snapshot>",
		Short: "Summarise the tables in a snapshot",
		Long: `Load a snapshot and print one line per table: row count, next automatic
id, conversion setting and excluded fields. The database fingerprint is
printed last; two snapshots with equal fingerprints hold the same data.`,
		Example: `  nrdb inspect data.json
  nrdb inspect --hash blake2b data.json.zst`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0])
		},
	}
}

func runInspect(cmd *cobra.Command, path string) error {
	db, err := loadSnapshot(cmd, path)
	if err != nil {
		return err
	}
	sum, err := db.Fingerprint()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if db.Len() == 0 {
		_, _ = fmt.Fprintln(w, "(0 tables)")
	} else {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Table", "Rows", "Next ID", "Convert", "Exclude"})
		for _, name := range db.Names() {
			tbl, err := db.Table(name)
			if err != nil {
				return err
			}
			t.AppendRow(table.Row{
				name,
				tbl.Len(),
				tbl.NextID(),
				tbl.Convert(),
				strings.Join(tbl.ConvertExclude(), ", "),
			})
		}
		t.Render()
	}

	_, _ = fmt.Fprintf(w, "fingerprint: %s\n", sum)
	return nil
}
