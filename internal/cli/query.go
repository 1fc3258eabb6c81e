package cli

import (
	"fmt"

	"github.com/jpl-au/nrdb"
	"github.com/spf13/cobra"
)

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	var (
		where []string
		or    bool
		limit int
		count bool
	)

	cmd := &cobra.Command{
		Use:   "query <snapshot> <table>",
		Short: "Print the records of a table that match a filter",
		Long: `Print matching records of one table as JSON lines, in insertion order.

Each --where adds one condition. Conditions are combined with AND, or with
OR when --any is given. A condition is either "path?" (the field exists) or
"path<op>value" with op one of = != < <= >= >. Paths are dot separated for
nested objects. Values are read as JSON when they parse as JSON and as plain
strings otherwise.`,
		Example: `  # Every record
  nrdb query data.json users

  # Adults named in a nested field
  nrdb query data.json users --where 'age>=18' --where 'name.first?'

  # Either condition, first 10 matches
  nrdb query data.json users --where 'city=Oslo' --where 'city=Rome' --any --limit 10`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args[0], args[1], where, or, limit, count)
		},
	}

	cmd.Flags().StringArrayVarP(&where, "where", "w", nil, "Condition (repeatable)")
	cmd.Flags().BoolVar(&or, "any", false, "Match records satisfying any condition")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Stop after n records (0 for no limit)")
	cmd.Flags().BoolVarP(&count, "count", "c", false, "Print only the number of matches")

	return cmd
}

func runQuery(cmd *cobra.Command, path, table string, where []string, or bool, limit int, count bool) error {
	q, err := buildQuery(table, where, or)
	if err != nil {
		return err
	}

	db, err := loadSnapshot(cmd, path)
	if err != nil {
		return err
	}
	q = db.Query(q)
	GetLogger(cmd.Context()).Debug("query", "expr", q.String(), "limit", limit)

	seq, err := q.All(nil)
	if limit > 0 {
		seq, err = q.Limit(limit, nil)
	}
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	n := 0
	for r := range seq {
		n++
		if count {
			continue
		}
		line, err := nrdb.MarshalRecord(r)
		if err != nil {
			return fmt.Errorf("record %v: %w", r[nrdb.IDField], err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
			return err
		}
	}
	if count {
		_, _ = fmt.Fprintln(w, n)
	}
	return nil
}
