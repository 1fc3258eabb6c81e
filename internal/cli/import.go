package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/jpl-au/nrdb"
	"github.com/spf13/cobra"
)

// maxLine bounds a single JSON line on import.
const maxLine = 16 << 20

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <snapshot> <table> <file.jsonl|->",
		Short: "Upsert JSON lines into a table",
		Long: `Read one JSON object per line and upsert each into the table. A record
whose id already exists is merged into the stored record; any other record
is inserted, with an id assigned when it has none. Blank lines are skipped.

The snapshot and the table are created when missing. Options for a new
table come from --convert and --convert-exclude; an existing table keeps
the options it was saved with. The snapshot is only written when every line
was imported.`,
		Example: `  nrdb import data.json users users.jsonl
  cat events.jsonl | nrdb import --convert=false data.json.zst events -`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], args[1], args[2])
		},
	}

	cmd.Flags().Bool("convert", true, "Coerce numeric strings in a new table")
	cmd.Flags().StringSlice("convert-exclude", nil, "Fields a new table never coerces")

	return cmd
}

func runImport(cmd *cobra.Command, path, table, src string) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)
	log := GetLogger(ctx)

	db, err := loadSnapshot(cmd, path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info("creating snapshot", "path", path)
		db = nrdb.New(cfg.Database(log))
	} else if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if src != "-" {
		f, err := os.Open(src)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	tbl := db.InitTable(table, cfg.TableOptions()...)
	n, err := importLines(tbl, in)
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	if err := db.Serialize(path, cfg.SaveOptions()); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d records into %s (%d rows)\n", n, table, tbl.Len())
	return nil
}

// importLines upserts every JSON line of r into tbl and returns how many
// records were read.
func importLines(tbl *nrdb.Table, r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	n, line := 0, 0
	for sc.Scan() {
		line++
		data := sc.Bytes()
		if len(bytes.TrimSpace(data)) == 0 {
			continue
		}
		rec, err := nrdb.UnmarshalRecord(data)
		if err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		if _, err := tbl.Upsert(rec); err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return n, err
	}
	return n, nil
}
