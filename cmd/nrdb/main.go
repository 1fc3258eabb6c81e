// Command nrdb inspects, queries and rewrites nrdb snapshot files.
package main

import (
	"os"

	"github.com/jpl-au/nrdb/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
