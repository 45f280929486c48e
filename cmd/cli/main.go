// statcsv - solver stats log to CSV converter
//
// statcsv reads benchmark log output and writes the Time, Nodes and Edges
// counters of every Stats line as CSV rows.
package main

import (
	"os"

	"github.com/ccollicutt/statcsv/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
