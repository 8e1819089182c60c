// Command jqtab runs a filter-language program against JSON input, the same
// basic shape as jq's own CLI, grounded on the teacher project's
// cmd/dwscript entry point: a package-level cobra.Command tree executed from
// a one-line main.
package main

import (
	"fmt"
	"os"

	"github.com/tabjq/tabjq/cmd/jqtab/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cmd.ExitCode(err))
	}
}
