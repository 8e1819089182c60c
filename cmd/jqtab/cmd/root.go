package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "jqtab [flags] <filter> [files...]",
	Short: "A jq-compatible filter-language processor with tabular/frame support",
	Long: `jqtab applies a filter-language program to streamed JSON input (or
files, or stdin), the same way jq does, plus a handful of extensions for
working with tabular data: a stream of uniform objects can be collected into
a columnar Frame with to_frame, reshaped with pivot/melt/join, and a LazyFrame
defers column-pruning and row-filtering work until collect forces it.`,
	Version:      Version,
	Args:         cobra.MinimumNArgs(1),
	RunE:         runFilter,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	registerRunFlags(rootCmd)
}
