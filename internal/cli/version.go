package cli

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cargotree/pkg/buildinfo"
)

// versionCommand prints build information.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printKeyValue(c.Stdout, "version", buildinfo.Resolved())
			printKeyValue(c.Stdout, "commit", buildinfo.Commit)
			printKeyValue(c.Stdout, "built", buildinfo.Date)
			printKeyValue(c.Stdout, "go", runtime.Version())
		},
	}
}
