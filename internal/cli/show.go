// internal/cli/show.go
package resultviz

import (
	"github.com/spf13/cobra"
)

// showCmd groups read-only subcommands that display application state.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show application settings",
}

func init() {
	rootCmd.AddCommand(showCmd)
}
