// internal/cli/serve.go
package resultviz

import (
	"github.com/spf13/cobra"

	"github.com/clram/resultviz/internal/job"
	"github.com/clram/resultviz/internal/server"
)

// serveCmd starts the web interface: upload a result file, poll generation
// status, and browse the generated charts and tables.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web interface for uploads and report browsing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		runner := job.NewRunner(cfg.OutputDir)
		return server.New(cfg, runner).ListenAndServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
