// internal/cli/show_config.go
package resultviz

import (
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clram/resultviz/internal/appconfig"
)

// showConfigCmd prints the effective configuration after file and flag
// overrides have been applied.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON config is loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := GetConfig()
		appconfig.ShowConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), cfg)
		if DebugEnabled() {
			pp.Println(cfg)
		}
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
