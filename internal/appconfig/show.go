package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Upload Dir:  %s\n", cfg.UploadDir)
	fmt.Fprintf(out, "  Output Dir:  %s\n", cfg.OutputDir)
	fmt.Fprintf(out, "  Listen Addr: %s\n", cfg.ListenAddr())
	fmt.Fprintf(out, "  Max Upload:  %d MB\n", cfg.MaxUploadMB)
	fmt.Fprintf(out, "  Debug:       %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Log File:    %s\n", cfg.LogFile)
}
