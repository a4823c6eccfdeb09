package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ltparse",
	Short: "LTSpice raw data decoder and exporter",
	Long: `Decodes LTSpice simulation output into typed datasets for
inspection, CSV export, or plotting. Handles native .raw files (binary
and ASCII, stepped sweeps, AC/transient/DC) as well as waveform-viewer
plot text exports.

Examples:
  ltparse info circuit.raw                 # Show header and metadata
  ltparse export circuit.raw -o out.csv    # Export decoded data to CSV
  ltparse plot filter.raw -o bode.png -x   # Plot with logarithmic X axis`,
	Version: "1.0.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
