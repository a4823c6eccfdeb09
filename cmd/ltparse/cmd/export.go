package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Electro707/ltspice-data-parser/pkg/ltspice"
	"github.com/Electro707/ltspice-data-parser/pkg/ltspice/csvout"
	"github.com/spf13/cobra"
)

var (
	exportOut        string
	exportMagPhase   bool
	exportScientific bool
	exportPerStep    bool
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export decoded simulation data to CSV",
	Long: `Decode a raw file or plot text export and write the dataset as CSV.
Complex AC traces expand to two columns each, real/imaginary by default
or magnitude(dB)/phase with --mag-phase. Stepped sweeps stack into one
file with a step column, or split one file per step with --per-step.

Examples:
  ltparse export circuit.raw -o out.csv
  ltparse export bode.raw -o bode.csv --mag-phase
  ltparse export sweep.raw -o sweep.csv --per-step`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "",
		"output CSV path (default: input name with .csv)")
	exportCmd.Flags().BoolVar(&exportMagPhase, "mag-phase", false,
		"write complex traces as magnitude(dB)/phase instead of re/im")
	exportCmd.Flags().BoolVarP(&exportScientific, "scientific", "s", false,
		"keep scientific notation")
	exportCmd.Flags().BoolVar(&exportPerStep, "per-step", false,
		"write one CSV file per sweep step")
}

func runExport(cmd *cobra.Command, args []string) error {
	filename := args[0]

	ds, err := ltspice.Load(filename)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Printf("Decoded %d step(s), %d point(s), %d probe(s)\n",
			ds.NumSteps(), ds.Meta.PointCount, ds.NumProbes())
	}

	out := exportOut
	if out == "" {
		out = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".csv"
	}
	opts := csvout.Options{Scientific: exportScientific, StepColumn: !exportPerStep}
	if exportMagPhase {
		opts.Layout = csvout.SplitMagPhase
	}

	if exportPerStep && ds.NumSteps() > 1 {
		base := strings.TrimSuffix(out, filepath.Ext(out))
		for i := range ds.Steps {
			stepPath := fmt.Sprintf("%s_step%d.csv", base, i)
			f, err := os.Create(stepPath)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			if err := csvout.WriteStep(f, ds, i, opts); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", stepPath)
		}
		return nil
	}

	if err := csvout.WriteFile(out, ds, opts); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}
