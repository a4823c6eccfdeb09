package cmd

import (
	"fmt"
	"os"

	"github.com/Electro707/ltspice-data-parser/pkg/ltspice"
	"github.com/Electro707/ltspice-data-parser/pkg/ltspice/data"
	"github.com/Electro707/ltspice-data-parser/pkg/ltspice/raw"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Show header and dataset information for a simulation output file",
	Long: `Decode a raw file or plot text export and display its metadata:
analysis mode, encoding, variables, point counts, and sweep steps.

Examples:
  ltparse info circuit.raw
  ltparse info -v stepped_sweep.raw`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	b, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if ltspice.IsRaw(b) {
		h, err := raw.ScanHeader(b)
		if err != nil {
			return err
		}
		fmt.Printf("Raw file: %s\n", filename)
		fmt.Printf("  Title:      %s\n", h.Title)
		fmt.Printf("  Date:       %s\n", h.Date)
		fmt.Printf("  Plot:       %s\n", h.PlotName)
		fmt.Printf("  Mode:       %s\n", h.Mode)
		fmt.Printf("  Encoding:   %s\n", h.Encoding)
		fmt.Printf("  Stepped:    %v\n", h.Stepped)
		fmt.Printf("  Points:     %d\n", h.PointCount)
		fmt.Printf("  Variables:  %d\n", len(h.Variables))
		if verbose {
			fmt.Printf("  Flags:      %v\n", h.Flags)
			fmt.Printf("  Data block: byte %d, row size %d\n", h.DataOffset, h.RowSize())
		}
		printVariables(h.Variables)
	}

	ds, err := ltspice.Parse(b)
	if err != nil {
		return err
	}

	if !ltspice.IsRaw(b) {
		fmt.Printf("Plot text export: %s\n", filename)
		fmt.Printf("  Mode:       %s\n", ds.Meta.Mode)
		fmt.Printf("  Complex as: %s\n", ds.Meta.ComplexFormat)
		fmt.Printf("  Points:     %d\n", ds.Meta.PointCount)
		printVariables(ds.Meta.Variables)
	}

	fmt.Printf("  Steps:      %d\n", ds.NumSteps())
	for i := range ds.Steps {
		label := ds.StepLabel(i)
		if label == "" {
			label = "single run"
		}
		fmt.Printf("    %2d: %-20s %d rows\n", i, label, len(ds.Steps[i].Rows))
	}
	return nil
}

func printVariables(vars []data.Variable) {
	fmt.Println("  Columns:")
	for i, v := range vars {
		kind := "real"
		if v.Kind == data.KindComplex {
			kind = "complex"
		}
		fmt.Printf("    %2d: %-20s %-16s %s\n", i, v.Name, v.Unit, kind)
	}
}
