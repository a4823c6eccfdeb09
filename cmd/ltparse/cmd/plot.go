package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Electro707/ltspice-data-parser/pkg/ltspice"
	"github.com/Electro707/ltspice-data-parser/pkg/ltspice/plotout"
	"github.com/spf13/cobra"
)

var (
	plotOut    string
	plotLogX   bool
	plotProbe  int
	plotSteps  []int
	plotWidth  int
	plotHeight int
)

var plotCmd = &cobra.Command{
	Use:   "plot <file>",
	Short: "Render decoded simulation data to an image",
	Long: `Decode a raw file or plot text export and draw the selected traces.
AC data plots as magnitude in dB versus frequency; transient and DC data
plot the raw values. The output format follows the file extension
(.png, .svg, .pdf).

Examples:
  ltparse plot circuit.raw -o out.png
  ltparse plot bode.raw -o bode.svg -x
  ltparse plot sweep.raw -o sweep.png --probe 0 --step 2`,
	Args: cobra.ExactArgs(1),
	RunE: runPlot,
}

func init() {
	rootCmd.AddCommand(plotCmd)

	plotCmd.Flags().StringVarP(&plotOut, "output", "o", "",
		"output image path (default: input name with .png)")
	plotCmd.Flags().BoolVarP(&plotLogX, "log-x", "x", false,
		"logarithmic X axis")
	plotCmd.Flags().IntVar(&plotProbe, "probe", -1,
		"plot only the probe with this index")
	plotCmd.Flags().IntSliceVar(&plotSteps, "step", nil,
		"plot only these sweep steps (repeatable)")
	plotCmd.Flags().IntVar(&plotWidth, "width", 800, "image width in points")
	plotCmd.Flags().IntVar(&plotHeight, "height", 600, "image height in points")
}

func runPlot(cmd *cobra.Command, args []string) error {
	filename := args[0]

	ds, err := ltspice.Load(filename)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Printf("Decoded %d step(s), %d point(s), %d probe(s)\n",
			ds.NumSteps(), ds.Meta.PointCount, ds.NumProbes())
	}

	out := plotOut
	if out == "" {
		out = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".png"
	}
	opts := plotout.Options{
		Steps: plotSteps,
		Probe: plotProbe,
		LogX:  plotLogX,
	}
	if err := plotout.Save(ds, opts, out, plotWidth, plotHeight); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}
