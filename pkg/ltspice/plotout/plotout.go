// Package plotout renders decoded datasets to image files. It is a pure
// rendering consumer: it selects steps and probes, never re-decodes.
package plotout

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/Electro707/ltspice-data-parser/pkg/ltspice/data"
)

// Options selects what to draw
type Options struct {
	Steps []int // step indices to draw; empty means all
	Probe int   // single probe index; negative means all
	LogX  bool  // logarithmic X axis, the usual choice for AC sweeps
	Title string
}

// Render builds a plot from the selected steps and probes. Selectors
// are bounds-checked against the dataset before anything is drawn.
func Render(ds *data.Dataset, opts Options) (*plot.Plot, error) {
	steps := opts.Steps
	if len(steps) == 0 {
		steps = make([]int, ds.NumSteps())
		for i := range steps {
			steps[i] = i
		}
	}
	for _, s := range steps {
		if _, err := ds.Step(s); err != nil {
			return nil, err
		}
	}
	if opts.Probe >= ds.NumProbes() {
		return nil, fmt.Errorf("probe index %d out of range [0,%d)", opts.Probe, ds.NumProbes())
	}

	p := plot.New()
	p.Title.Text = opts.Title
	if p.Title.Text == "" {
		p.Title.Text = ds.Meta.Title
	}
	p.X.Label.Text = ds.Meta.Variables[0].Name
	if ds.Meta.Mode == data.ModeAC {
		p.Y.Label.Text = "magnitude (dB)"
	}
	if opts.LogX {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.Padding = vg.Points(5)

	series := 0
	for _, s := range steps {
		for pi, v := range ds.Probes() {
			if opts.Probe >= 0 && pi != opts.Probe {
				continue
			}
			line, err := plotter.NewLine(traceXYs(ds, s, pi))
			if err != nil {
				return nil, fmt.Errorf("failed to build trace %s: %w", v.Name, err)
			}
			line.Color = plotutil.Color(series)
			p.Add(line)
			p.Legend.Add(traceLabel(ds, s, v.Name), line)
			series++
		}
	}
	return p, nil
}

// Save renders the selection straight to a file; the image format
// follows the path extension (.png, .svg, .pdf).
func Save(ds *data.Dataset, opts Options, path string, width, height int) error {
	p, err := Render(ds, opts)
	if err != nil {
		return err
	}
	if err := p.Save(vg.Points(float64(width)), vg.Points(float64(height)), path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}

// traceXYs projects one probe of one step onto plot points. AC traces
// plot as magnitude in dB, everything else as the real value.
func traceXYs(ds *data.Dataset, step, probe int) plotter.XYs {
	rows := ds.Steps[step].Rows
	ac := ds.Meta.Mode == data.ModeAC
	xys := make(plotter.XYs, len(rows))
	for i, row := range rows {
		xys[i].X = row.X
		if ac {
			xys[i].Y = 20 * math.Log10(cmplx.Abs(row.Values[probe]))
		} else {
			xys[i].Y = real(row.Values[probe])
		}
	}
	return xys
}

func traceLabel(ds *data.Dataset, step int, probe string) string {
	if label := ds.StepLabel(step); label != "" {
		return probe + " " + label
	}
	return probe
}
