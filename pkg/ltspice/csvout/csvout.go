// Package csvout serializes a decoded dataset to CSV. It is a pure
// serialization of already-decoded data: no decoding logic lives here.
package csvout

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"os"
	"strconv"

	"github.com/Electro707/ltspice-data-parser/pkg/ltspice/data"
)

// ComplexLayout selects how complex columns are expanded
type ComplexLayout int

const (
	// SplitRealImag emits name_re and name_im columns
	SplitRealImag ComplexLayout = iota
	// SplitMagPhase emits name_mag (dB) and name_phase (degrees) columns
	SplitMagPhase
)

// Options controls the CSV rendering
type Options struct {
	Layout     ComplexLayout
	Scientific bool // keep scientific notation instead of plain decimal
	StepColumn bool // prefix each row with its step label when stepped
}

// WriteFile writes the whole dataset to a single CSV file
func WriteFile(path string, ds *data.Dataset, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(f, ds, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write renders every step of the dataset, stacked in step order
func Write(w io.Writer, ds *data.Dataset, opts Options) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headerRecord(ds, opts)); err != nil {
		return err
	}
	for i := range ds.Steps {
		if err := writeRows(cw, ds, i, opts); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStep renders a single step, for one-file-per-step layouts. The
// step index is bounds-checked against the dataset.
func WriteStep(w io.Writer, ds *data.Dataset, step int, opts Options) error {
	if _, err := ds.Step(step); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(headerRecord(ds, opts)); err != nil {
		return err
	}
	if err := writeRows(cw, ds, step, opts); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func headerRecord(ds *data.Dataset, opts Options) []string {
	var rec []string
	if opts.StepColumn && ds.Meta.Stepped {
		rec = append(rec, "step")
	}
	rec = append(rec, ds.Meta.Variables[0].Name)
	for _, v := range ds.Probes() {
		if v.Kind == data.KindComplex {
			if opts.Layout == SplitMagPhase {
				rec = append(rec, v.Name+"_mag", v.Name+"_phase")
			} else {
				rec = append(rec, v.Name+"_re", v.Name+"_im")
			}
		} else {
			rec = append(rec, v.Name)
		}
	}
	return rec
}

func writeRows(cw *csv.Writer, ds *data.Dataset, step int, opts Options) error {
	probes := ds.Probes()
	for _, row := range ds.Steps[step].Rows {
		var rec []string
		if opts.StepColumn && ds.Meta.Stepped {
			rec = append(rec, ds.StepLabel(step))
		}
		rec = append(rec, formatValue(row.X, opts))
		for i, v := range probes {
			c := row.Values[i]
			if v.Kind == data.KindComplex {
				if opts.Layout == SplitMagPhase {
					mag := 20 * math.Log10(cmplx.Abs(c))
					phase := cmplx.Phase(c) * 180 / math.Pi
					rec = append(rec, formatValue(mag, opts), formatValue(phase, opts))
				} else {
					rec = append(rec, formatValue(real(c), opts), formatValue(imag(c), opts))
				}
			} else {
				rec = append(rec, formatValue(real(c), opts))
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func formatValue(v float64, opts Options) string {
	if opts.Scientific {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
