// Package data holds the decoded dataset model shared by the raw-file and
// text-export front-ends and consumed by the CSV and plot collaborators.
package data

import "fmt"

// AnalysisMode identifies the simulation analysis that produced the file
type AnalysisMode int

const (
	ModeUnknown AnalysisMode = iota
	ModeAC
	ModeTransient
	ModeDC
)

func (m AnalysisMode) String() string {
	switch m {
	case ModeAC:
		return "AC"
	case ModeTransient:
		return "transient"
	case ModeDC:
		return "DC"
	default:
		return "unknown"
	}
}

// Encoding identifies how the data block was stored on disk
type Encoding int

const (
	EncodingASCII Encoding = iota
	EncodingBinary
)

func (e Encoding) String() string {
	if e == EncodingBinary {
		return "binary"
	}
	return "ASCII"
}

// ComplexFormat identifies how complex traces were written.
// Raw files always store real/imaginary pairs; plot text exports
// default to magnitude-in-dB plus phase-in-degrees.
type ComplexFormat int

const (
	FormatRealImag ComplexFormat = iota
	FormatDBPhase
)

func (f ComplexFormat) String() string {
	if f == FormatDBPhase {
		return "dB/phase"
	}
	return "real/imaginary"
}

// VarKind is the value type of a decoded trace
type VarKind int

const (
	KindReal VarKind = iota
	KindComplex
)

// Variable describes one column of the dataset.
// The first variable is always the independent one (time or frequency).
type Variable struct {
	Name string
	Unit string
	Kind VarKind
}

// Metadata carries everything known about the file apart from the samples
type Metadata struct {
	Title         string
	Date          string
	PlotName      string
	Command       string
	Mode          AnalysisMode
	Encoding      Encoding
	ComplexFormat ComplexFormat
	Variables     []Variable
	PointCount    int
	Stepped       bool
}

// Row is one sample point. X is the independent value; Values holds one
// entry per variable after the first, real traces with a zero imaginary
// part.
type Row struct {
	X      float64
	Values []complex128
}

// Step is one contiguous run of a parametric sweep. Non-stepped files
// decode to a single Step with HasParam false.
type Step struct {
	ParamName  string
	ParamValue float64
	HasParam   bool
	Rows       []Row
}

// Dataset is the terminal artifact of a parse: immutable once assembled
type Dataset struct {
	Meta  Metadata
	Steps []Step
}

// NumSteps returns the number of sweep steps
func (d *Dataset) NumSteps() int { return len(d.Steps) }

// NumProbes returns the number of measured traces, excluding the
// independent variable.
func (d *Dataset) NumProbes() int {
	if len(d.Meta.Variables) == 0 {
		return 0
	}
	return len(d.Meta.Variables) - 1
}

// Probes returns the measured variables, excluding the independent one
func (d *Dataset) Probes() []Variable {
	if len(d.Meta.Variables) == 0 {
		return nil
	}
	return d.Meta.Variables[1:]
}

// Step returns the i-th sweep step, bounds-checked
func (d *Dataset) Step(i int) (*Step, error) {
	if i < 0 || i >= len(d.Steps) {
		return nil, fmt.Errorf("step index %d out of range [0,%d)", i, len(d.Steps))
	}
	return &d.Steps[i], nil
}

// ProbeIndex returns the position of the named probe within Probes(),
// or false if no probe has that name.
func (d *Dataset) ProbeIndex(name string) (int, bool) {
	for i, v := range d.Probes() {
		if v.Name == name {
			return i, true
		}
	}
	return 0, false
}

// StepLabel returns a human-readable label for the i-th step, such as
// "Rser=10" for a parametric sweep or "step 0" otherwise.
func (d *Dataset) StepLabel(i int) string {
	if i < 0 || i >= len(d.Steps) {
		return ""
	}
	s := &d.Steps[i]
	if s.HasParam {
		return fmt.Sprintf("%s=%g", s.ParamName, s.ParamValue)
	}
	if len(d.Steps) == 1 {
		return ""
	}
	return fmt.Sprintf("step %d", i)
}
