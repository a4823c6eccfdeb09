// Package textexport parses LTSpice plot text exports: tab-separated
// files written by the waveform viewer's File > Export facility, with
// complex values rendered as "(magdB,phase°)" pairs and parametric
// sweeps delimited by "Step Information:" marker lines.
package textexport

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Electro707/ltspice-data-parser/pkg/ltspice/data"
	"github.com/alecthomas/participle/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const stepMarker = "Step Information:"

// Parser reads plot text exports into the shared dataset model
type Parser struct {
	step *participle.Parser[StepLine]
}

// NewParser creates a text-export parser instance
func NewParser() (*Parser, error) {
	step, err := newStepParser()
	if err != nil {
		return nil, fmt.Errorf("failed to build step grammar: %w", err)
	}
	return &Parser{step: step}, nil
}

// ParseFile parses a text export from a file path
func (p *Parser) ParseFile(path string) (*data.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return p.Parse(f)
}

// Parse parses a text export from a reader. The export is Windows-1252
// encoded (the degree sign in phase values is a single 0xB0 byte), so
// the stream is transcoded to UTF-8 before line scanning.
func (p *Parser) Parse(r io.Reader) (*data.Dataset, error) {
	sc := bufio.NewScanner(transform.NewReader(r, charmap.Windows1252.NewDecoder()))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !sc.Scan() {
		return nil, &data.FormatError{Line: 1, Msg: "empty file"}
	}
	lineNo := 1
	header := strings.Split(strings.TrimRight(sc.Text(), "\r\n"), "\t")

	mode := data.ModeUnknown
	switch {
	case strings.Contains(header[0], "Freq."):
		mode = data.ModeAC
	case strings.Contains(header[0], "time"):
		mode = data.ModeTransient
	default:
		return nil, &data.FormatError{Line: 1,
			Msg: "first column is neither time nor Freq.: " + strconv.Quote(header[0])}
	}
	if len(header) < 2 {
		return nil, &data.FormatError{Line: 1, Msg: "no probe columns"}
	}

	vars := make([]data.Variable, 0, len(header))
	vars = append(vars, data.Variable{Name: strings.TrimSpace(header[0])})
	for _, name := range header[1:] {
		v := data.Variable{Name: strings.TrimSpace(name)}
		if mode == data.ModeAC {
			v.Kind = data.KindComplex
		}
		vars = append(vars, v)
	}
	numProbes := len(vars) - 1

	var (
		steps      []data.Step
		cur        data.Step
		started    bool
		total      int
		cplxFormat = data.FormatDBPhase
		formatSet  bool
	)
	flush := func() {
		if started && (cur.Rows != nil || cur.HasParam) {
			steps = append(steps, cur)
		}
	}

	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.HasPrefix(line, stepMarker) {
			info, err := p.step.ParseString("", line)
			if err != nil {
				return nil, &data.FormatError{Line: lineNo,
					Msg: "malformed step marker: " + err.Error()}
			}
			value, err := info.Value.Float()
			if err != nil {
				return nil, &data.FormatError{Line: lineNo, Msg: err.Error()}
			}
			flush()
			cur = data.Step{ParamName: info.Param, ParamValue: value, HasParam: true}
			started = true
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != numProbes+1 {
			return nil, &data.CorruptRecordError{Row: total, Offset: int64(lineNo),
				Msg: fmt.Sprintf("expected %d columns, got %d", numProbes+1, len(fields))}
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil {
			return nil, &data.CorruptRecordError{Row: total, Offset: int64(lineNo), Msg: err.Error()}
		}
		row := data.Row{X: x, Values: make([]complex128, 0, numProbes)}
		for _, field := range fields[1:] {
			field = strings.TrimSpace(field)
			if mode == data.ModeAC {
				if !formatSet {
					// dB/phase pairs are parenthesized; the re/im
					// export variant is a bare comma pair
					if !strings.HasPrefix(field, "(") {
						cplxFormat = data.FormatRealImag
					}
					formatSet = true
				}
				v, err := parseComplexField(field, cplxFormat)
				if err != nil {
					return nil, &data.CorruptRecordError{Row: total, Offset: int64(lineNo), Msg: err.Error()}
				}
				row.Values = append(row.Values, v)
			} else {
				v, err := strconv.ParseFloat(field, 64)
				if err != nil {
					return nil, &data.CorruptRecordError{Row: total, Offset: int64(lineNo), Msg: err.Error()}
				}
				row.Values = append(row.Values, complex(v, 0))
			}
		}
		if !started {
			started = true
		}
		cur.Rows = append(cur.Rows, row)
		total++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read error at line %d: %w", lineNo, err)
	}
	flush()

	if total == 0 {
		return nil, &data.FormatError{Line: lineNo, Msg: "no data rows"}
	}

	meta := data.Metadata{
		Mode:          mode,
		Encoding:      data.EncodingASCII,
		ComplexFormat: cplxFormat,
		Variables:     vars,
		PointCount:    total,
		Stepped:       len(steps) > 1 || (len(steps) == 1 && steps[0].HasParam),
	}
	return &data.Dataset{Meta: meta, Steps: steps}, nil
}

// parseComplexField decodes one AC probe value. The dB/phase form
// "(magdB,phase°)" converts through re = 10^(mag/20)·cos(phase),
// im = 10^(mag/20)·sin(phase); the re/im form passes through.
func parseComplexField(field string, format data.ComplexFormat) (complex128, error) {
	if format == data.FormatRealImag {
		reTok, imTok, found := strings.Cut(field, ",")
		if !found {
			return 0, fmt.Errorf("expected re,im pair, got %q", field)
		}
		re, err := strconv.ParseFloat(strings.TrimSpace(reTok), 64)
		if err != nil {
			return 0, err
		}
		im, err := strconv.ParseFloat(strings.TrimSpace(imTok), 64)
		if err != nil {
			return 0, err
		}
		return complex(re, im), nil
	}

	s, ok := strings.CutPrefix(field, "(")
	if !ok {
		return 0, fmt.Errorf("expected (magdB,phase°) pair, got %q", field)
	}
	s, ok = strings.CutSuffix(s, ")")
	if !ok {
		return 0, fmt.Errorf("unterminated pair %q", field)
	}
	magTok, phaseTok, found := strings.Cut(s, "dB,")
	if !found {
		return 0, fmt.Errorf("missing dB separator in %q", field)
	}
	phaseTok = strings.TrimSuffix(strings.TrimSpace(phaseTok), "°")
	mag, err := strconv.ParseFloat(strings.TrimSpace(magTok), 64)
	if err != nil {
		return 0, err
	}
	phase, err := strconv.ParseFloat(phaseTok, 64)
	if err != nil {
		return 0, err
	}
	amp := math.Pow(10, mag/20)
	rad := phase * math.Pi / 180
	return complex(amp*math.Cos(rad), amp*math.Sin(rad)), nil
}
