package raw

import (
	"strconv"
	"strings"

	"github.com/Electro707/ltspice-data-parser/pkg/ltspice/data"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// HeaderInfo is the decoded raw-file preamble. It is created once per
// parse and never mutated afterwards.
type HeaderInfo struct {
	Title      string
	Date       string
	PlotName   string
	Command    string
	Flags      []string
	Mode       data.AnalysisMode
	Variables  []data.Variable
	PointCount int
	Stepped    bool
	Double     bool // real traces stored as float64 instead of float32
	Complex    bool // every variable stored as a real/imaginary pair
	Encoding   data.Encoding
	Wide       bool  // header (and ASCII data) encoded as UTF-16LE
	DataOffset int64 // byte offset of the data block in the original file
}

// Metadata returns the header stripped of decode-internal fields
func (h *HeaderInfo) Metadata() data.Metadata {
	return data.Metadata{
		Title:         h.Title,
		Date:          h.Date,
		PlotName:      h.PlotName,
		Command:       h.Command,
		Mode:          h.Mode,
		Encoding:      h.Encoding,
		ComplexFormat: data.FormatRealImag,
		Variables:     h.Variables,
		PointCount:    h.PointCount,
		Stepped:       h.Stepped,
	}
}

// RowSize returns the width in bytes of one binary-encoded sample row.
// Complex files store every variable, the independent one included, as
// two little-endian float64 values. Real files store the independent
// variable as float64 and every trace as float32, or float64 when the
// double flag is set.
func (h *HeaderInfo) RowSize() int {
	n := len(h.Variables)
	if h.Complex {
		return 16 * n
	}
	traceWidth := 4
	if h.Double {
		traceWidth = 8
	}
	return 8 + (n-1)*traceWidth
}

// lineScanner walks the header one line at a time, transcoding from the
// on-disk charset and tracking the byte position in the original buffer
// so the data block can be located after the sentinel line.
type lineScanner struct {
	buf  []byte
	pos  int64
	line int
	wide bool
	dec  *encoding.Decoder
}

func newLineScanner(b []byte) *lineScanner {
	s := &lineScanner{buf: b}
	switch {
	case len(b) >= 2 && b[0] == 0xFF && b[1] == 0xFE:
		s.wide = true
		s.pos = 2
		s.dec = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	case looksUTF16LE(b):
		s.wide = true
		s.dec = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	default:
		// LTSpice predates UTF-8; older versions wrote Windows-1252
		s.dec = charmap.Windows1252.NewDecoder()
	}
	return s
}

// LTSpice XVII writes the header as UTF-16LE without a BOM: ASCII header
// keys show up as letter bytes interleaved with NULs.
func looksUTF16LE(b []byte) bool {
	if len(b) < 8 {
		return false
	}
	return b[0] != 0 && b[1] == 0 && b[3] == 0 && b[5] == 0 && b[7] == 0
}

// next returns the next header line, transcoded to UTF-8 with the line
// terminator stripped. ok is false at end of buffer.
func (s *lineScanner) next() (line string, ok bool, err error) {
	stride := 1
	if s.wide {
		stride = 2
	}
	start := s.pos
	for i := s.pos; int(i)+stride <= len(s.buf); i += int64(stride) {
		if s.buf[i] != '\n' || (s.wide && s.buf[i+1] != 0) {
			continue
		}
		rawLine := s.buf[start:i]
		s.pos = i + int64(stride)
		s.line++
		decoded, derr := s.dec.Bytes(rawLine)
		if derr != nil {
			return "", false, derr
		}
		return strings.TrimSuffix(string(decoded), "\r"), true, nil
	}
	return "", false, nil
}

// offset returns the byte position just past the last line returned
func (s *lineScanner) offset() int64 { return s.pos }

// Header keys appear in the fixed order LTSpice writes them. They are
// matched by exact prefix, not keyword search, so a variable named
// "V(flags)" can never be mistaken for a header field.
const (
	keyTitle    = "Title:"
	keyDate     = "Date:"
	keyPlotName = "Plotname:"
	keyFlags    = "Flags:"
	keyNumVars  = "No. Variables:"
	keyNumPts   = "No. Points:"
	keyOffset   = "Offset:"
	keyCommand  = "Command:"
	keyVars     = "Variables:"
	sentBinary  = "Binary:"
	sentValues  = "Values:"
)

// ScanHeader decodes the textual preamble of a raw file. It is a pure
// function of the input bytes.
func ScanHeader(b []byte) (*HeaderInfo, error) {
	sc := newLineScanner(b)
	h := &HeaderInfo{Mode: data.ModeUnknown}
	h.Wide = sc.wide

	var (
		plotSeen bool
		varsSeen bool
		ptsSeen  bool
		numVars  int
	)

	for {
		line, ok, err := sc.next()
		if err != nil {
			return nil, &data.FormatError{Line: sc.line, Offset: sc.offset(), Msg: err.Error()}
		}
		if !ok {
			return nil, &data.FormatError{Line: sc.line, Offset: sc.offset(),
				Msg: "no Binary: or Values: sentinel before end of file"}
		}

		switch {
		case strings.HasPrefix(line, keyTitle):
			h.Title = strings.TrimSpace(line[len(keyTitle):])
		case strings.HasPrefix(line, keyDate):
			h.Date = strings.TrimSpace(line[len(keyDate):])
		case strings.HasPrefix(line, keyPlotName):
			h.PlotName = strings.TrimSpace(line[len(keyPlotName):])
			h.Mode = modeFromPlotName(h.PlotName)
			plotSeen = true
		case strings.HasPrefix(line, keyFlags):
			h.Flags = strings.Fields(line[len(keyFlags):])
			for _, f := range h.Flags {
				switch strings.ToLower(f) {
				case "complex":
					h.Complex = true
				case "stepped":
					h.Stepped = true
				case "double":
					h.Double = true
				case "fastaccess":
					return nil, &data.UnsupportedModeError{
						PlotName: h.PlotName,
						Flags:    strings.Join(h.Flags, " "),
						Msg:      "fastaccess (column-major) layout is not supported",
					}
				}
			}
		case strings.HasPrefix(line, keyNumVars):
			n, err := strconv.Atoi(strings.TrimSpace(line[len(keyNumVars):]))
			if err != nil || n <= 0 {
				return nil, &data.FormatError{Line: sc.line, Offset: sc.offset(),
					Msg: "invalid variable count " + strings.TrimSpace(line[len(keyNumVars):])}
			}
			numVars = n
		case strings.HasPrefix(line, keyNumPts):
			n, err := strconv.Atoi(strings.TrimSpace(line[len(keyNumPts):]))
			if err != nil || n < 0 {
				return nil, &data.FormatError{Line: sc.line, Offset: sc.offset(),
					Msg: "invalid point count " + strings.TrimSpace(line[len(keyNumPts):])}
			}
			h.PointCount = n
			ptsSeen = true
		case strings.HasPrefix(line, keyCommand):
			h.Command = strings.TrimSpace(line[len(keyCommand):])
		case strings.HasPrefix(line, keyOffset):
			// time offset of .tran analyses, irrelevant to decoding
		case strings.HasPrefix(line, keyVars):
			if numVars == 0 {
				return nil, &data.FormatError{Line: sc.line, Offset: sc.offset(),
					Msg: "Variables: block before No. Variables:"}
			}
			vars, err := scanVariableBlock(sc, numVars, h.Complex)
			if err != nil {
				return nil, err
			}
			h.Variables = vars
			varsSeen = true
		case line == sentBinary || line == sentValues:
			if line == sentBinary {
				h.Encoding = data.EncodingBinary
			} else {
				h.Encoding = data.EncodingASCII
			}
			h.DataOffset = sc.offset()
			if !plotSeen || !ptsSeen || !varsSeen {
				return nil, &data.FormatError{Line: sc.line, Offset: sc.offset(),
					Msg: "data sentinel before required header fields"}
			}
			if err := reconcileMode(h); err != nil {
				return nil, err
			}
			return h, nil
		default:
			// Backannotation: and any future keys pass through untouched
		}
	}
}

func scanVariableBlock(sc *lineScanner, numVars int, cplx bool) ([]data.Variable, error) {
	vars := make([]data.Variable, 0, numVars)
	for i := 0; i < numVars; i++ {
		line, ok, err := sc.next()
		if err != nil || !ok {
			return nil, &data.FormatError{Line: sc.line, Offset: sc.offset(),
				Msg: "variable block shorter than declared count"}
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, &data.FormatError{Line: sc.line, Offset: sc.offset(),
				Msg: "malformed variable declaration " + strconv.Quote(line)}
		}
		idx, err := strconv.Atoi(fields[0])
		if err != nil || idx != i {
			return nil, &data.FormatError{Line: sc.line, Offset: sc.offset(),
				Msg: "variable index " + fields[0] + " out of order"}
		}
		v := data.Variable{Name: fields[1]}
		if len(fields) > 2 {
			v.Unit = fields[2]
		}
		if cplx && i > 0 {
			v.Kind = data.KindComplex
		}
		vars = append(vars, v)
	}
	return vars, nil
}

func modeFromPlotName(name string) data.AnalysisMode {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "ac analysis"):
		return data.ModeAC
	case strings.Contains(lower, "transient"):
		return data.ModeTransient
	case strings.Contains(lower, "dc transfer"), strings.Contains(lower, "operating point"):
		return data.ModeDC
	default:
		return data.ModeUnknown
	}
}

// reconcileMode cross-checks the plot name against the flags. An AC file
// without complex traces, or a time-domain file with them, has no layout
// we know how to decode.
func reconcileMode(h *HeaderInfo) error {
	switch h.Mode {
	case data.ModeAC:
		if !h.Complex {
			return &data.UnsupportedModeError{
				PlotName: h.PlotName,
				Flags:    strings.Join(h.Flags, " "),
				Msg:      "AC analysis without complex flag",
			}
		}
	case data.ModeTransient, data.ModeDC:
		if h.Complex {
			return &data.UnsupportedModeError{
				PlotName: h.PlotName,
				Flags:    strings.Join(h.Flags, " "),
				Msg:      "time/DC analysis with complex flag",
			}
		}
	}
	return nil
}
