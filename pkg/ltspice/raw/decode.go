package raw

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/Electro707/ltspice-data-parser/pkg/ltspice/data"
)

// decodeSegment turns one segment's bytes into ordered sample rows. The
// decoding strategy is fixed by the header: no per-row re-detection, and
// no partial rows are ever emitted.
func decodeSegment(h *HeaderInfo, seg segment) ([]data.Row, error) {
	if h.Encoding == data.EncodingBinary {
		return decodeBinary(h, seg)
	}
	return decodeASCII(h, seg)
}

func decodeBinary(h *HeaderInfo, seg segment) ([]data.Row, error) {
	rowSize := h.RowSize()
	if len(seg.raw)%rowSize != 0 {
		return nil, &data.CorruptRecordError{
			Row:    len(seg.raw) / rowSize,
			Offset: int64(len(seg.raw) - len(seg.raw)%rowSize),
			Msg:    "segment length is not a whole number of rows",
		}
	}
	numVars := len(h.Variables)
	rows := make([]data.Row, 0, len(seg.raw)/rowSize)
	for r := 0; r*rowSize < len(seg.raw); r++ {
		rec := seg.raw[r*rowSize : (r+1)*rowSize]
		row := data.Row{Values: make([]complex128, 0, numVars-1)}
		if h.Complex {
			row.X = readF64(rec, 0)
			for i := 1; i < numVars; i++ {
				re := readF64(rec, 16*i)
				im := readF64(rec, 16*i+8)
				row.Values = append(row.Values, complex(re, im))
			}
		} else {
			row.X = readF64(rec, 0)
			if h.Mode == data.ModeTransient {
				row.X = math.Abs(row.X)
			}
			width := 4
			if h.Double {
				width = 8
			}
			for i := 1; i < numVars; i++ {
				off := 8 + (i-1)*width
				var v float64
				if h.Double {
					v = readF64(rec, off)
				} else {
					v = float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[off:])))
				}
				row.Values = append(row.Values, complex(v, 0))
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readF64(b []byte, off int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b[off:]))
}

// decodeASCII parses a Values: segment. A point group spans one line per
// variable: "index<TAB>x" first, then one value line per trace. Complex
// files write every value as a "re,im" pair, the independent one too.
func decodeASCII(h *HeaderInfo, seg segment) ([]data.Row, error) {
	numVars := len(h.Variables)
	lines := splitDataLines(string(seg.raw))
	if len(lines)%numVars != 0 {
		return nil, &data.CorruptRecordError{
			Row:    len(lines) / numVars,
			Offset: int64(len(lines)),
			Msg:    "incomplete point group",
		}
	}
	rows := make([]data.Row, 0, len(lines)/numVars)
	for g := 0; g*numVars < len(lines); g++ {
		group := lines[g*numVars : (g+1)*numVars]
		fields := strings.Fields(group[0])
		if len(fields) != 2 {
			return nil, &data.CorruptRecordError{Row: g, Offset: int64(g * numVars),
				Msg: "point line needs index and value, got " + strconv.Quote(group[0])}
		}
		row := data.Row{Values: make([]complex128, 0, numVars-1)}
		x, err := parseASCIIValue(fields[1], h.Complex)
		if err != nil {
			return nil, &data.CorruptRecordError{Row: g, Offset: int64(g * numVars), Msg: err.Error()}
		}
		row.X = real(x)
		if h.Mode == data.ModeTransient {
			row.X = math.Abs(row.X)
		}
		for i := 1; i < numVars; i++ {
			tokens := strings.Fields(group[i])
			if len(tokens) != 1 {
				return nil, &data.CorruptRecordError{Row: g, Offset: int64(g*numVars + i),
					Msg: "trace line needs one value, got " + strconv.Quote(group[i])}
			}
			v, err := parseASCIIValue(tokens[0], h.Variables[i].Kind == data.KindComplex)
			if err != nil {
				return nil, &data.CorruptRecordError{Row: g, Offset: int64(g*numVars + i), Msg: err.Error()}
			}
			row.Values = append(row.Values, v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseASCIIValue parses either a lone float or a "re,im" pair
func parseASCIIValue(token string, cplx bool) (complex128, error) {
	if !cplx {
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return 0, err
		}
		return complex(v, 0), nil
	}
	reTok, imTok, found := strings.Cut(token, ",")
	if !found {
		return 0, strconv.ErrSyntax
	}
	re, err := strconv.ParseFloat(reTok, 64)
	if err != nil {
		return 0, err
	}
	im, err := strconv.ParseFloat(imTok, 64)
	if err != nil {
		return 0, err
	}
	return complex(re, im), nil
}
