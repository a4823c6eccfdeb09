package raw

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/Electro707/ltspice-data-parser/pkg/ltspice/data"
	"golang.org/x/text/encoding/unicode"
)

// segment is one contiguous run of a parametric sweep. For binary files
// raw holds whole encoded rows; for ASCII files it holds the transcoded
// UTF-8 text of the step's point groups. Segments are transient: the
// value decoder consumes them and they are discarded.
type segment struct {
	index int
	raw   []byte
}

// segmentData partitions the data block into ordered, contiguous,
// non-overlapping segments whose union is the whole block. Non-stepped
// files yield exactly one segment.
func segmentData(h *HeaderInfo, block []byte) ([]segment, error) {
	if h.Encoding == data.EncodingBinary {
		return segmentBinary(h, block)
	}
	return segmentASCII(h, block)
}

// segmentBinary walks the block in strides of one encoded row. The row
// size is computed once from the header; rows are not self-delimiting.
// A parametric step boundary is the sentinel row at which the
// independent variable restarts, i.e. drops below its predecessor.
func segmentBinary(h *HeaderInfo, block []byte) ([]segment, error) {
	rowSize := h.RowSize()
	if rem := len(block) % rowSize; rem != 0 {
		return nil, &data.TruncatedDataError{
			Offset:    h.DataOffset + int64(len(block)-rem),
			RowSize:   rowSize,
			Remainder: rem,
		}
	}
	numRows := len(block) / rowSize
	if !h.Stepped || numRows == 0 {
		return []segment{{index: 0, raw: block}}, nil
	}

	var segs []segment
	start := 0
	prev := math.Inf(-1)
	for i := 0; i < numRows; i++ {
		x := rowIndependent(h, block[i*rowSize:])
		if i > 0 && x < prev {
			segs = append(segs, segment{index: len(segs), raw: block[start : i*rowSize]})
			start = i * rowSize
		}
		prev = x
	}
	segs = append(segs, segment{index: len(segs), raw: block[start:]})
	return segs, nil
}

// rowIndependent reads the independent value of one encoded row. Complex
// files store it as a real/imaginary pair with zero imaginary part; the
// real part is enough to spot a sweep restart.
func rowIndependent(h *HeaderInfo, row []byte) float64 {
	x := math.Float64frombits(binary.LittleEndian.Uint64(row))
	if h.Mode == data.ModeTransient {
		// LTSpice flips the sign of compressed time points; the
		// magnitude is the actual timestamp
		x = math.Abs(x)
	}
	return x
}

// segmentASCII splits a Values: block on point-index resets. Each point
// group spans one line per variable: the first line carries the point
// index and the independent value, each following line one trace value.
func segmentASCII(h *HeaderInfo, block []byte) ([]segment, error) {
	text := block
	if h.Wide {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
		decoded, err := dec.Bytes(block)
		if err != nil {
			return nil, &data.FormatError{Offset: h.DataOffset, Msg: "undecodable ASCII data block"}
		}
		text = decoded
	}

	numVars := len(h.Variables)
	lines := splitDataLines(string(text))
	if rem := len(lines) % numVars; rem != 0 {
		return nil, &data.TruncatedDataError{
			Offset:    h.DataOffset,
			RowSize:   numVars,
			Remainder: rem,
		}
	}
	if !h.Stepped || len(lines) == 0 {
		return []segment{{index: 0, raw: text}}, nil
	}

	// Rebuild per-step text by watching the index column restart at 0
	var segs []segment
	var cur []string
	for g := 0; g < len(lines)/numVars; g++ {
		group := lines[g*numVars : (g+1)*numVars]
		idx := strings.Fields(group[0])[0]
		if g > 0 && idx == "0" {
			segs = append(segs, segment{index: len(segs), raw: []byte(strings.Join(cur, "\n"))})
			cur = cur[:0]
		}
		cur = append(cur, group...)
	}
	segs = append(segs, segment{index: len(segs), raw: []byte(strings.Join(cur, "\n"))})
	return segs, nil
}

func splitDataLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
