package raw

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Electro707/ltspice-data-parser/pkg/ltspice/data"
)

func appendF64(b []byte, v float64) []byte {
	return binary.LittleEndian.AppendUint64(b, math.Float64bits(v))
}

func appendF32(b []byte, v float64) []byte {
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(float32(v)))
}

// buildTransientRaw builds a single-precision binary transient file:
// one float64 time column plus one float32 column per trace value.
func buildTransientRaw(header string, rows [][]float64) []byte {
	out := []byte(header)
	for _, row := range rows {
		out = appendF64(out, row[0])
		for _, v := range row[1:] {
			out = appendF32(out, v)
		}
	}
	return out
}

func buildACRaw(header string, rows [][]complex128) []byte {
	out := []byte(header)
	for _, row := range rows {
		for _, v := range row {
			out = appendF64(out, real(v))
			out = appendF64(out, imag(v))
		}
	}
	return out
}

func closeTo(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestParseTransientEndToEnd(t *testing.T) {
	file := buildTransientRaw(transientHeader, [][]float64{
		{0.0, 1.0},
		{1e-6, 0.95},
		{2e-6, 0.80},
	})

	ds, err := Parse(file)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	if ds.Meta.Mode != data.ModeTransient {
		t.Errorf("Expected transient mode, got %v", ds.Meta.Mode)
	}
	if ds.NumSteps() != 1 {
		t.Fatalf("Expected 1 step, got %d", ds.NumSteps())
	}
	rows := ds.Steps[0].Rows
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	want := [][]float64{{0.0, 1.0}, {1e-6, 0.95}, {2e-6, 0.80}}
	for i, row := range rows {
		if !closeTo(row.X, want[i][0], 1e-15) {
			t.Errorf("Row %d: expected x=%g, got %g", i, want[i][0], row.X)
		}
		// traces are stored single precision on disk
		if !closeTo(real(row.Values[0]), want[i][1], 1e-6) {
			t.Errorf("Row %d: expected %g, got %g", i, want[i][1], real(row.Values[0]))
		}
		if imag(row.Values[0]) != 0 {
			t.Errorf("Row %d: transient value has imaginary part", i)
		}
	}
}

func TestParseSteppedBinary(t *testing.T) {
	header := strings.ReplaceAll(transientHeader, "Flags: real forward", "Flags: real forward stepped")
	header = strings.ReplaceAll(header, "No. Points: 3", "No. Points: 6")
	file := buildTransientRaw(header, [][]float64{
		{0.0, 1.0}, {1e-6, 0.9}, {2e-6, 0.8},
		{0.0, 2.0}, {1e-6, 1.9}, {2e-6, 1.8},
	})

	ds, err := Parse(file)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if ds.NumSteps() != 2 {
		t.Fatalf("Expected 2 steps, got %d", ds.NumSteps())
	}
	total := 0
	for i := range ds.Steps {
		if len(ds.Steps[i].Rows) != 3 {
			t.Errorf("Step %d: expected 3 rows, got %d", i, len(ds.Steps[i].Rows))
		}
		total += len(ds.Steps[i].Rows)
	}
	if total != ds.Meta.PointCount {
		t.Errorf("Row total %d diverges from declared %d", total, ds.Meta.PointCount)
	}
	if !closeTo(real(ds.Steps[1].Rows[0].Values[0]), 2.0, 1e-6) {
		t.Errorf("Step 1 row 0: expected 2.0, got %g", real(ds.Steps[1].Rows[0].Values[0]))
	}
}

func TestParseACBinary(t *testing.T) {
	ac := strings.ReplaceAll(acHeader, "No. Points: 5", "No. Points: 2")
	ac = strings.ReplaceAll(ac, "No. Variables: 3", "No. Variables: 2")
	ac = strings.ReplaceAll(ac, "\t2\tI(R1)\tdevice_current\n", "")
	file := buildACRaw(ac, [][]complex128{
		{complex(10, 0), complex(0.5, -0.5)},
		{complex(100, 0), complex(0.1, -0.9)},
	})

	ds, err := Parse(file)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if ds.Meta.Mode != data.ModeAC {
		t.Errorf("Expected AC mode, got %v", ds.Meta.Mode)
	}
	rows := ds.Steps[0].Rows
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].X != 10 || rows[1].X != 100 {
		t.Errorf("Unexpected frequency axis: %g, %g", rows[0].X, rows[1].X)
	}
	if rows[0].Values[0] != complex(0.5, -0.5) {
		t.Errorf("Expected 0.5-0.5i, got %v", rows[0].Values[0])
	}
}

func TestParseTruncated(t *testing.T) {
	file := buildTransientRaw(transientHeader, [][]float64{
		{0.0, 1.0},
		{1e-6, 0.95},
		{2e-6, 0.80},
	})
	// one byte short of a full final row
	file = file[:len(file)-1]

	_, err := Parse(file)
	if err == nil {
		t.Fatal("Expected an error")
	}
	var truncErr *data.TruncatedDataError
	if !errors.As(err, &truncErr) {
		t.Fatalf("Expected TruncatedDataError, got %T: %v", err, err)
	}
	if truncErr.RowSize != 12 {
		t.Errorf("Expected row size 12, got %d", truncErr.RowSize)
	}
	if truncErr.Remainder != 11 {
		t.Errorf("Expected remainder 11, got %d", truncErr.Remainder)
	}
}

func TestParseSchemaMismatch(t *testing.T) {
	header := strings.ReplaceAll(transientHeader, "No. Points: 3", "No. Points: 5")
	file := buildTransientRaw(header, [][]float64{
		{0.0, 1.0},
		{1e-6, 0.95},
		{2e-6, 0.80},
	})

	_, err := Parse(file)
	if err == nil {
		t.Fatal("Expected an error")
	}
	var schemaErr *data.SchemaMismatchError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Expected SchemaMismatchError, got %T: %v", err, err)
	}
	if schemaErr.Declared != 5 || schemaErr.Got != 3 {
		t.Errorf("Unexpected counts: %+v", schemaErr)
	}
}

const asciiTransient = `Title: * C:\sim\rc_filter.asc
Date: Sat Aug 30 12:00:00 2025
Plotname: Transient Analysis
Flags: real forward
No. Variables: 2
No. Points: 3
Variables:
	0	time	time
	1	V(out)	voltage
Values:
0	0.000000000000000e+000
	1.000000e+000
1	1.000000000000000e-006
	9.500000e-001
2	2.000000000000000e-006
	8.000000e-001
`

func TestParseASCIIValues(t *testing.T) {
	ds, err := Parse([]byte(asciiTransient))
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if ds.Meta.Encoding != data.EncodingASCII {
		t.Errorf("Expected ASCII encoding, got %v", ds.Meta.Encoding)
	}
	rows := ds.Steps[0].Rows
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if !closeTo(rows[1].X, 1e-6, 1e-20) {
		t.Errorf("Expected x=1e-6, got %g", rows[1].X)
	}
	if !closeTo(real(rows[2].Values[0]), 0.8, 1e-12) {
		t.Errorf("Expected 0.8, got %g", real(rows[2].Values[0]))
	}
}

func TestParseASCIIStepped(t *testing.T) {
	src := strings.ReplaceAll(asciiTransient, "Flags: real forward", "Flags: real forward stepped")
	src = strings.ReplaceAll(src, "No. Points: 3", "No. Points: 6")
	src += `0	0.000000000000000e+000
	2.000000e+000
1	1.000000000000000e-006
	1.900000e+000
2	2.000000000000000e-006
	1.800000e+000
`
	ds, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if ds.NumSteps() != 2 {
		t.Fatalf("Expected 2 steps, got %d", ds.NumSteps())
	}
	if !closeTo(real(ds.Steps[1].Rows[0].Values[0]), 2.0, 1e-12) {
		t.Errorf("Step 1 row 0: expected 2.0, got %g", real(ds.Steps[1].Rows[0].Values[0]))
	}
}

func TestParseCorruptASCIIRecord(t *testing.T) {
	src := strings.ReplaceAll(asciiTransient, "\t9.500000e-001\n", "\tnot-a-number\n")
	_, err := Parse([]byte(src))
	if err == nil {
		t.Fatal("Expected an error")
	}
	var corruptErr *data.CorruptRecordError
	if !errors.As(err, &corruptErr) {
		t.Fatalf("Expected CorruptRecordError, got %T: %v", err, err)
	}
}

// Segmenting with the computed row size must consume the block exactly,
// whatever the layout.
func TestSegmentRowSizeDeterminism(t *testing.T) {
	file := buildTransientRaw(transientHeader, [][]float64{
		{0.0, 1.0},
		{1e-6, 0.95},
		{2e-6, 0.80},
	})
	h, err := ScanHeader(file)
	if err != nil {
		t.Fatalf("Failed to scan header: %v", err)
	}
	segs, err := segmentData(h, file[h.DataOffset:])
	if err != nil {
		t.Fatalf("Failed to segment: %v", err)
	}
	sum := 0
	for _, s := range segs {
		if len(s.raw)%h.RowSize() != 0 {
			t.Errorf("Segment %d is not a whole number of rows", s.index)
		}
		sum += len(s.raw)
	}
	if sum != len(file)-int(h.DataOffset) {
		t.Errorf("Segments cover %d bytes of %d", sum, len(file)-int(h.DataOffset))
	}
}
