package ltspice

import (
	"testing"

	"github.com/Electro707/ltspice-data-parser/pkg/ltspice/data"
)

func TestIsRaw(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  bool
	}{
		{
			name:  "ascii raw header",
			input: []byte("Title: * circuit.asc\n"),
			want:  true,
		},
		{
			name:  "utf16 raw header with BOM",
			input: []byte{0xFF, 0xFE, 'T', 0, 'i', 0, 't', 0, 'l', 0, 'e', 0, ':', 0},
			want:  true,
		},
		{
			name:  "utf16 raw header without BOM",
			input: []byte{'T', 0, 'i', 0, 't', 0, 'l', 0, 'e', 0, ':', 0},
			want:  true,
		},
		{
			name:  "transient text export",
			input: []byte("time\tV(out)\n0\t1\n"),
			want:  false,
		},
		{
			name:  "AC text export",
			input: []byte("Freq.\tV(out)\n"),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRaw(tt.input); got != tt.want {
				t.Errorf("IsRaw = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDispatch(t *testing.T) {
	export := "time\tV(out)\n0.0\t1.0\n1.0e-06\t0.5\n"
	ds, err := Parse([]byte(export))
	if err != nil {
		t.Fatalf("Failed to parse text export: %v", err)
	}
	if ds.Meta.Mode != data.ModeTransient {
		t.Errorf("Expected transient mode, got %v", ds.Meta.Mode)
	}
	if len(ds.Steps[0].Rows) != 2 {
		t.Errorf("Expected 2 rows, got %d", len(ds.Steps[0].Rows))
	}
}
