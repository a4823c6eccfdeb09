package plotout

import (
	"testing"

	"github.com/Electro707/ltspice-data-parser/pkg/ltspice/data"
)

func acDataset() *data.Dataset {
	return &data.Dataset{
		Meta: data.Metadata{
			Mode:  data.ModeAC,
			Title: "bode",
			Variables: []data.Variable{
				{Name: "frequency", Unit: "frequency"},
				{Name: "V(out)", Unit: "voltage", Kind: data.KindComplex},
				{Name: "V(in)", Unit: "voltage", Kind: data.KindComplex},
			},
			Stepped: true,
		},
		Steps: []data.Step{
			{
				ParamName: "C1", ParamValue: 1e-9, HasParam: true,
				Rows: []data.Row{
					{X: 10, Values: []complex128{complex(1, 0), complex(1, 0)}},
					{X: 100, Values: []complex128{complex(0.5, -0.5), complex(1, 0)}},
				},
			},
			{
				ParamName: "C1", ParamValue: 2e-9, HasParam: true,
				Rows: []data.Row{
					{X: 10, Values: []complex128{complex(0.9, 0), complex(1, 0)}},
					{X: 100, Values: []complex128{complex(0.4, -0.4), complex(1, 0)}},
				},
			},
		},
	}
}

func TestRenderAllTraces(t *testing.T) {
	p, err := Render(acDataset(), Options{Probe: -1, LogX: true})
	if err != nil {
		t.Fatalf("Failed to render: %v", err)
	}
	if p.Title.Text != "bode" {
		t.Errorf("Expected dataset title, got %q", p.Title.Text)
	}
	if p.Y.Label.Text != "magnitude (dB)" {
		t.Errorf("Expected dB axis label, got %q", p.Y.Label.Text)
	}
}

func TestRenderSingleProbe(t *testing.T) {
	if _, err := Render(acDataset(), Options{Probe: 1}); err != nil {
		t.Fatalf("Failed to render single probe: %v", err)
	}
}

func TestRenderSelectorBounds(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "probe out of range", opts: Options{Probe: 2}},
		{name: "step out of range", opts: Options{Steps: []int{5}}},
		{name: "negative step", opts: Options{Steps: []int{-1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Render(acDataset(), tt.opts); err == nil {
				t.Fatal("Expected an error")
			}
		})
	}
}
