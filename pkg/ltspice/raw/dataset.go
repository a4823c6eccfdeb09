package raw

import (
	"github.com/Electro707/ltspice-data-parser/pkg/ltspice/data"
)

// assemble merges per-segment decode results into the terminal Dataset.
// Assembly is all-or-nothing: a malformed step invalidates the whole
// parse, since a partial dataset has no well-defined export semantics.
func assemble(h *HeaderInfo, decoded [][]data.Row) (*data.Dataset, error) {
	total := 0
	numProbes := len(h.Variables) - 1
	for _, rows := range decoded {
		for _, row := range rows {
			if len(row.Values) != numProbes {
				return nil, &data.SchemaMismatchError{Declared: numProbes, Got: len(row.Values)}
			}
		}
		total += len(rows)
	}
	// No. Points is the aggregate across every sweep step
	if h.PointCount > 0 && total != h.PointCount {
		return nil, &data.SchemaMismatchError{Declared: h.PointCount, Got: total}
	}

	ds := &data.Dataset{
		Meta:  h.Metadata(),
		Steps: make([]data.Step, 0, len(decoded)),
	}
	for _, rows := range decoded {
		// Binary raw files carry no step parameter value in the data
		// block; the step is identified by its ordinal alone
		ds.Steps = append(ds.Steps, data.Step{Rows: rows})
	}
	return ds, nil
}
