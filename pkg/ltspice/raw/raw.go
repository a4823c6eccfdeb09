// Package raw decodes LTSpice .raw simulation output files: a textual
// preamble describing the analysis, followed by a binary or ASCII data
// block whose layout depends on the header.
//
// The pipeline is header scan, step segmentation, per-segment value
// decode, then assembly into a data.Dataset. The whole file is read into
// memory once; decoding is pure CPU work over a read-only buffer.
package raw

import (
	"fmt"
	"os"

	"github.com/Electro707/ltspice-data-parser/pkg/ltspice/data"
	"golang.org/x/sync/errgroup"
)

// ParseFile reads and decodes a raw file from disk
func ParseFile(path string) (*data.Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw file: %w", err)
	}
	return Parse(b)
}

// Parse decodes a raw file already resident in memory. The buffer is
// never mutated.
func Parse(b []byte) (*data.Dataset, error) {
	h, err := ScanHeader(b)
	if err != nil {
		return nil, err
	}
	segs, err := segmentData(h, b[h.DataOffset:])
	if err != nil {
		return nil, err
	}

	// Segments are independent once the header is known, so stepped
	// sweeps decode in parallel. Results slot in by step index, never
	// by completion order.
	decoded := make([][]data.Row, len(segs))
	var g errgroup.Group
	for _, seg := range segs {
		seg := seg
		g.Go(func() error {
			rows, err := decodeSegment(h, seg)
			if err != nil {
				return err
			}
			decoded[seg.index] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return assemble(h, decoded)
}
