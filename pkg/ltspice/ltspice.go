// Package ltspice ties the two front-ends together: it sniffs whether an
// input file is a native .raw file or a plot text export and hands it to
// the matching parser. Both produce the same data.Dataset.
package ltspice

import (
	"bytes"
	"fmt"
	"os"

	"github.com/Electro707/ltspice-data-parser/pkg/ltspice/data"
	"github.com/Electro707/ltspice-data-parser/pkg/ltspice/raw"
	"github.com/Electro707/ltspice-data-parser/pkg/ltspice/textexport"
)

// Load reads and decodes a simulation output file of either kind
func Load(path string) (*data.Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(b)
}

// Parse decodes an in-memory simulation output file of either kind
func Parse(b []byte) (*data.Dataset, error) {
	if IsRaw(b) {
		return raw.Parse(b)
	}
	p, err := textexport.NewParser()
	if err != nil {
		return nil, err
	}
	return p.Parse(bytes.NewReader(b))
}

// IsRaw reports whether the buffer starts like a native raw file. Raw
// files always open with a "Title:" header line, possibly UTF-16LE
// encoded with or without a byte order mark.
func IsRaw(b []byte) bool {
	if bytes.HasPrefix(b, []byte{0xFF, 0xFE}) {
		b = b[2:]
	}
	if bytes.HasPrefix(b, []byte("Title:")) {
		return true
	}
	return bytes.HasPrefix(b, []byte{'T', 0, 'i', 0, 't', 0, 'l', 0, 'e', 0, ':', 0})
}
