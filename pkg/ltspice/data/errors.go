package data

import "fmt"

// FormatError reports a missing or malformed required header field
type FormatError struct {
	Line   int   // 1-based header line number
	Offset int64 // byte offset into the original file
	Msg    string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid header at line %d (byte %d): %s", e.Line, e.Offset, e.Msg)
}

// UnsupportedModeError reports a recognized but unsupported combination
// of analysis mode, flags and encoding.
type UnsupportedModeError struct {
	PlotName string
	Flags    string
	Msg      string
}

func (e *UnsupportedModeError) Error() string {
	return fmt.Sprintf("unsupported mode %q (flags %q): %s", e.PlotName, e.Flags, e.Msg)
}

// TruncatedDataError reports a data block whose length is not a whole
// number of encoded rows, indicating an incomplete write.
type TruncatedDataError struct {
	Offset    int64 // byte offset of the first incomplete row
	RowSize   int
	Remainder int
}

func (e *TruncatedDataError) Error() string {
	return fmt.Sprintf("truncated data block at byte %d: %d trailing bytes, row size is %d",
		e.Offset, e.Remainder, e.RowSize)
}

// CorruptRecordError reports a row whose byte or token count does not
// match the schema declared in the header.
type CorruptRecordError struct {
	Row    int   // 0-based row index within its step
	Offset int64 // byte offset (binary) or line number (ASCII/text)
	Msg    string
}

func (e *CorruptRecordError) Error() string {
	return fmt.Sprintf("corrupt record %d at %d: %s", e.Row, e.Offset, e.Msg)
}

// SchemaMismatchError reports assembled row counts diverging from the
// point count declared in the header.
type SchemaMismatchError struct {
	Declared int
	Got      int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("header declares %d points, decoded %d", e.Declared, e.Got)
}
