package results

import (
	"errors"
	"fmt"
)

// ErrNoValidRecords is returned when parsing succeeded but no record
// survived normalization. It is terminal for the run: there is nothing
// downstream stages could render.
var ErrNoValidRecords = errors.New("no valid records after normalization")

// UnsupportedFormatError reports a file extension outside the accepted
// set (.csv, .json, .txt).
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Ext == "" {
		return "unsupported file format: file has no extension"
	}
	return fmt.Sprintf("unsupported file format: %s", e.Ext)
}

// MalformedInputError reports an input file whose structure could not be
// parsed at all (broken CSV, non-object JSON, ...). Field-level problems
// never produce this error; they are absorbed during normalization.
type MalformedInputError struct {
	Format string
	Err    error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed %s input: %v", e.Format, e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }
