// Package io provides reading and writing of tabular data for the
// preprocessing pipeline.
//
// The primary implementation is CSV with automatic type inference. Columns
// whose non-empty cells all parse as numbers become float64 series; empty
// cells in a numeric column become NaN so downstream imputation sees genuine
// missingness. Everything else stays a string series, with the empty string
// as the missing marker.
package io

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/machinelab/tabprep/internal/dataframe"
)

// DataReader defines the interface for reading data from various sources
type DataReader interface {
	// Read reads data from the source and returns a DataFrame
	Read() (*dataframe.DataFrame, error)
}

// DataWriter defines the interface for writing data to various destinations
type DataWriter interface {
	// Write writes the DataFrame to the destination
	Write(df *dataframe.DataFrame) error
}

// CSVOptions contains configuration options for CSV operations
type CSVOptions struct {
	// Delimiter is the field delimiter (default: comma)
	Delimiter rune
	// Comment is the comment character (default: 0 = disabled)
	Comment rune
	// Header indicates whether the first row contains headers
	Header bool
	// SkipInitialSpace indicates whether to skip initial whitespace
	SkipInitialSpace bool
}

// DefaultCSVOptions returns default CSV options
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter: ',',
		Comment:   0,
		Header:    true,
	}
}

// CSVReader reads CSV data into a DataFrame
type CSVReader struct {
	reader  io.Reader
	options CSVOptions
	mem     memory.Allocator
}

// NewCSVReader creates a CSVReader over the given source
func NewCSVReader(r io.Reader, options CSVOptions, mem memory.Allocator) *CSVReader {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	return &CSVReader{reader: r, options: options, mem: mem}
}

// CSVWriter writes a DataFrame as CSV
type CSVWriter struct {
	writer  io.Writer
	options CSVOptions
}

// NewCSVWriter creates a CSVWriter over the given destination
func NewCSVWriter(w io.Writer, options CSVOptions) *CSVWriter {
	return &CSVWriter{writer: w, options: options}
}
