package io

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/machinelab/tabprep/internal/dataframe"
	"github.com/machinelab/tabprep/internal/series"
)

// ReadFile reads a CSV file from disk into a DataFrame using default options.
func ReadFile(path string) (*dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := NewCSVReader(f, DefaultCSVOptions(), nil)
	return reader.Read()
}

// WriteFile writes a DataFrame to a CSV file on disk using default options.
func WriteFile(path string, df *dataframe.DataFrame) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	writer := NewCSVWriter(f, DefaultCSVOptions())
	return writer.Write(df)
}

// Read reads CSV data and returns a DataFrame
func (r *CSVReader) Read() (*dataframe.DataFrame, error) {
	csvReader := csv.NewReader(r.reader)
	csvReader.Comma = r.options.Delimiter
	csvReader.Comment = r.options.Comment
	csvReader.TrimLeadingSpace = r.options.SkipInitialSpace

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	if len(records) == 0 {
		return dataframe.New(), nil
	}

	var headers []string
	var dataRows [][]string

	if r.options.Header {
		headers = records[0]
		dataRows = records[1:]
	} else {
		numCols := len(records[0])
		headers = make([]string, numCols)
		for i := range numCols {
			headers[i] = fmt.Sprintf("column_%d", i)
		}
		dataRows = records
	}

	if len(dataRows) == 0 {
		var empty []dataframe.ISeries
		for _, header := range headers {
			s, err := series.NewSafe(header, []string{}, r.mem)
			if err != nil {
				return nil, fmt.Errorf("creating empty series for column %s: %w", header, err)
			}
			empty = append(empty, s)
		}
		return dataframe.New(empty...), nil
	}

	// Transpose data to work with columns
	numCols := len(headers)
	columns := make([][]string, numCols)
	for i := range numCols {
		columns[i] = make([]string, len(dataRows))
		for j, row := range dataRows {
			if i < len(row) {
				columns[i][j] = row[i]
			}
		}
	}

	var seriesList []dataframe.ISeries
	for i, header := range headers {
		s, err := r.createSeriesFromStrings(header, columns[i])
		if err != nil {
			return nil, fmt.Errorf("creating series for column %s: %w", header, err)
		}
		seriesList = append(seriesList, s)
	}

	return dataframe.New(seriesList...), nil
}

// createSeriesFromStrings creates a series from string data, inferring the
// appropriate type.
func (r *CSVReader) createSeriesFromStrings(name string, data []string) (dataframe.ISeries, error) {
	if isNumericColumn(data) {
		return r.createFloatSeries(name, data)
	}
	return series.NewSafe(name, data, r.mem)
}

// isNumericColumn reports whether every non-empty cell parses as a number.
// Empty cells are skipped: a numeric column with gaps is still numeric.
func isNumericColumn(data []string) bool {
	hasValue := false
	for _, value := range data {
		if value == "" {
			continue
		}
		hasValue = true
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return false
		}
	}
	return hasValue
}

// createFloatSeries creates a float64 series; empty cells become NaN.
func (r *CSVReader) createFloatSeries(name string, data []string) (dataframe.ISeries, error) {
	floatData := make([]float64, len(data))
	for i, value := range data {
		if value == "" {
			floatData[i] = math.NaN()
			continue
		}
		val, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q in column %s: %w", value, name, err)
		}
		floatData[i] = val
	}
	return series.NewSafe(name, floatData, r.mem)
}

// Write writes the DataFrame to CSV format
func (w *CSVWriter) Write(df *dataframe.DataFrame) error {
	csvWriter := csv.NewWriter(w.writer)
	csvWriter.Comma = w.options.Delimiter

	if w.options.Header {
		if err := csvWriter.Write(df.Columns()); err != nil {
			return fmt.Errorf("writing headers: %w", err)
		}
	}

	names := df.Columns()
	for i := range df.Len() {
		row := make([]string, df.Width())
		for j, colName := range names {
			column, exists := df.Column(colName)
			if !exists {
				continue
			}
			row[j] = column.GetAsString(i)
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}
