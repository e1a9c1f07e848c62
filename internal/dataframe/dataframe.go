// Package dataframe provides a column-ordered table of typed series.
package dataframe

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/machinelab/tabprep/internal/series"
)

// DataFrame represents a table of data with typed columns
type DataFrame struct {
	columns map[string]ISeries
	order   []string // Maintains column order
}

// New creates a new DataFrame from a slice of ISeries
func New(cols ...ISeries) *DataFrame {
	columns := make(map[string]ISeries)
	order := make([]string, 0, len(cols))

	for _, s := range cols {
		name := s.Name()
		columns[name] = s
		order = append(order, name)
	}

	return &DataFrame{columns: columns, order: order}
}

// Columns returns the names of all columns in order
func (df *DataFrame) Columns() []string {
	if len(df.order) == 0 {
		return []string{}
	}
	return append([]string(nil), df.order...)
}

// Len returns the number of rows (assumes all columns have same length)
func (df *DataFrame) Len() int {
	if len(df.order) > 0 {
		if col, exists := df.columns[df.order[0]]; exists {
			return col.Len()
		}
	}
	return 0
}

// Width returns the number of columns
func (df *DataFrame) Width() int {
	return len(df.columns)
}

// Column returns the series for the given column name
func (df *DataFrame) Column(name string) (ISeries, bool) {
	col, exists := df.columns[name]
	return col, exists
}

// HasColumn checks if a column exists
func (df *DataFrame) HasColumn(name string) bool {
	_, exists := df.columns[name]
	return exists
}

// Select returns a new DataFrame with only the specified columns, in the
// given order. A name not present in the frame is an error: the preprocessing
// stages route by fixed column lists and a missing column means bad input.
func (df *DataFrame) Select(names ...string) (*DataFrame, error) {
	newColumns := make(map[string]ISeries)
	newOrder := make([]string, 0, len(names))

	for _, name := range names {
		col, exists := df.columns[name]
		if !exists {
			return nil, fmt.Errorf("column %q does not exist", name)
		}
		newColumns[name] = col
		newOrder = append(newOrder, name)
	}

	return &DataFrame{columns: newColumns, order: newOrder}, nil
}

// Drop returns a new DataFrame without the specified columns
func (df *DataFrame) Drop(names ...string) *DataFrame {
	dropSet := make(map[string]bool)
	for _, name := range names {
		dropSet[name] = true
	}

	newColumns := make(map[string]ISeries)
	newOrder := make([]string, 0, len(df.order))

	for _, name := range df.order {
		if !dropSet[name] {
			newColumns[name] = df.columns[name]
			newOrder = append(newOrder, name)
		}
	}

	return &DataFrame{columns: newColumns, order: newOrder}
}

// WithColumn returns a new DataFrame with the given series added, replacing
// an existing column of the same name in place.
func (df *DataFrame) WithColumn(col ISeries) *DataFrame {
	newColumns := make(map[string]ISeries, len(df.columns)+1)
	newOrder := make([]string, 0, len(df.order)+1)

	replaced := false
	for _, name := range df.order {
		if name == col.Name() {
			newColumns[name] = col
			replaced = true
		} else {
			newColumns[name] = df.columns[name]
		}
		newOrder = append(newOrder, name)
	}
	if !replaced {
		newColumns[col.Name()] = col
		newOrder = append(newOrder, col.Name())
	}

	return &DataFrame{columns: newColumns, order: newOrder}
}

// IsNumeric reports whether the named column holds int64 or float64 data.
func (df *DataFrame) IsNumeric(name string) bool {
	col, exists := df.columns[name]
	if !exists {
		return false
	}
	switch col.DataType().ID() {
	case arrow.INT64, arrow.FLOAT64:
		return true
	}
	return false
}

// Float64Values extracts the named column as a float64 slice. Int64 columns
// are widened; missing float cells come back as NaN.
func (df *DataFrame) Float64Values(name string) ([]float64, error) {
	col, exists := df.columns[name]
	if !exists {
		return nil, fmt.Errorf("column %q does not exist", name)
	}

	arr := col.Array()
	defer arr.Release()

	switch typed := arr.(type) {
	case *array.Float64:
		values := make([]float64, typed.Len())
		copy(values, typed.Float64Values())
		return values, nil
	case *array.Int64:
		values := make([]float64, typed.Len())
		for i, v := range typed.Int64Values() {
			values[i] = float64(v)
		}
		return values, nil
	default:
		return nil, fmt.Errorf("column %q is not numeric (type %s)", name, col.DataType())
	}
}

// StringValues extracts the named column as a string slice.
func (df *DataFrame) StringValues(name string) ([]string, error) {
	col, exists := df.columns[name]
	if !exists {
		return nil, fmt.Errorf("column %q does not exist", name)
	}

	arr := col.Array()
	defer arr.Release()

	typed, ok := arr.(*array.String)
	if !ok {
		return nil, fmt.Errorf("column %q is not a string column (type %s)", name, col.DataType())
	}
	values := make([]string, typed.Len())
	for i := range typed.Len() {
		values[i] = typed.Value(i)
	}
	return values, nil
}

// Slice creates a new DataFrame containing rows from start (inclusive) to
// end (exclusive). The copy owns its own memory.
func (df *DataFrame) Slice(start, end int) *DataFrame {
	length := df.Len()
	if start < 0 || end < 0 || start >= end || start >= length {
		return New()
	}
	if end > length {
		end = length
	}

	mem := memory.NewGoAllocator()
	sliced := make([]ISeries, 0, len(df.order))
	for _, name := range df.order {
		sliced = append(sliced, sliceSeries(df.columns[name], start, end, mem))
	}
	return New(sliced...)
}

func sliceSeries(s ISeries, start, end int, mem memory.Allocator) ISeries {
	arr := s.Array()
	defer arr.Release()

	n := end - start
	switch typed := arr.(type) {
	case *array.String:
		values := make([]string, n)
		for i := range n {
			values[i] = typed.Value(start + i)
		}
		return series.New(s.Name(), values, mem)
	case *array.Int64:
		values := make([]int64, n)
		copy(values, typed.Int64Values()[start:end])
		return series.New(s.Name(), values, mem)
	case *array.Float64:
		values := make([]float64, n)
		copy(values, typed.Float64Values()[start:end])
		return series.New(s.Name(), values, mem)
	case *array.Boolean:
		values := make([]bool, n)
		for i := range n {
			values[i] = typed.Value(start + i)
		}
		return series.New(s.Name(), values, mem)
	default:
		return series.New(s.Name(), []string{}, mem)
	}
}

// String returns a string representation of the DataFrame
func (df *DataFrame) String() string {
	if len(df.columns) == 0 {
		return "DataFrame[empty]"
	}

	parts := []string{fmt.Sprintf("DataFrame[%dx%d]", df.Len(), df.Width())}
	for _, name := range df.order {
		parts = append(parts, fmt.Sprintf("  %s: %s", name, df.columns[name].DataType().String()))
	}
	return strings.Join(parts, "\n")
}

// Release releases all underlying Arrow memory
func (df *DataFrame) Release() {
	for _, col := range df.columns {
		col.Release()
	}
}
