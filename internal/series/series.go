// Package series provides typed, Arrow-backed data columns.
package series

import (
	"fmt"
	"math"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Series represents a named column with an Apache Arrow backend.
//
// Missing values follow the pipeline convention: float64 columns carry NaN
// for a missing cell, string columns carry the empty string. Integer and
// boolean columns have no missing representation.
type Series[T any] struct {
	name  string
	array arrow.Array
}

// New creates a Series from a slice of values.
// Supported element types are string, int64, float64 and bool.
func New[T any](name string, values []T, mem memory.Allocator) *Series[T] {
	s, err := NewSafe(name, values, mem)
	if err != nil {
		panic(err)
	}
	return s
}

// NewSafe creates a Series from a slice of values, returning an error for
// unsupported element types instead of panicking.
func NewSafe[T any](name string, values []T, mem memory.Allocator) (*Series[T], error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	var arr arrow.Array

	switch v := any(values).(type) {
	case []string:
		builder := array.NewStringBuilder(mem)
		defer builder.Release()
		builder.AppendValues(v, nil)
		arr = builder.NewArray()
	case []int64:
		builder := array.NewInt64Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, nil)
		arr = builder.NewArray()
	case []float64:
		builder := array.NewFloat64Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, nil)
		arr = builder.NewArray()
	case []bool:
		builder := array.NewBooleanBuilder(mem)
		defer builder.Release()
		builder.AppendValues(v, nil)
		arr = builder.NewArray()
	default:
		return nil, fmt.Errorf("series: unsupported element type %T", values)
	}

	return &Series[T]{name: name, array: arr}, nil
}

// Name returns the column name.
func (s *Series[T]) Name() string {
	return s.name
}

// Len returns the number of rows.
func (s *Series[T]) Len() int {
	return s.array.Len()
}

// Values returns the data as a Go slice.
func (s *Series[T]) Values() []T {
	result := make([]T, s.array.Len())

	switch arr := s.array.(type) {
	case *array.String:
		values := any(result).([]string)
		for i := range arr.Len() {
			values[i] = arr.Value(i)
		}
	case *array.Int64:
		values := any(result).([]int64)
		copy(values, arr.Int64Values())
	case *array.Float64:
		values := any(result).([]float64)
		copy(values, arr.Float64Values())
	case *array.Boolean:
		values := any(result).([]bool)
		for i := range arr.Len() {
			values[i] = arr.Value(i)
		}
	default:
		panic(fmt.Sprintf("series: unsupported array type %T", arr))
	}

	return result
}

// Value returns the value at the given index, or the zero value when the
// index is out of range.
func (s *Series[T]) Value(index int) T {
	var result T
	if index < 0 || index >= s.array.Len() {
		return result
	}

	switch arr := s.array.(type) {
	case *array.String:
		if v, ok := any(&result).(*string); ok {
			*v = arr.Value(index)
		}
	case *array.Int64:
		if v, ok := any(&result).(*int64); ok {
			*v = arr.Value(index)
		}
	case *array.Float64:
		if v, ok := any(&result).(*float64); ok {
			*v = arr.Value(index)
		}
	case *array.Boolean:
		if v, ok := any(&result).(*bool); ok {
			*v = arr.Value(index)
		}
	}

	return result
}

// DataType returns the Arrow data type.
func (s *Series[T]) DataType() arrow.DataType {
	return s.array.DataType()
}

// IsNull reports whether the value at index is missing. For float64 columns
// NaN counts as missing, for string columns the empty string does.
func (s *Series[T]) IsNull(index int) bool {
	if index < 0 || index >= s.array.Len() {
		return false
	}
	if s.array.IsNull(index) {
		return true
	}
	switch arr := s.array.(type) {
	case *array.Float64:
		return math.IsNaN(arr.Value(index))
	case *array.String:
		return arr.Value(index) == ""
	}
	return false
}

// GetAsString returns the value at index formatted as a string.
func (s *Series[T]) GetAsString(index int) string {
	if index < 0 || index >= s.array.Len() {
		return ""
	}
	switch arr := s.array.(type) {
	case *array.String:
		return arr.Value(index)
	case *array.Int64:
		return strconv.FormatInt(arr.Value(index), 10)
	case *array.Float64:
		v := arr.Value(index)
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	case *array.Boolean:
		return strconv.FormatBool(arr.Value(index))
	default:
		return ""
	}
}

// String returns a short description of the series.
func (s *Series[T]) String() string {
	return fmt.Sprintf("Series[%s]: %s (len=%d)", s.array.DataType(), s.name, s.Len())
}

// Array returns the underlying Arrow array (retains a reference).
func (s *Series[T]) Array() arrow.Array {
	if s.array != nil {
		s.array.Retain()
		return s.array
	}
	return nil
}

// Release releases the underlying Arrow memory.
func (s *Series[T]) Release() {
	if s.array != nil {
		s.array.Release()
	}
}
