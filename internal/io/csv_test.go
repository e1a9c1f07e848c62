package io_test

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/machinelab/tabprep/internal/dataframe"
	"github.com/machinelab/tabprep/internal/io"
	"github.com/machinelab/tabprep/internal/series"
)

func TestCSVReader(t *testing.T) {
	mem := memory.NewGoAllocator()

	t.Run("reads CSV with headers and infers types", func(t *testing.T) {
		csvData := `Type,Torque Nm,Tool wear min
M,42.8,0
L,46.3,3
L,39.5,9`

		reader := io.NewCSVReader(strings.NewReader(csvData), io.DefaultCSVOptions(), mem)
		df, err := reader.Read()
		require.NoError(t, err)
		defer df.Release()

		assert.Equal(t, 3, df.Len())
		assert.Equal(t, []string{"Type", "Torque Nm", "Tool wear min"}, df.Columns())

		types, err := df.StringValues("Type")
		require.NoError(t, err)
		assert.Equal(t, []string{"M", "L", "L"}, types)

		torque, err := df.Float64Values("Torque Nm")
		require.NoError(t, err)
		assert.Equal(t, []float64{42.8, 46.3, 39.5}, torque)
	})

	t.Run("empty numeric cells become NaN", func(t *testing.T) {
		csvData := `Torque Nm,Type
42.8,M
,L
39.5,M`

		reader := io.NewCSVReader(strings.NewReader(csvData), io.DefaultCSVOptions(), mem)
		df, err := reader.Read()
		require.NoError(t, err)
		defer df.Release()

		values, err := df.Float64Values("Torque Nm")
		require.NoError(t, err)
		require.Len(t, values, 3)
		assert.True(t, math.IsNaN(values[1]))
		assert.Equal(t, 42.8, values[0])
	})

	t.Run("a column with any non-numeric cell stays a string column", func(t *testing.T) {
		csvData := `mixed
1
two
3`

		reader := io.NewCSVReader(strings.NewReader(csvData), io.DefaultCSVOptions(), mem)
		df, err := reader.Read()
		require.NoError(t, err)
		defer df.Release()

		values, err := df.StringValues("mixed")
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "two", "3"}, values)
	})

	t.Run("generates column names without headers", func(t *testing.T) {
		options := io.DefaultCSVOptions()
		options.Header = false

		reader := io.NewCSVReader(strings.NewReader("M,42.8\nL,46.3"), options, mem)
		df, err := reader.Read()
		require.NoError(t, err)
		defer df.Release()

		assert.Equal(t, []string{"column_0", "column_1"}, df.Columns())
	})

	t.Run("headers only yields empty frame", func(t *testing.T) {
		reader := io.NewCSVReader(strings.NewReader("a,b\n"), io.DefaultCSVOptions(), mem)
		df, err := reader.Read()
		require.NoError(t, err)
		defer df.Release()

		assert.Equal(t, 0, df.Len())
		assert.Equal(t, 2, df.Width())
	})
}

func TestCSVWriter(t *testing.T) {
	mem := memory.NewGoAllocator()

	t.Run("round trips through a file", func(t *testing.T) {
		df := dataframe.New(
			series.New("Type", []string{"M", "L"}, mem),
			series.New("Torque Nm", []float64{42.8, 46.3}, mem),
		)
		defer df.Release()

		path := filepath.Join(t.TempDir(), "out.csv")
		require.NoError(t, io.WriteFile(path, df))

		back, err := io.ReadFile(path)
		require.NoError(t, err)
		defer back.Release()

		assert.Equal(t, df.Columns(), back.Columns())
		torque, err := back.Float64Values("Torque Nm")
		require.NoError(t, err)
		assert.Equal(t, []float64{42.8, 46.3}, torque)
	})

	t.Run("missing cells serialize as empty", func(t *testing.T) {
		df := dataframe.New(
			series.New("x", []float64{1, math.NaN()}, mem),
			series.New("Type", []string{"M", "L"}, mem),
		)
		defer df.Release()

		var sb strings.Builder
		writer := io.NewCSVWriter(&sb, io.DefaultCSVOptions())
		require.NoError(t, writer.Write(df))

		assert.Equal(t, "x,Type\n1,M\n,L\n", sb.String())
	})
}

func TestReadFileMissing(t *testing.T) {
	_, err := io.ReadFile(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}
