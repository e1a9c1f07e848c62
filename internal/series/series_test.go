package series_test

import (
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/machinelab/tabprep/internal/series"
)

func TestNew(t *testing.T) {
	mem := memory.NewGoAllocator()

	t.Run("creates string series", func(t *testing.T) {
		s := series.New("Type", []string{"L", "M", "H"}, mem)
		defer s.Release()

		assert.Equal(t, "Type", s.Name())
		assert.Equal(t, 3, s.Len())
		assert.Equal(t, []string{"L", "M", "H"}, s.Values())
		assert.Equal(t, "M", s.Value(1))
	})

	t.Run("creates float series", func(t *testing.T) {
		s := series.New("Torque Nm", []float64{42.8, 46.3, 39.5}, mem)
		defer s.Release()

		assert.Equal(t, 3, s.Len())
		assert.InDelta(t, 46.3, s.Value(1), 1e-12)
	})

	t.Run("rejects unsupported element type", func(t *testing.T) {
		_, err := series.NewSafe("bad", []complex128{1i}, mem)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported element type")
	})
}

func TestIsNull(t *testing.T) {
	mem := memory.NewGoAllocator()

	t.Run("NaN counts as missing in float columns", func(t *testing.T) {
		s := series.New("Tool wear min", []float64{3, math.NaN(), 9}, mem)
		defer s.Release()

		assert.False(t, s.IsNull(0))
		assert.True(t, s.IsNull(1))
		assert.False(t, s.IsNull(2))
	})

	t.Run("empty string counts as missing in string columns", func(t *testing.T) {
		s := series.New("Type", []string{"L", "", "H"}, mem)
		defer s.Release()

		assert.False(t, s.IsNull(0))
		assert.True(t, s.IsNull(1))
	})

	t.Run("out of range index is not missing", func(t *testing.T) {
		s := series.New("x", []int64{1}, mem)
		defer s.Release()

		assert.False(t, s.IsNull(5))
	})
}

func TestGetAsString(t *testing.T) {
	mem := memory.NewGoAllocator()

	s := series.New("speed", []float64{1551, math.NaN()}, mem)
	defer s.Release()

	assert.Equal(t, "1551", s.GetAsString(0))
	assert.Equal(t, "", s.GetAsString(1), "missing cells render as empty")

	i := series.New("n", []int64{-3}, mem)
	defer i.Release()
	assert.Equal(t, "-3", i.GetAsString(0))

	b := series.New("flag", []bool{true}, mem)
	defer b.Release()
	assert.Equal(t, "true", b.GetAsString(0))
}
