package resample_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/machinelab/tabprep/internal/resample"
)

// Two well separated clusters: six majority rows near the origin, three
// minority rows near (10, 10). Separation keeps Tomek links out of the
// oversampling assertions.
func imbalancedData() (*mat.Dense, []int) {
	x := mat.NewDense(9, 2, []float64{
		0.0, 0.1,
		0.2, 0.0,
		0.1, 0.3,
		0.3, 0.2,
		0.0, 0.4,
		0.4, 0.1,
		10.0, 10.1,
		10.2, 10.0,
		10.1, 10.3,
	})
	y := []int{0, 0, 0, 0, 0, 0, 1, 1, 1}
	return x, y
}

func TestSMOTETomek(t *testing.T) {
	t.Run("minority class is raised to the majority count", func(t *testing.T) {
		x, y := imbalancedData()

		outX, outY, err := resample.NewSMOTETomek(42, 5).FitResample(x, y)
		require.NoError(t, err)

		counts := map[int]int{}
		for _, label := range outY {
			counts[label]++
		}
		assert.Equal(t, 6, counts[0])
		assert.Equal(t, 6, counts[1])

		rows, cols := outX.Dims()
		assert.Equal(t, len(outY), rows)
		assert.Equal(t, 2, cols)
	})

	t.Run("synthetic rows interpolate within the minority cluster", func(t *testing.T) {
		x, y := imbalancedData()

		outX, outY, err := resample.NewSMOTETomek(42, 5).FitResample(x, y)
		require.NoError(t, err)

		for i, label := range outY {
			if label != 1 {
				continue
			}
			assert.InDelta(t, 10.15, outX.At(i, 0), 0.2)
			assert.InDelta(t, 10.15, outX.At(i, 1), 0.2)
		}
	})

	t.Run("same seed reproduces bit-identical output", func(t *testing.T) {
		x, y := imbalancedData()

		x1, y1, err := resample.NewSMOTETomek(42, 5).FitResample(x, y)
		require.NoError(t, err)
		x2, y2, err := resample.NewSMOTETomek(42, 5).FitResample(x, y)
		require.NoError(t, err)

		assert.True(t, mat.Equal(x1, x2))
		assert.Equal(t, y1, y2)
	})

	t.Run("mutual opposite-class neighbors are both removed", func(t *testing.T) {
		// Classes are already balanced, so only the Tomek pass runs.
		// Rows at 1.0 and 1.2 are each other's nearest neighbors with
		// different labels.
		x := mat.NewDense(4, 1, []float64{0.0, 1.0, 1.2, 10.0})
		y := []int{0, 0, 1, 1}

		outX, outY, err := resample.NewSMOTETomek(42, 5).FitResample(x, y)
		require.NoError(t, err)

		require.Equal(t, []int{0, 1}, outY)
		assert.Equal(t, 0.0, outX.At(0, 0))
		assert.Equal(t, 10.0, outX.At(1, 0))
	})

	t.Run("single-sample minority class errors", func(t *testing.T) {
		x := mat.NewDense(4, 1, []float64{0, 1, 2, 9})
		y := []int{0, 0, 0, 1}

		_, _, err := resample.NewSMOTETomek(42, 5).FitResample(x, y)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "class 1")
	})

	t.Run("mismatched target length errors", func(t *testing.T) {
		x := mat.NewDense(2, 1, []float64{0, 1})

		_, _, err := resample.NewSMOTETomek(42, 5).FitResample(x, []int{0})
		require.Error(t, err)
	})

	t.Run("balanced separated classes pass through untouched", func(t *testing.T) {
		x := mat.NewDense(4, 1, []float64{0.0, 0.5, 10.0, 10.5})
		y := []int{0, 0, 1, 1}

		outX, outY, err := resample.NewSMOTETomek(42, 5).FitResample(x, y)
		require.NoError(t, err)
		assert.True(t, mat.Equal(x, outX))
		assert.Equal(t, y, outY)
	})
}
