package transform_test

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/machinelab/tabprep/internal/dataframe"
	"github.com/machinelab/tabprep/internal/series"
	"github.com/machinelab/tabprep/internal/transform"
)

func TestLabelEncoding(t *testing.T) {
	mem := memory.NewGoAllocator()

	t.Run("learns sorted mapping per column", func(t *testing.T) {
		df := dataframe.New(series.New("Type", []string{"C", "A", "B", "A"}, mem))
		defer df.Release()

		enc := transform.NewLabelEncoding("Type")
		require.NoError(t, enc.Fit(df))

		assert.Equal(t, map[string][]string{"Type": {"A", "B", "C"}}, enc.Classes())

		out, err := enc.Transform(df)
		require.NoError(t, err)

		values, err := out.Float64Values("Type")
		require.NoError(t, err)
		assert.Equal(t, []float64{2, 0, 1, 0}, values)
	})

	t.Run("transform is idempotent on identical input", func(t *testing.T) {
		df := dataframe.New(series.New("Type", []string{"M", "L", "H"}, mem))
		defer df.Release()

		enc := transform.NewLabelEncoding("Type")
		require.NoError(t, enc.Fit(df))

		first, err := enc.Transform(df)
		require.NoError(t, err)
		second, err := enc.Transform(df)
		require.NoError(t, err)

		a, err := first.Float64Values("Type")
		require.NoError(t, err)
		b, err := second.Float64Values("Type")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("errors on value unseen at fit time", func(t *testing.T) {
		fitDF := dataframe.New(series.New("Type", []string{"L", "M"}, mem))
		defer fitDF.Release()
		newDF := dataframe.New(series.New("Type", []string{"L", "H"}, mem))
		defer newDF.Release()

		enc := transform.NewLabelEncoding("Type")
		require.NoError(t, enc.Fit(fitDF))

		_, err := enc.Transform(newDF)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"H"`)
	})

	t.Run("numeric columns get no mapping", func(t *testing.T) {
		df := dataframe.New(
			series.New("Type", []string{"L", "M"}, mem),
			series.New("Torque Nm", []float64{40, 42}, mem),
		)
		defer df.Release()

		enc := transform.NewLabelEncoding()
		require.NoError(t, enc.Fit(df))

		classes := enc.Classes()
		assert.Contains(t, classes, "Type")
		assert.NotContains(t, classes, "Torque Nm")

		out, err := enc.Transform(df)
		require.NoError(t, err)
		torque, err := out.Float64Values("Torque Nm")
		require.NoError(t, err)
		assert.Equal(t, []float64{40, 42}, torque, "unmapped columns pass through")
	})

	t.Run("transform before fit errors", func(t *testing.T) {
		df := dataframe.New(series.New("Type", []string{"L"}, mem))
		defer df.Release()

		_, err := transform.NewLabelEncoding("Type").Transform(df)
		require.Error(t, err)
	})

	t.Run("restores from persisted classes", func(t *testing.T) {
		enc := transform.NewLabelEncodingFromClasses(map[string][]string{"Type": {"H", "L", "M"}})

		df := dataframe.New(series.New("Type", []string{"M", "H"}, mem))
		defer df.Release()

		out, err := enc.Transform(df)
		require.NoError(t, err)
		values, err := out.Float64Values("Type")
		require.NoError(t, err)
		assert.Equal(t, []float64{2, 0}, values)
	})
}

func TestTargetEncoder(t *testing.T) {
	t.Run("sorted alphabetical mapping", func(t *testing.T) {
		enc := transform.NewTargetEncoder()
		codes, err := enc.FitTransform([]string{"No Failure", "Heat Dissipation Failure", "No Failure"})
		require.NoError(t, err)

		assert.Equal(t, []string{"Heat Dissipation Failure", "No Failure"}, enc.Classes())
		assert.Equal(t, []int{1, 0, 1}, codes)
	})

	t.Run("frozen mapping applies to new labels", func(t *testing.T) {
		enc := transform.NewTargetEncoder()
		_, err := enc.FitTransform([]string{"A", "B", "C"})
		require.NoError(t, err)

		codes, err := enc.Transform([]string{"C", "A"})
		require.NoError(t, err)
		assert.Equal(t, []int{2, 0}, codes)
	})

	t.Run("errors on unseen label", func(t *testing.T) {
		enc := transform.NewTargetEncoder()
		_, err := enc.FitTransform([]string{"A", "B"})
		require.NoError(t, err)

		_, err = enc.Transform([]string{"Z"})
		require.Error(t, err)
	})

	t.Run("errors before fit", func(t *testing.T) {
		_, err := transform.NewTargetEncoder().Transform([]string{"A"})
		require.Error(t, err)
	})

	t.Run("errors on empty fit input", func(t *testing.T) {
		require.Error(t, transform.NewTargetEncoder().Fit(nil))
	})
}
