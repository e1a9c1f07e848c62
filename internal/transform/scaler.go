package transform

import (
	"math"
	"sort"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"gonum.org/v1/gonum/stat"

	"github.com/machinelab/tabprep/internal/dataframe"
	"github.com/machinelab/tabprep/internal/errors"
	"github.com/machinelab/tabprep/internal/series"
)

// StandardScaler standardizes numeric columns using fit-time statistics:
// subtract the per-column mean and divide by the per-column population
// standard deviation. With mean-centering disabled only the division is
// applied, which suits integer-coded categories that have no natural zero.
//
// A zero-variance column gets a scale of 1, so constant values pass through
// untouched rather than dividing by zero.
type StandardScaler struct {
	withMean bool
	columns  []string
	means    map[string]float64
	scales   map[string]float64
}

// NewStandardScaler creates a scaler over the given columns. No columns
// means every numeric column of the fit table. withMean controls whether
// values are mean-centered before division.
func NewStandardScaler(withMean bool, columns ...string) *StandardScaler {
	return &StandardScaler{withMean: withMean, columns: columns}
}

// NewStandardScalerFromStats restores a fitted scaler from its statistics.
func NewStandardScalerFromStats(withMean bool, means, scales map[string]float64) *StandardScaler {
	sc := &StandardScaler{
		withMean: withMean,
		means:    make(map[string]float64, len(means)),
		scales:   make(map[string]float64, len(scales)),
	}
	for col, v := range means {
		sc.means[col] = v
	}
	for col, v := range scales {
		sc.scales[col] = v
		sc.columns = append(sc.columns, col)
	}
	sort.Strings(sc.columns)
	return sc
}

// Fit computes the per-column mean and standard deviation.
func (sc *StandardScaler) Fit(df *dataframe.DataFrame) error {
	sc.means = make(map[string]float64)
	sc.scales = make(map[string]float64)

	columns := sc.columns
	if len(columns) == 0 {
		for _, name := range df.Columns() {
			if df.IsNumeric(name) {
				columns = append(columns, name)
			}
		}
	}

	for _, col := range columns {
		if !df.HasColumn(col) {
			return errors.NewColumnNotFoundError("StandardScaler.Fit", col)
		}

		values, err := df.Float64Values(col)
		if err != nil {
			return errors.Wrap("StandardScaler.Fit", err)
		}
		if len(values) == 0 {
			return errors.NewDegenerateStatError("StandardScaler.Fit", col, "no values to fit on")
		}

		mean := stat.Mean(values, nil)
		scale := stat.PopStdDev(values, nil)
		if scale == 0 || math.IsNaN(scale) {
			scale = 1
		}

		sc.means[col] = mean
		sc.scales[col] = scale
	}

	return nil
}

// Transform returns a new frame with the fitted columns standardized.
func (sc *StandardScaler) Transform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if sc.scales == nil {
		return nil, errors.NewNotFittedError("StandardScaler.Transform")
	}

	mem := memory.NewGoAllocator()
	result := df

	for col, scale := range sc.scales {
		if !df.HasColumn(col) {
			return nil, errors.NewColumnNotFoundError("StandardScaler.Transform", col)
		}

		values, err := df.Float64Values(col)
		if err != nil {
			return nil, errors.Wrap("StandardScaler.Transform", err)
		}

		mean := 0.0
		if sc.withMean {
			mean = sc.means[col]
		}
		for i, v := range values {
			values[i] = (v - mean) / scale
		}

		result = result.WithColumn(series.New(col, values, mem))
	}

	return result, nil
}

// Means returns the fitted per-column means.
func (sc *StandardScaler) Means() map[string]float64 {
	out := make(map[string]float64, len(sc.means))
	for col, v := range sc.means {
		out[col] = v
	}
	return out
}

// Scales returns the fitted per-column standard deviations (1 for a
// zero-variance column).
func (sc *StandardScaler) Scales() map[string]float64 {
	out := make(map[string]float64, len(sc.scales))
	for col, v := range sc.scales {
		out[col] = v
	}
	return out
}
