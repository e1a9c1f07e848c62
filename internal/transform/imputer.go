package transform

import (
	"math"
	"sort"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/machinelab/tabprep/internal/dataframe"
	"github.com/machinelab/tabprep/internal/errors"
	"github.com/machinelab/tabprep/internal/series"
)

// Strategy selects how an Imputer computes its fill value.
type Strategy string

const (
	// StrategyMedian fills missing numeric cells with the per-column
	// median computed over the fit data.
	StrategyMedian Strategy = "median"
	// StrategyMostFrequent fills missing cells with the most frequent
	// fit-time value; ties resolve to the smallest value.
	StrategyMostFrequent Strategy = "most_frequent"
)

// Imputer fills missing values (NaN in numeric columns, the empty string in
// string columns) with a per-column statistic frozen at fit time.
type Imputer struct {
	strategy    Strategy
	columns     []string
	numericFill map[string]float64
	stringFill  map[string]string
}

// NewImputer creates an imputer with the given strategy over the given
// columns. No columns means every column of the fit table.
func NewImputer(strategy Strategy, columns ...string) *Imputer {
	return &Imputer{strategy: strategy, columns: columns}
}

// NewImputerFromFills restores a fitted imputer from its fill values.
func NewImputerFromFills(strategy Strategy, numeric map[string]float64, str map[string]string) *Imputer {
	imp := &Imputer{
		strategy:    strategy,
		numericFill: make(map[string]float64, len(numeric)),
		stringFill:  make(map[string]string, len(str)),
	}
	for col, v := range numeric {
		imp.numericFill[col] = v
		imp.columns = append(imp.columns, col)
	}
	for col, v := range str {
		imp.stringFill[col] = v
		imp.columns = append(imp.columns, col)
	}
	sort.Strings(imp.columns)
	return imp
}

// Fit computes the fill value for each target column.
func (im *Imputer) Fit(df *dataframe.DataFrame) error {
	im.numericFill = make(map[string]float64)
	im.stringFill = make(map[string]string)

	columns := im.columns
	if len(columns) == 0 {
		columns = df.Columns()
	}

	for _, col := range columns {
		if !df.HasColumn(col) {
			return errors.NewColumnNotFoundError("Imputer.Fit", col)
		}

		if df.IsNumeric(col) {
			values, err := df.Float64Values(col)
			if err != nil {
				return errors.Wrap("Imputer.Fit", err)
			}
			fill, err := im.numericStatistic(col, values)
			if err != nil {
				return err
			}
			im.numericFill[col] = fill
			continue
		}

		if im.strategy == StrategyMedian {
			return errors.NewInvalidInputError("Imputer.Fit",
				"median strategy requires a numeric column, got string column "+col)
		}

		values, err := df.StringValues(col)
		if err != nil {
			return errors.Wrap("Imputer.Fit", err)
		}
		fill, err := mostFrequentString(col, values)
		if err != nil {
			return err
		}
		im.stringFill[col] = fill
	}

	return nil
}

func (im *Imputer) numericStatistic(col string, values []float64) (float64, error) {
	observed := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			observed = append(observed, v)
		}
	}
	if len(observed) == 0 {
		return 0, errors.NewDegenerateStatError("Imputer.Fit", col, "no observed values to impute from")
	}

	switch im.strategy {
	case StrategyMedian:
		return median(observed), nil
	case StrategyMostFrequent:
		return mostFrequentFloat(observed), nil
	default:
		return 0, errors.NewInvalidInputError("Imputer.Fit", "unknown strategy "+string(im.strategy))
	}
}

// Transform returns a new frame with missing cells filled.
func (im *Imputer) Transform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if im.numericFill == nil && im.stringFill == nil {
		return nil, errors.NewNotFittedError("Imputer.Transform")
	}

	mem := memory.NewGoAllocator()
	result := df

	for col, fill := range im.numericFill {
		if !df.HasColumn(col) {
			return nil, errors.NewColumnNotFoundError("Imputer.Transform", col)
		}
		values, err := df.Float64Values(col)
		if err != nil {
			return nil, errors.Wrap("Imputer.Transform", err)
		}
		changed := false
		for i, v := range values {
			if math.IsNaN(v) {
				values[i] = fill
				changed = true
			}
		}
		if changed {
			result = result.WithColumn(series.New(col, values, mem))
		}
	}

	for col, fill := range im.stringFill {
		if !df.HasColumn(col) {
			return nil, errors.NewColumnNotFoundError("Imputer.Transform", col)
		}
		values, err := df.StringValues(col)
		if err != nil {
			return nil, errors.Wrap("Imputer.Transform", err)
		}
		changed := false
		for i, v := range values {
			if v == "" {
				values[i] = fill
				changed = true
			}
		}
		if changed {
			result = result.WithColumn(series.New(col, values, mem))
		}
	}

	return result, nil
}

// NumericFills returns the fitted fill values for numeric columns.
func (im *Imputer) NumericFills() map[string]float64 {
	out := make(map[string]float64, len(im.numericFill))
	for col, v := range im.numericFill {
		out[col] = v
	}
	return out
}

// StringFills returns the fitted fill values for string columns.
func (im *Imputer) StringFills() map[string]string {
	out := make(map[string]string, len(im.stringFill))
	for col, v := range im.stringFill {
		out[col] = v
	}
	return out
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func mostFrequentFloat(values []float64) float64 {
	counts := make(map[float64]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	best := values[0]
	for v, c := range counts {
		if c > counts[best] || (c == counts[best] && v < best) {
			best = v
		}
	}
	return best
}

func mostFrequentString(col string, values []string) (string, error) {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		if v != "" {
			counts[v]++
		}
	}
	if len(counts) == 0 {
		return "", errors.NewDegenerateStatError("Imputer.Fit", col, "no observed values to impute from")
	}

	best := ""
	for v, c := range counts {
		if best == "" || c > counts[best] || (c == counts[best] && v < best) {
			best = v
		}
	}
	return best, nil
}
