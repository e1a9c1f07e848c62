package transform

import (
	"gonum.org/v1/gonum/mat"

	"github.com/machinelab/tabprep/internal/dataframe"
	"github.com/machinelab/tabprep/internal/errors"
)

// Sub-pipeline stage names.
const (
	stageImputer  = "imputer"
	stageEncoding = "label_encoding"
	stageScaler   = "scaler"
)

// ColumnTransformer routes fixed column subsets through the numeric and
// categorical sub-pipelines and concatenates the results column-wise into
// one dense feature matrix, numeric block first. Columns outside both lists
// are silently dropped; a listed column missing from the input is an error.
//
// The numeric sub-pipeline is median imputation followed by full
// standardization. The categorical sub-pipeline is most-frequent imputation,
// per-column label encoding, then scaling without mean-centering.
type ColumnTransformer struct {
	numericColumns     []string
	categoricalColumns []string
	numeric            *Pipeline
	categorical        *Pipeline

	numericImputer *Imputer
	numericScaler  *StandardScaler
	catImputer     *Imputer
	catEncoder     *LabelEncoding
	catScaler      *StandardScaler

	fitted bool
}

// RouterState is the serializable fitted state of a ColumnTransformer.
type RouterState struct {
	NumericColumns     []string            `json:"numeric_columns"`
	CategoricalColumns []string            `json:"categorical_columns"`
	NumericFills       map[string]float64  `json:"numeric_fills"`
	NumericMeans       map[string]float64  `json:"numeric_means"`
	NumericScales      map[string]float64  `json:"numeric_scales"`
	CategoricalFills   map[string]string   `json:"categorical_fills"`
	EncoderClasses     map[string][]string `json:"encoder_classes"`
	CategoricalScales  map[string]float64  `json:"categorical_scales"`
}

// NewColumnTransformer creates an unfitted router over the given column
// lists.
func NewColumnTransformer(numericColumns, categoricalColumns []string) *ColumnTransformer {
	ct := &ColumnTransformer{
		numericColumns:     append([]string(nil), numericColumns...),
		categoricalColumns: append([]string(nil), categoricalColumns...),
		numericImputer:     NewImputer(StrategyMedian, numericColumns...),
		numericScaler:      NewStandardScaler(true, numericColumns...),
		catImputer:         NewImputer(StrategyMostFrequent, categoricalColumns...),
		catEncoder:         NewLabelEncoding(categoricalColumns...),
		catScaler:          NewStandardScaler(false, categoricalColumns...),
	}
	ct.buildPipelines()
	return ct
}

// NewColumnTransformerFromState restores a fitted router from persisted
// state.
func NewColumnTransformerFromState(state RouterState) *ColumnTransformer {
	ct := &ColumnTransformer{
		numericColumns:     append([]string(nil), state.NumericColumns...),
		categoricalColumns: append([]string(nil), state.CategoricalColumns...),
		numericImputer:     NewImputerFromFills(StrategyMedian, state.NumericFills, nil),
		numericScaler:      NewStandardScalerFromStats(true, state.NumericMeans, state.NumericScales),
		catImputer:         NewImputerFromFills(StrategyMostFrequent, nil, state.CategoricalFills),
		catEncoder:         NewLabelEncodingFromClasses(state.EncoderClasses),
		catScaler:          NewStandardScalerFromStats(false, nil, state.CategoricalScales),
	}
	ct.buildPipelines()
	ct.numeric.fitted = true
	ct.categorical.fitted = true
	ct.fitted = true
	return ct
}

func (ct *ColumnTransformer) buildPipelines() {
	ct.numeric = NewPipeline(
		Stage{Name: stageImputer, Transformer: ct.numericImputer},
		Stage{Name: stageScaler, Transformer: ct.numericScaler},
	)
	ct.categorical = NewPipeline(
		Stage{Name: stageImputer, Transformer: ct.catImputer},
		Stage{Name: stageEncoding, Transformer: ct.catEncoder},
		Stage{Name: stageScaler, Transformer: ct.catScaler},
	)
}

// Fit fits both sub-pipelines on their column subsets of the training table.
func (ct *ColumnTransformer) Fit(df *dataframe.DataFrame) error {
	numericDF, err := df.Select(ct.numericColumns...)
	if err != nil {
		return errors.Wrap("ColumnTransformer.Fit", err)
	}
	if err := ct.numeric.Fit(numericDF); err != nil {
		return err
	}

	if len(ct.categoricalColumns) > 0 {
		catDF, err := df.Select(ct.categoricalColumns...)
		if err != nil {
			return errors.Wrap("ColumnTransformer.Fit", err)
		}
		if err := ct.categorical.Fit(catDF); err != nil {
			return err
		}
	}

	ct.fitted = true
	return nil
}

// Transform applies the frozen sub-pipelines and returns the concatenated
// feature matrix, one row per input row, columns ordered
// [numeric columns..., categorical columns...].
func (ct *ColumnTransformer) Transform(df *dataframe.DataFrame) (*mat.Dense, error) {
	if !ct.fitted {
		return nil, errors.NewNotFittedError("ColumnTransformer.Transform")
	}

	rows := df.Len()
	if rows == 0 {
		return nil, errors.NewInvalidInputError("ColumnTransformer.Transform", "input has no rows")
	}
	names := ct.FeatureNames()
	out := mat.NewDense(rows, len(names), nil)

	numericDF, err := df.Select(ct.numericColumns...)
	if err != nil {
		return nil, errors.Wrap("ColumnTransformer.Transform", err)
	}
	numericOut, err := ct.numeric.Transform(numericDF)
	if err != nil {
		return nil, err
	}
	if err := fillBlock(out, 0, numericOut, ct.numericColumns); err != nil {
		return nil, err
	}

	if len(ct.categoricalColumns) > 0 {
		catDF, err := df.Select(ct.categoricalColumns...)
		if err != nil {
			return nil, errors.Wrap("ColumnTransformer.Transform", err)
		}
		catOut, err := ct.categorical.Transform(catDF)
		if err != nil {
			return nil, err
		}
		if err := fillBlock(out, len(ct.numericColumns), catOut, ct.categoricalColumns); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// FitTransform fits the router on the table and transforms it.
func (ct *ColumnTransformer) FitTransform(df *dataframe.DataFrame) (*mat.Dense, error) {
	if err := ct.Fit(df); err != nil {
		return nil, err
	}
	return ct.Transform(df)
}

func fillBlock(out *mat.Dense, offset int, df *dataframe.DataFrame, columns []string) error {
	for j, col := range columns {
		values, err := df.Float64Values(col)
		if err != nil {
			return errors.Wrap("ColumnTransformer.Transform", err)
		}
		for i, v := range values {
			out.Set(i, offset+j, v)
		}
	}
	return nil
}

// FeatureNames returns the output column order of the feature matrix.
func (ct *ColumnTransformer) FeatureNames() []string {
	names := make([]string, 0, len(ct.numericColumns)+len(ct.categoricalColumns))
	names = append(names, ct.numericColumns...)
	names = append(names, ct.categoricalColumns...)
	return names
}

// State returns the fitted state for persistence.
func (ct *ColumnTransformer) State() (RouterState, error) {
	if !ct.fitted {
		return RouterState{}, errors.NewNotFittedError("ColumnTransformer.State")
	}
	return RouterState{
		NumericColumns:     append([]string(nil), ct.numericColumns...),
		CategoricalColumns: append([]string(nil), ct.categoricalColumns...),
		NumericFills:       ct.numericImputer.NumericFills(),
		NumericMeans:       ct.numericScaler.Means(),
		NumericScales:      ct.numericScaler.Scales(),
		CategoricalFills:   ct.catImputer.StringFills(),
		EncoderClasses:     ct.catEncoder.Classes(),
		CategoricalScales:  ct.catScaler.Scales(),
	}, nil
}
