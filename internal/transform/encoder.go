package transform

import (
	"sort"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/machinelab/tabprep/internal/dataframe"
	"github.com/machinelab/tabprep/internal/errors"
	"github.com/machinelab/tabprep/internal/series"
)

// LabelEncoding fits one label-style integer encoding per column and
// remembers the mapping per column. Each configured column gets a bijective
// mapping from the string levels observed at fit time, in sorted order, to
// contiguous integers 0..k-1.
//
// With no columns configured, Fit learns a mapping for every column whose
// runtime type is non-numeric. Columns without a learned mapping pass
// through Transform unchanged.
type LabelEncoding struct {
	columns []string
	classes map[string][]string
	codes   map[string]map[string]int64
}

// NewLabelEncoding creates an encoder for the given columns. No columns
// means every non-numeric column observed at fit time.
func NewLabelEncoding(columns ...string) *LabelEncoding {
	return &LabelEncoding{columns: columns}
}

// NewLabelEncodingFromClasses restores a fitted encoder from its per-column
// class lists, e.g. loaded from a persisted artifact.
func NewLabelEncodingFromClasses(classes map[string][]string) *LabelEncoding {
	enc := &LabelEncoding{
		columns: make([]string, 0, len(classes)),
		classes: make(map[string][]string, len(classes)),
		codes:   make(map[string]map[string]int64, len(classes)),
	}
	for col, levels := range classes {
		enc.columns = append(enc.columns, col)
		enc.setClasses(col, levels)
	}
	sort.Strings(enc.columns)
	return enc
}

func (e *LabelEncoding) setClasses(col string, levels []string) {
	e.classes[col] = append([]string(nil), levels...)
	codes := make(map[string]int64, len(levels))
	for i, level := range levels {
		codes[level] = int64(i)
	}
	e.codes[col] = codes
}

// Fit learns a sorted-order integer mapping over the distinct values of each
// target column. Columns that are already numeric at fit time get no mapping.
func (e *LabelEncoding) Fit(df *dataframe.DataFrame) error {
	e.classes = make(map[string][]string)
	e.codes = make(map[string]map[string]int64)

	columns := e.columns
	if len(columns) == 0 {
		for _, name := range df.Columns() {
			if !df.IsNumeric(name) {
				columns = append(columns, name)
			}
		}
	}

	for _, col := range columns {
		if !df.HasColumn(col) {
			return errors.NewColumnNotFoundError("LabelEncoding.Fit", col)
		}
		if df.IsNumeric(col) {
			continue
		}

		values, err := df.StringValues(col)
		if err != nil {
			return errors.Wrap("LabelEncoding.Fit", err)
		}

		distinct := make(map[string]bool, len(values))
		for _, v := range values {
			distinct[v] = true
		}
		levels := make([]string, 0, len(distinct))
		for v := range distinct {
			levels = append(levels, v)
		}
		sort.Strings(levels)

		e.setClasses(col, levels)
	}

	return nil
}

// Transform replaces each value of a mapped column with its integer code.
// A value absent from the fit-time mapping is a hard error.
func (e *LabelEncoding) Transform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if e.codes == nil {
		return nil, errors.NewNotFittedError("LabelEncoding.Transform")
	}

	mem := memory.NewGoAllocator()
	result := df

	for _, col := range df.Columns() {
		codes, mapped := e.codes[col]
		if !mapped {
			continue
		}

		values, err := df.StringValues(col)
		if err != nil {
			return nil, errors.Wrap("LabelEncoding.Transform", err)
		}

		encoded := make([]int64, len(values))
		for i, v := range values {
			code, seen := codes[v]
			if !seen {
				return nil, errors.NewUnseenValueError("LabelEncoding.Transform", col, v)
			}
			encoded[i] = code
		}

		result = result.WithColumn(series.New(col, encoded, mem))
	}

	return result, nil
}

// Classes returns the per-column sorted levels learned at fit time.
func (e *LabelEncoding) Classes() map[string][]string {
	out := make(map[string][]string, len(e.classes))
	for col, levels := range e.classes {
		out[col] = append([]string(nil), levels...)
	}
	return out
}

// TargetEncoder maps the string target label to integer class codes using a
// sorted alphabetical mapping learned from the training split.
type TargetEncoder struct {
	classes []string
	codes   map[string]int
}

// NewTargetEncoder creates an unfitted target encoder.
func NewTargetEncoder() *TargetEncoder {
	return &TargetEncoder{}
}

// NewTargetEncoderFromClasses restores a fitted target encoder.
func NewTargetEncoderFromClasses(classes []string) *TargetEncoder {
	enc := &TargetEncoder{}
	enc.fitClasses(classes)
	return enc
}

func (t *TargetEncoder) fitClasses(classes []string) {
	t.classes = append([]string(nil), classes...)
	t.codes = make(map[string]int, len(classes))
	for i, c := range t.classes {
		t.codes[c] = i
	}
}

// Fit learns the sorted mapping from observed labels to 0..k-1.
func (t *TargetEncoder) Fit(labels []string) error {
	if len(labels) == 0 {
		return errors.NewInvalidInputError("TargetEncoder.Fit", "no labels to fit")
	}

	distinct := make(map[string]bool, len(labels))
	for _, l := range labels {
		distinct[l] = true
	}
	classes := make([]string, 0, len(distinct))
	for l := range distinct {
		classes = append(classes, l)
	}
	sort.Strings(classes)

	t.fitClasses(classes)
	return nil
}

// Transform maps labels to their integer codes. A label unseen at fit time
// is a hard error.
func (t *TargetEncoder) Transform(labels []string) ([]int, error) {
	if t.codes == nil {
		return nil, errors.NewNotFittedError("TargetEncoder.Transform")
	}

	out := make([]int, len(labels))
	for i, l := range labels {
		code, seen := t.codes[l]
		if !seen {
			return nil, errors.NewUnseenValueError("TargetEncoder.Transform", "", l)
		}
		out[i] = code
	}
	return out, nil
}

// FitTransform fits on the labels and encodes them in one pass.
func (t *TargetEncoder) FitTransform(labels []string) ([]int, error) {
	if err := t.Fit(labels); err != nil {
		return nil, err
	}
	return t.Transform(labels)
}

// Classes returns the sorted label set learned at fit time. The code of
// Classes()[i] is i.
func (t *TargetEncoder) Classes() []string {
	return append([]string(nil), t.classes...)
}
