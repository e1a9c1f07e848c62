// Package transform implements the fit/transform stages of the feature
// preprocessing pipeline: imputation, categorical encoding, standardization,
// and the column router that composes them into one numeric feature matrix.
//
// Every stage is fit once on the training split and frozen; applying a stage
// before fitting it is an error, as is encountering a categorical value at
// transform time that was absent at fit time.
package transform

import (
	"github.com/machinelab/tabprep/internal/dataframe"
)

// Transformer is a preprocessing stage that learns state from a fit table
// and applies the frozen state to any table of the same shape.
type Transformer interface {
	// Fit learns the parameters necessary for transformation
	Fit(df *dataframe.DataFrame) error

	// Transform applies the learned parameters, returning a new frame.
	// The input is never mutated.
	Transform(df *dataframe.DataFrame) (*dataframe.DataFrame, error)
}

// FitTransform fits the transformer and applies it to the same table.
func FitTransform(t Transformer, df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if err := t.Fit(df); err != nil {
		return nil, err
	}
	return t.Transform(df)
}
