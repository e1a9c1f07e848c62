package transform

import (
	"github.com/machinelab/tabprep/internal/dataframe"
	"github.com/machinelab/tabprep/internal/errors"
)

// Stage is one named step of a Pipeline.
type Stage struct {
	Name        string
	Transformer Transformer
}

// Pipeline chains transformers: each stage is fit on the output of the
// stages before it, and Transform applies them in order.
type Pipeline struct {
	stages []Stage
	fitted bool
}

// NewPipeline creates a pipeline from the given stages.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Fit fits every stage in order, feeding each stage the output of the
// previous one.
func (p *Pipeline) Fit(df *dataframe.DataFrame) error {
	current := df
	for _, stage := range p.stages {
		if err := stage.Transformer.Fit(current); err != nil {
			return errors.Wrap("Pipeline["+stage.Name+"].Fit", err)
		}
		next, err := stage.Transformer.Transform(current)
		if err != nil {
			return errors.Wrap("Pipeline["+stage.Name+"].Fit", err)
		}
		current = next
	}
	p.fitted = true
	return nil
}

// Transform applies every fitted stage in order.
func (p *Pipeline) Transform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if !p.fitted {
		return nil, errors.NewNotFittedError("Pipeline.Transform")
	}

	current := df
	for _, stage := range p.stages {
		next, err := stage.Transformer.Transform(current)
		if err != nil {
			return nil, errors.Wrap("Pipeline["+stage.Name+"].Transform", err)
		}
		current = next
	}
	return current, nil
}

// Stages returns the pipeline's stages in order.
func (p *Pipeline) Stages() []Stage {
	return append([]Stage(nil), p.stages...)
}
