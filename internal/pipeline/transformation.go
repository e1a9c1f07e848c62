// Package pipeline orchestrates the full preprocessing run: load the train
// and test tables, fit the column router on the training split, apply the
// frozen transforms to both splits, encode the target label, rebalance the
// training set, and hand back two dense matrices with the target appended
// as the last column.
package pipeline

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/machinelab/tabprep/internal/artifact"
	"github.com/machinelab/tabprep/internal/config"
	"github.com/machinelab/tabprep/internal/dataframe"
	"github.com/machinelab/tabprep/internal/errors"
	"github.com/machinelab/tabprep/internal/io"
	"github.com/machinelab/tabprep/internal/resample"
	"github.com/machinelab/tabprep/internal/transform"
)

// Result holds the output of one transformation run.
type Result struct {
	// Train is the rebalanced training matrix, feature columns followed by
	// one integer target column. Its rows are not aligned with the input.
	Train *mat.Dense
	// Test is the transformed evaluation matrix in the same column layout,
	// row order matching the input file. Never rebalanced.
	Test *mat.Dense
	// Columns names the matrix columns, target last.
	Columns []string
	// TargetClasses is the sorted label set; the code of TargetClasses[i] is i.
	TargetClasses []string
	// ArtifactPath is where the fitted preprocessor is (or would be)
	// persisted.
	ArtifactPath string
}

// Transformation drives the preprocessing pipeline for one train/test pair.
type Transformation struct {
	cfg config.Config
	log *slog.Logger
}

// New creates a Transformation with the given configuration and logger.
func New(cfg config.Config, logger *slog.Logger) *Transformation {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transformation{cfg: cfg, log: logger}
}

// Run executes the pipeline over the train and test CSV files.
func (t *Transformation) Run(trainPath, testPath string) (*Result, error) {
	if err := t.cfg.Validate(); err != nil {
		return nil, errors.Wrap("Transformation.Run", err)
	}

	log := t.log.WithGroup("transformation")

	trainDF, err := io.ReadFile(trainPath)
	if err != nil {
		return nil, errors.NewIOError("Transformation.Run", trainPath, err)
	}
	defer trainDF.Release()

	testDF, err := io.ReadFile(testPath)
	if err != nil {
		return nil, errors.NewIOError("Transformation.Run", testPath, err)
	}
	defer testDF.Release()

	log.Info("read train and test data completed",
		"train_rows", trainDF.Len(), "test_rows", testDF.Len())

	trainTarget, testTarget, err := t.splitTargets(trainDF, testDF)
	if err != nil {
		return nil, err
	}
	trainFeatures := trainDF.Drop(t.cfg.TargetColumn)
	testFeatures := testDF.Drop(t.cfg.TargetColumn)

	log.Info("obtained preprocessing object",
		"numeric_columns", t.cfg.NumericColumns,
		"categorical_columns", t.cfg.CategoricalColumns)

	router := transform.NewColumnTransformer(t.cfg.NumericColumns, t.cfg.CategoricalColumns)
	trainX, err := router.FitTransform(trainFeatures)
	if err != nil {
		return nil, err
	}
	testX, err := router.Transform(testFeatures)
	if err != nil {
		return nil, err
	}
	log.Info("applied preprocessing object on training and testing dataframes")

	encoder := transform.NewTargetEncoder()
	trainY, err := encoder.FitTransform(trainTarget)
	if err != nil {
		return nil, err
	}
	testY, err := encoder.Transform(testTarget)
	if err != nil {
		return nil, err
	}
	log.Info("target label encoding", "mapping", formatMapping(encoder.Classes()))

	rebalancer := resample.NewSMOTETomek(t.cfg.RandomSeed, t.cfg.KNeighbors)
	trainX, trainY, err = rebalancer.FitResample(trainX, trainY)
	if err != nil {
		return nil, err
	}
	rows, _ := trainX.Dims()
	log.Info("rebalanced training split", "rows", rows, "seed", t.cfg.RandomSeed)

	artifactPath := t.cfg.PreprocessorPath()
	if t.cfg.PersistArtifacts {
		state, err := router.State()
		if err != nil {
			return nil, err
		}
		p := artifact.Preprocessor{Router: state, TargetClasses: encoder.Classes()}
		if err := artifact.Save(artifactPath, p); err != nil {
			return nil, errors.NewIOError("Transformation.Run", artifactPath, err)
		}
		log.Info("saved preprocessing object", "path", artifactPath)
	}

	columns := append(router.FeatureNames(), t.cfg.TargetColumn)

	return &Result{
		Train:         appendTarget(trainX, trainY),
		Test:          appendTarget(testX, testY),
		Columns:       columns,
		TargetClasses: encoder.Classes(),
		ArtifactPath:  artifactPath,
	}, nil
}

// TransformFrom applies a previously persisted preprocessor to a new CSV
// file, returning the feature matrix only. The target column, if present,
// is ignored.
func (t *Transformation) TransformFrom(artifactPath, dataPath string) (*mat.Dense, error) {
	p, err := artifact.Load(artifactPath)
	if err != nil {
		return nil, errors.NewIOError("Transformation.TransformFrom", artifactPath, err)
	}

	df, err := io.ReadFile(dataPath)
	if err != nil {
		return nil, errors.NewIOError("Transformation.TransformFrom", dataPath, err)
	}
	defer df.Release()

	features := df
	if df.HasColumn(t.cfg.TargetColumn) {
		features = df.Drop(t.cfg.TargetColumn)
	}

	router := transform.NewColumnTransformerFromState(p.Router)
	return router.Transform(features)
}

func (t *Transformation) splitTargets(trainDF, testDF *dataframe.DataFrame) ([]string, []string, error) {
	if !trainDF.HasColumn(t.cfg.TargetColumn) {
		return nil, nil, errors.NewColumnNotFoundError("Transformation.Run", t.cfg.TargetColumn)
	}
	if !testDF.HasColumn(t.cfg.TargetColumn) {
		return nil, nil, errors.NewColumnNotFoundError("Transformation.Run", t.cfg.TargetColumn)
	}

	trainTarget, err := trainDF.StringValues(t.cfg.TargetColumn)
	if err != nil {
		return nil, nil, errors.Wrap("Transformation.Run", err)
	}
	testTarget, err := testDF.StringValues(t.cfg.TargetColumn)
	if err != nil {
		return nil, nil, errors.Wrap("Transformation.Run", err)
	}
	return trainTarget, testTarget, nil
}

// appendTarget widens the feature matrix with the integer target as the
// last column.
func appendTarget(x *mat.Dense, y []int) *mat.Dense {
	rows, cols := x.Dims()
	out := mat.NewDense(rows, cols+1, nil)
	for i := range rows {
		row := x.RawRowView(i)
		for j := range cols {
			out.Set(i, j, row[j])
		}
		out.Set(i, cols, float64(y[i]))
	}
	return out
}

func formatMapping(classes []string) string {
	s := "{"
	for i, c := range classes {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%q: %d", c, i)
	}
	return s + "}"
}
