// Package tabprep provides feature preprocessing for tabular classification
// pipelines: missing-value imputation, categorical encoding, numeric
// standardization, target label encoding, and class rebalancing of the
// training split. This package is the sole public API of the module.
package tabprep

import (
	"io"
	"log/slog"
	"os"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"gonum.org/v1/gonum/mat"

	"github.com/machinelab/tabprep/internal/config"
	"github.com/machinelab/tabprep/internal/dataframe"
	tpio "github.com/machinelab/tabprep/internal/io"
	"github.com/machinelab/tabprep/internal/logging"
	"github.com/machinelab/tabprep/internal/pipeline"
	"github.com/machinelab/tabprep/internal/series"
	"github.com/machinelab/tabprep/internal/transform"
)

// Config configures one pipeline run: the column schema, rebalancing
// parameters, and artifact persistence.
type Config = config.Config

// Result holds the two output matrices, their column names, the target
// class mapping, and the artifact location.
type Result = pipeline.Result

// ISeries provides a type-erased interface for Series of any type.
type ISeries = dataframe.ISeries

// DataFrame is the public handle for a table of typed columns.
// It wraps the internal dataframe to hide implementation details.
type DataFrame struct {
	df *dataframe.DataFrame
}

// Columns returns the column names in order.
func (d *DataFrame) Columns() []string { return d.df.Columns() }

// Len returns the number of rows.
func (d *DataFrame) Len() int { return d.df.Len() }

// Width returns the number of columns.
func (d *DataFrame) Width() int { return d.df.Width() }

// String returns a short description of the frame.
func (d *DataFrame) String() string { return d.df.String() }

// Release releases the underlying Arrow memory.
func (d *DataFrame) Release() { d.df.Release() }

// NewDataFrame creates a new DataFrame from ISeries.
func NewDataFrame(cols ...ISeries) *DataFrame {
	return &DataFrame{df: dataframe.New(cols...)}
}

// NewSeries creates a new typed Series from values. Supported element types
// are string, int64, float64 and bool.
func NewSeries[T any](name string, values []T, mem memory.Allocator) ISeries {
	return series.New(name, values, mem)
}

// ReadCSV reads a CSV file into a DataFrame with automatic type inference.
// Empty numeric cells become NaN; empty string cells stay empty.
func ReadCSV(path string) (*DataFrame, error) {
	df, err := tpio.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &DataFrame{df: df}, nil
}

// WriteCSV writes a DataFrame to a CSV file.
func WriteCSV(path string, d *DataFrame) error {
	return tpio.WriteFile(path, d.df)
}

// DefaultConfig returns the default configuration for the machine
// maintenance schema.
func DefaultConfig() Config {
	return config.NewConfig()
}

// LoadConfig loads configuration from a JSON or YAML file, filling defaults
// for unset values.
func LoadConfig(path string) (Config, error) {
	return config.LoadFromFile(path)
}

// ConfigFromEnv loads configuration from TABPREP_* environment variables.
func ConfigFromEnv() Config {
	return config.LoadFromEnv()
}

// NewLogger returns the pipeline progress logger. Verbose enables debug
// lines.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return logging.New(w, verbose)
}

// Transformation drives the preprocessing pipeline for one train/test pair.
type Transformation struct {
	t *pipeline.Transformation
}

// NewTransformation creates a pipeline driver. A nil logger logs to stderr.
func NewTransformation(cfg Config, logger *slog.Logger) *Transformation {
	if logger == nil {
		logger = logging.New(os.Stderr, cfg.VerboseLogging)
	}
	return &Transformation{t: pipeline.New(cfg, logger)}
}

// Run executes the pipeline over the train and test CSV files.
func (t *Transformation) Run(trainPath, testPath string) (*Result, error) {
	return t.t.Run(trainPath, testPath)
}

// TransformFrom applies a persisted preprocessor artifact to a new CSV
// file, returning the feature matrix.
func (t *Transformation) TransformFrom(artifactPath, dataPath string) (*mat.Dense, error) {
	return t.t.TransformFrom(artifactPath, dataPath)
}

// TargetEncoder maps string class labels to integer codes with a sorted
// alphabetical mapping.
type TargetEncoder = transform.TargetEncoder

// NewTargetEncoder creates an unfitted target encoder.
func NewTargetEncoder() *TargetEncoder {
	return transform.NewTargetEncoder()
}
