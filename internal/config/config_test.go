package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/machinelab/tabprep/internal/config"
)

func TestNewConfig(t *testing.T) {
	cfg := config.NewConfig()

	assert.Equal(t, "Failure Type", cfg.TargetColumn)
	assert.Len(t, cfg.NumericColumns, 5)
	assert.Equal(t, []string{"Type"}, cfg.CategoricalColumns)
	assert.Equal(t, int64(42), cfg.RandomSeed)
	assert.Equal(t, 5, cfg.KNeighbors)
	assert.False(t, cfg.PersistArtifacts)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Run("rejects empty schema", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.NumericColumns = nil
		cfg.CategoricalColumns = nil
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects duplicate feature column", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.CategoricalColumns = append(cfg.CategoricalColumns, cfg.NumericColumns[0])
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects target listed as feature", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.CategoricalColumns = append(cfg.CategoricalColumns, cfg.TargetColumn)
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects non-positive neighbor count", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.KNeighbors = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestPreprocessorPath(t *testing.T) {
	cfg := config.NewConfig()
	assert.Equal(t, filepath.Join("artifacts", "preprocessor.json"), cfg.PreprocessorPath())
}

func TestLoadFromFile(t *testing.T) {
	t.Run("loads YAML and fills defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		data := "target_column: label\nrandom_seed: 7\npersist_artifacts: true\n"
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		cfg, err := config.LoadFromFile(path)
		require.NoError(t, err)

		assert.Equal(t, "label", cfg.TargetColumn)
		assert.Equal(t, int64(7), cfg.RandomSeed)
		assert.True(t, cfg.PersistArtifacts)
		// Defaults fill the unset schema.
		assert.Len(t, cfg.NumericColumns, 5)
		assert.Equal(t, 5, cfg.KNeighbors)
	})

	t.Run("explicit zero seed survives loading", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("random_seed: 0\n"), 0o644))

		cfg, err := config.LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, int64(0), cfg.RandomSeed)
	})

	t.Run("loads JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"k_neighbors": 3}`), 0o644))

		cfg, err := config.LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.KNeighbors)
	})

	t.Run("rejects unknown extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

		_, err := config.LoadFromFile(path)
		assert.Error(t, err)
	})
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TABPREP_TARGET_COLUMN", "label")
	t.Setenv("TABPREP_NUMERIC_COLUMNS", "a, b ,c")
	t.Setenv("TABPREP_RANDOM_SEED", "99")
	t.Setenv("TABPREP_PERSIST_ARTIFACTS", "true")

	cfg := config.LoadFromEnv()

	assert.Equal(t, "label", cfg.TargetColumn)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.NumericColumns)
	assert.Equal(t, int64(99), cfg.RandomSeed)
	assert.True(t, cfg.PersistArtifacts)
}

func TestGlobalConfig(t *testing.T) {
	original := config.GetGlobalConfig()
	defer config.SetGlobalConfig(original)

	cfg := config.NewConfig()
	cfg.RandomSeed = 7
	config.SetGlobalConfig(cfg)

	assert.Equal(t, int64(7), config.GetGlobalConfig().RandomSeed)
}
