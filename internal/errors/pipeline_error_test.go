package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/machinelab/tabprep/internal/errors"
)

func TestPipelineErrorMessage(t *testing.T) {
	t.Run("includes column when set", func(t *testing.T) {
		err := errors.NewColumnNotFoundError("Fit", "Torque Nm")
		assert.Equal(t, "Fit failed on column 'Torque Nm': column does not exist", err.Error())
	})

	t.Run("omits column when empty", func(t *testing.T) {
		err := errors.NewNotFittedError("Transform")
		assert.Equal(t, "Transform failed: transformer has not been fitted", err.Error())
	})

	t.Run("unseen value names the offender", func(t *testing.T) {
		err := errors.NewUnseenValueError("Transform", "Type", "X")
		assert.Contains(t, err.Error(), `"X"`)
		assert.Contains(t, err.Error(), "Type")
	})
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := errors.NewIOError("Run", "train.csv", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, cause, stderrors.Unwrap(err))
}

func TestIs(t *testing.T) {
	a := errors.NewColumnNotFoundError("Fit", "Type")
	b := errors.NewColumnNotFoundError("Fit", "Type")
	c := errors.NewColumnNotFoundError("Fit", "Torque Nm")

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, c)
}

func TestWrapKeepsContext(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := errors.Wrap("Pipeline[scaler].Fit", cause)

	assert.Contains(t, err.Error(), "Pipeline[scaler].Fit")
	require.ErrorIs(t, err, cause)
}
