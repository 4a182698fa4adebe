package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Basics(t *testing.T) {
	t.Run("Should expose code, message and work order ids", func(t *testing.T) {
		err := NewError(CodeCircularDependency, "cycle detected", []string{"wo-1", "wo-2"})

		assert.Equal(t, "cycle detected", err.Error())
		assert.Equal(t, CodeCircularDependency, err.Code)
		assert.Equal(t, []string{"wo-1", "wo-2"}, err.WorkOrderIDs)
	})

	t.Run("Should preserve a wrapped cause for errors.Is/As", func(t *testing.T) {
		cause := errors.New("boom")
		err := NewError(CodeSafetyCap, "exceeded", nil).Wrap(cause)

		assert.ErrorIs(t, err, cause)
	})

	t.Run("Should return a nil-safe AsMap", func(t *testing.T) {
		var err *Error
		assert.Nil(t, err.AsMap())
		assert.Equal(t, "", err.Error())
	})

	t.Run("Should render message and code in AsMap", func(t *testing.T) {
		err := NewError(CodeShiftViolation, "no shifts", []string{"wo-9"})
		m := err.AsMap()
		require.Equal(t, "no shifts", m["message"])
		require.Equal(t, CodeShiftViolation, m["code"])
	})
}
