package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitalmfg/reflow/engine/core"
)

func wo(id string, deps ...string) WorkOrder {
	return WorkOrder{
		DocID:   id,
		DocType: "workOrder",
		Data: WorkOrderData{
			WorkOrderNumber:       id,
			WorkCenterID:          "wc1",
			StartDate:             time.Date(2026, 8, 3, 8, 0, 0, 0, time.UTC),
			EndDate:               time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC),
			DurationMinutes:       60,
			DependsOnWorkOrderIDs: deps,
		},
	}
}

func TestToposort(t *testing.T) {
	t.Run("Should order a linear chain by dependency", func(t *testing.T) {
		wos := []WorkOrder{wo("c", "b"), wo("a"), wo("b", "a")}
		order, err := Toposort(wos)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, order)
	})

	t.Run("Should break ties by input order among independent work orders", func(t *testing.T) {
		wos := []WorkOrder{wo("z"), wo("y"), wo("x")}
		order, err := Toposort(wos)
		require.NoError(t, err)
		assert.Equal(t, []string{"z", "y", "x"}, order)
	})

	t.Run("Should resolve a diamond dependency", func(t *testing.T) {
		wos := []WorkOrder{wo("a"), wo("b", "a"), wo("c", "a"), wo("d", "b", "c")}
		order, err := Toposort(wos)
		require.NoError(t, err)
		assert.Equal(t, "a", order[0])
		assert.Equal(t, "d", order[3])
	})

	t.Run("Should reject a direct cycle", func(t *testing.T) {
		wos := []WorkOrder{wo("a", "b"), wo("b", "a")}
		_, err := Toposort(wos)
		require.Error(t, err)
		var ce *core.Error
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, core.CodeCircularDependency, ce.Code)
	})

	t.Run("Should reject a longer cycle", func(t *testing.T) {
		wos := []WorkOrder{wo("a", "c"), wo("b", "a"), wo("c", "b")}
		_, err := Toposort(wos)
		require.Error(t, err)
	})

	t.Run("Should reject a dangling dependency", func(t *testing.T) {
		wos := []WorkOrder{wo("a", "ghost")}
		_, err := Toposort(wos)
		require.Error(t, err)
		var ce *core.Error
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, core.CodeDanglingDependency, ce.Code)
	})

	t.Run("Should tolerate duplicate parent ids", func(t *testing.T) {
		wos := []WorkOrder{wo("a"), wo("b", "a", "a")}
		order, err := Toposort(wos)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, order)
	})
}
