package workflow_test

import (
	"testing"

	"stateflow/internal/core/domain/model/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateMapping(t *testing.T) {
	t.Run("should create a mapping between categories", func(t *testing.T) {
		m, err := workflow.NewStateMapping(0, "logistics", "ENTREGADO", "sales", "ENTREGADA", 4, true)

		require.NoError(t, err)
		require.NoError(t, m.Validate())
		assert.Equal(t, int64(0), m.ID())
		assert.Equal(t, workflow.Category("logistics"), m.FromCategory())
		assert.Equal(t, workflow.StateCode("ENTREGADO"), m.FromState())
		assert.Equal(t, workflow.Category("sales"), m.ToCategory())
		assert.Equal(t, workflow.StateCode("ENTREGADA"), m.ToState())
		assert.Equal(t, 4, m.Priority())
		assert.True(t, m.Active())
	})

	t.Run("should reject identical origin and destination categories", func(t *testing.T) {
		_, err := workflow.NewStateMapping(0, "sales", "ENTREGADA", "sales", "CERRADA", 1, true)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "categories must differ")
	})

	t.Run("should reject a negative ID", func(t *testing.T) {
		_, err := workflow.NewStateMapping(-1, "logistics", "ENTREGADO", "sales", "ENTREGADA", 4, true)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "must not be negative")
	})

	t.Run("should reject empty endpoints", func(t *testing.T) {
		_, err := workflow.NewStateMapping(0, "", "ENTREGADO", "sales", "ENTREGADA", 4, true)
		require.Error(t, err)

		_, err = workflow.NewStateMapping(0, "logistics", "", "sales", "ENTREGADA", 4, true)
		require.Error(t, err)

		_, err = workflow.NewStateMapping(0, "logistics", "ENTREGADO", "sales", "", 4, true)
		require.Error(t, err)
	})

	t.Run("should fail validation for zero value", func(t *testing.T) {
		var m workflow.StateMapping

		err := m.Validate()

		require.Error(t, err)
		assert.Equal(t, workflow.ErrStateMappingIsNotConstructed, err)
	})
}
