package workflow_test

import (
	"testing"

	"stateflow/internal/core/domain/model/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCatalog(t *testing.T) {
	pendiente, _ := workflow.NewStateDefinition("proforma", "PENDIENTE", workflow.StateAttributes{Name: "Pendiente", Order: 1})
	aprobada, _ := workflow.NewStateDefinition("proforma", "APROBADA", workflow.StateAttributes{Name: "Aprobada", Order: 2})
	approve, _ := workflow.NewTransition("proforma", "PENDIENTE", "APROBADA", workflow.TransitionAttributes{Active: true})

	t.Run("should build a catalog from a full configuration", func(t *testing.T) {
		catalog, err := workflow.BuildCatalog(workflow.CatalogConfig{
			States:      []workflow.StateDefinition{pendiente, aprobada},
			Transitions: []workflow.Transition{approve},
		})

		require.NoError(t, err)
		assert.True(t, catalog.IsAllowed("proforma", "PENDIENTE", "APROBADA"))
	})

	t.Run("should abort on the first transition referencing an unknown state", func(t *testing.T) {
		broken, _ := workflow.NewTransition("proforma", "PENDIENTE", "NOPE", workflow.TransitionAttributes{Active: true})

		catalog, err := workflow.BuildCatalog(workflow.CatalogConfig{
			States:      []workflow.StateDefinition{pendiente, aprobada},
			Transitions: []workflow.Transition{broken, approve},
		})

		require.ErrorIs(t, err, workflow.ErrUnknownState)
		assert.Nil(t, catalog)
	})

	t.Run("should abort on a mapping referencing an unknown state", func(t *testing.T) {
		m, _ := workflow.NewStateMapping(0, "proforma", "APROBADA", "sales", "NOPE", 1, true)

		catalog, err := workflow.BuildCatalog(workflow.CatalogConfig{
			States:   []workflow.StateDefinition{pendiente, aprobada},
			Mappings: []workflow.StateMapping{m},
		})

		require.ErrorIs(t, err, workflow.ErrUnknownState)
		assert.Nil(t, catalog)
	})

	t.Run("should build an empty catalog from an empty configuration", func(t *testing.T) {
		catalog, err := workflow.BuildCatalog(workflow.CatalogConfig{})

		require.NoError(t, err)
		assert.Empty(t, catalog.AutomaticRules())
	})
}
