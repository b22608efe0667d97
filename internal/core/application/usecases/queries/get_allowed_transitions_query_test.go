package queries_test

import (
	"testing"

	"stateflow/internal/core/application/usecases/queries"
	"stateflow/internal/core/domain/model/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetAllowedTransitionsQuery_ValidInput(t *testing.T) {
	actor, err := workflow.NewActor("u-15", []string{"proforma.approve"})
	require.NoError(t, err)

	query, err := queries.NewGetAllowedTransitionsQuery("proforma", "PENDIENTE", actor)

	require.NoError(t, err)
	assert.NoError(t, query.Validate())
	assert.Equal(t, workflow.Category("proforma"), query.Category())
	assert.Equal(t, workflow.StateCode("PENDIENTE"), query.From())
	assert.Equal(t, "u-15", query.Actor().ID())
}

func TestNewGetAllowedTransitionsQuery_InvalidInput(t *testing.T) {
	validActor, _ := workflow.NewActor("u-15", nil)

	testCases := []struct {
		name     string
		category workflow.Category
		from     workflow.StateCode
		actor    workflow.Actor
	}{
		{name: "empty category", from: "PENDIENTE", actor: validActor},
		{name: "empty from state", category: "proforma", actor: validActor},
		{name: "unconstructed actor", category: "proforma", from: "PENDIENTE"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := queries.NewGetAllowedTransitionsQuery(tc.category, tc.from, tc.actor)

			require.Error(t, err)
		})
	}
}

func TestGetAllowedTransitionsQuery_ValidateZeroValue(t *testing.T) {
	var query queries.GetAllowedTransitionsQuery

	err := query.Validate()

	require.Error(t, err)
	assert.Equal(t, queries.ErrGetAllowedTransitionsQueryIsNotConstructed, err)
}
