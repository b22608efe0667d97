package queries_test

import (
	"testing"

	"stateflow/internal/core/application/usecases/queries"
	"stateflow/internal/core/domain/model/entitystate"
	"stateflow/internal/core/domain/model/kernel"
	"stateflow/internal/core/domain/model/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetCurrentStateQuery_ValidInput(t *testing.T) {
	ref, err := entitystate.NewRef("proforma", kernel.NewUUID())
	require.NoError(t, err)

	query, err := queries.NewGetCurrentStateQuery(ref, "proforma")

	require.NoError(t, err)
	assert.NoError(t, query.Validate())
	assert.True(t, query.Ref().IsEqual(ref))
	assert.Equal(t, workflow.Category("proforma"), query.Category())
}

func TestNewGetCurrentStateQuery_InvalidInput(t *testing.T) {
	validRef, _ := entitystate.NewRef("proforma", kernel.NewUUID())

	testCases := []struct {
		name     string
		ref      entitystate.Ref
		category workflow.Category
	}{
		{name: "unconstructed ref", category: "proforma"},
		{name: "empty category", ref: validRef},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := queries.NewGetCurrentStateQuery(tc.ref, tc.category)

			require.Error(t, err)
		})
	}
}

func TestGetCurrentStateQuery_ValidateZeroValue(t *testing.T) {
	var query queries.GetCurrentStateQuery

	err := query.Validate()

	require.Error(t, err)
	assert.Equal(t, queries.ErrGetCurrentStateQueryIsNotConstructed, err)
}
