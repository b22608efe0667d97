package commands_test

import (
	"testing"

	"stateflow/internal/core/application/usecases/commands"
	"stateflow/internal/core/domain/model/entitystate"
	"stateflow/internal/core/domain/model/kernel"
	"stateflow/internal/core/domain/model/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRetireEntityStateCommand_ValidInput(t *testing.T) {
	ref, err := entitystate.NewRef("delivery_run", kernel.NewUUID())
	require.NoError(t, err)

	cmd, err := commands.NewRetireEntityStateCommand(ref, "reparto")

	require.NoError(t, err)
	assert.NoError(t, cmd.Validate())
	assert.True(t, cmd.Ref().IsEqual(ref))
	assert.Equal(t, workflow.Category("reparto"), cmd.Category())
}

func TestNewRetireEntityStateCommand_InvalidInput(t *testing.T) {
	validRef, _ := entitystate.NewRef("delivery_run", kernel.NewUUID())

	testCases := []struct {
		name     string
		ref      entitystate.Ref
		category workflow.Category
	}{
		{name: "unconstructed ref", category: "reparto"},
		{name: "empty category", ref: validRef},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := commands.NewRetireEntityStateCommand(tc.ref, tc.category)

			require.Error(t, err)
		})
	}
}

func TestRetireEntityStateCommand_ValidateZeroValue(t *testing.T) {
	var cmd commands.RetireEntityStateCommand

	err := cmd.Validate()

	require.Error(t, err)
	assert.Equal(t, commands.ErrRetireEntityStateCommandIsNotConstructed, err)
}
