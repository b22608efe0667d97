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

func TestNewApplyTransitionCommand_ValidInput(t *testing.T) {
	ref, err := entitystate.NewRef("proforma", kernel.NewUUID())
	require.NoError(t, err)
	actor, err := workflow.NewActor("u-15", []string{"proforma.approve"})
	require.NoError(t, err)

	cmd, err := commands.NewApplyTransitionCommand(ref, "proforma", "APROBADA", actor, "margin reviewed")

	require.NoError(t, err)
	assert.NoError(t, cmd.Validate())
	assert.True(t, cmd.Ref().IsEqual(ref))
	assert.Equal(t, workflow.Category("proforma"), cmd.Category())
	assert.Equal(t, workflow.StateCode("APROBADA"), cmd.Target())
	assert.Equal(t, "u-15", cmd.Actor().ID())
	assert.Equal(t, "margin reviewed", cmd.Reason())
}

func TestNewApplyTransitionCommand_EmptyReasonAllowed(t *testing.T) {
	ref, _ := entitystate.NewRef("proforma", kernel.NewUUID())
	actor, _ := workflow.NewActor("u-15", nil)

	cmd, err := commands.NewApplyTransitionCommand(ref, "proforma", "APROBADA", actor, "")

	require.NoError(t, err)
	assert.Empty(t, cmd.Reason())
}

func TestNewApplyTransitionCommand_InvalidInput(t *testing.T) {
	validRef, _ := entitystate.NewRef("proforma", kernel.NewUUID())
	validActor, _ := workflow.NewActor("u-15", nil)

	testCases := []struct {
		name     string
		ref      entitystate.Ref
		category workflow.Category
		target   workflow.StateCode
		actor    workflow.Actor
	}{
		{name: "unconstructed ref", category: "proforma", target: "APROBADA", actor: validActor},
		{name: "empty category", ref: validRef, target: "APROBADA", actor: validActor},
		{name: "empty target", ref: validRef, category: "proforma", actor: validActor},
		{name: "unconstructed actor", ref: validRef, category: "proforma", target: "APROBADA"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := commands.NewApplyTransitionCommand(tc.ref, tc.category, tc.target, tc.actor, "")

			require.Error(t, err)
		})
	}
}

func TestApplyTransitionCommand_ValidateZeroValue(t *testing.T) {
	var cmd commands.ApplyTransitionCommand

	err := cmd.Validate()

	require.Error(t, err)
	assert.Equal(t, commands.ErrApplyTransitionCommandIsNotConstructed, err)
}
