package commands_test

import (
	"testing"

	"stateflow/internal/core/application/usecases/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewImportCatalogCommand_ValidInput(t *testing.T) {
	cfg := invoiceConfig(t)

	cmd, err := commands.NewImportCatalogCommand(cfg)

	require.NoError(t, err)
	assert.NoError(t, cmd.Validate())
	assert.Len(t, cmd.Config().States, 2)
	assert.Len(t, cmd.Config().Transitions, 1)
}

func TestImportCatalogCommand_ValidateZeroValue(t *testing.T) {
	var cmd commands.ImportCatalogCommand

	err := cmd.Validate()

	require.Error(t, err)
	assert.Equal(t, commands.ErrImportCatalogCommandIsNotConstructed, err)
}
