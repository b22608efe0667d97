package history_test

import (
	"testing"
	"time"

	"stateflow/internal/core/domain/model/entitystate"
	"stateflow/internal/core/domain/model/history"
	"stateflow/internal/core/domain/model/kernel"
	"stateflow/internal/core/domain/model/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	ref, _ := entitystate.NewRef("delivery_run", kernel.NewUUID())
	occurred := time.Now().UTC()

	t.Run("should create a transition row with previous state", func(t *testing.T) {
		previous := workflow.StateCode("EN_TRANSITO")

		record, err := history.NewRecord(ref, "logistics", &previous, "ENTREGADO", "user-7", false, "delivered on site", occurred)

		require.NoError(t, err)
		require.NoError(t, record.Validate())
		assert.EqualValues(t, 0, record.Sequence())
		assert.True(t, record.Ref().IsEqual(ref))
		assert.Equal(t, workflow.Category("logistics"), record.Category())
		require.NotNil(t, record.Previous())
		assert.Equal(t, previous, *record.Previous())
		assert.Equal(t, workflow.StateCode("ENTREGADO"), record.NewState())
		assert.Equal(t, "user-7", record.Actor())
		assert.False(t, record.Automatic())
		assert.Equal(t, "delivered on site", record.Reason())
		assert.Equal(t, occurred, record.OccurredAt())
	})

	t.Run("should create an initialization row without previous state", func(t *testing.T) {
		record, err := history.NewRecord(ref, "logistics", nil, "planned", "user-7", false, "initialized", occurred)

		require.NoError(t, err)
		assert.Nil(t, record.Previous())
	})

	t.Run("should reject an empty actor", func(t *testing.T) {
		_, err := history.NewRecord(ref, "logistics", nil, "planned", "", false, "", occurred)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "actor")
	})

	t.Run("should reject a zero occurrence time", func(t *testing.T) {
		_, err := history.NewRecord(ref, "logistics", nil, "planned", "user-7", false, "", time.Time{})

		require.Error(t, err)
	})
}

func TestRestoreRecord(t *testing.T) {
	ref, _ := entitystate.NewRef("delivery_run", kernel.NewUUID())
	occurred := time.Now().UTC()

	t.Run("should restore a stored row with its sequence", func(t *testing.T) {
		record, err := history.RestoreRecord(42, ref, "logistics", nil, "planned", "system", true, "automatic expiry", occurred)

		require.NoError(t, err)
		assert.EqualValues(t, 42, record.Sequence())
		assert.True(t, record.Automatic())
	})

	t.Run("should reject a non-positive sequence", func(t *testing.T) {
		_, err := history.RestoreRecord(0, ref, "logistics", nil, "planned", "system", true, "", occurred)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "sequence")
	})
}

func TestRecord_Validate(t *testing.T) {
	t.Run("should fail validation for zero value", func(t *testing.T) {
		var record history.Record

		err := record.Validate()

		require.Error(t, err)
		assert.Equal(t, history.ErrRecordIsNotConstructed, err)
	})
}
