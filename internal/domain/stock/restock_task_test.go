package stock

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venueops/backend/internal/domain/shared"
)

func TestNewRestockTask(t *testing.T) {
	t.Run("creates an open restock task", func(t *testing.T) {
		productID := uuid.New()

		task, err := NewRestockTask(productID, 3)

		require.NoError(t, err)
		assert.Equal(t, TaskTypeRestock, task.TaskType)
		assert.Equal(t, productID, task.ProductID)
		assert.Equal(t, 3, task.Priority)
		assert.True(t, task.IsOpen())
		assert.Nil(t, task.RuleID)
	})

	t.Run("fails with empty product ID", func(t *testing.T) {
		_, err := NewRestockTask(uuid.Nil, 0)

		require.Error(t, err)
	})
}

func TestNewTransferTask(t *testing.T) {
	t.Run("creates an open transfer task bound to a rule", func(t *testing.T) {
		productID := uuid.New()
		ruleID := uuid.New()

		task, err := NewTransferTask(productID, ruleID, 1)

		require.NoError(t, err)
		assert.Equal(t, TaskTypeTransfer, task.TaskType)
		require.NotNil(t, task.RuleID)
		assert.Equal(t, ruleID, *task.RuleID)
		assert.True(t, task.IsOpen())
	})

	t.Run("fails with empty rule ID", func(t *testing.T) {
		_, err := NewTransferTask(uuid.New(), uuid.Nil, 0)

		require.Error(t, err)
	})
}

func TestRestockTask_Complete(t *testing.T) {
	t.Run("records completion time and actor", func(t *testing.T) {
		task, err := NewRestockTask(uuid.New(), 0)
		require.NoError(t, err)
		actorID := uuid.New()

		err = task.Complete(actorID)

		require.NoError(t, err)
		assert.Equal(t, TaskStatusCompleted, task.Status)
		assert.False(t, task.IsOpen())
		require.NotNil(t, task.CompletedAt)
		require.NotNil(t, task.CompletedBy)
		assert.Equal(t, actorID, *task.CompletedBy)
	})

	t.Run("completing twice is rejected", func(t *testing.T) {
		task, err := NewRestockTask(uuid.New(), 0)
		require.NoError(t, err)
		require.NoError(t, task.Complete(uuid.New()))

		err = task.Complete(uuid.New())

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("nil actor leaves attribution empty", func(t *testing.T) {
		task, err := NewRestockTask(uuid.New(), 0)
		require.NoError(t, err)

		require.NoError(t, task.Complete(uuid.Nil))

		assert.Nil(t, task.CompletedBy)
	})
}
