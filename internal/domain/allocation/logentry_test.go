package allocation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAssignEntry(t *testing.T) {
	entry, err := NewAssignEntry(1, 10, 20)
	require.NoError(t, err)

	assert.Equal(t, ActionAssign, entry.Action())
	assert.Equal(t, uint(1), entry.PortID())
	require.NotNil(t, entry.SubscriptionID())
	assert.Equal(t, uint(10), *entry.SubscriptionID())
	require.NotNil(t, entry.CustomerID())
	assert.Equal(t, uint(20), *entry.CustomerID())
	assert.Nil(t, entry.PerformedBy())
	assert.True(t, entry.IsAutomatic())
	assert.False(t, entry.CreatedAt().IsZero())
}

func TestNewReassignEntry(t *testing.T) {
	t.Run("records operator", func(t *testing.T) {
		entry, err := NewReassignEntry(1, 10, 20, 99)
		require.NoError(t, err)

		assert.Equal(t, ActionReassign, entry.Action())
		require.NotNil(t, entry.PerformedBy())
		assert.Equal(t, uint(99), *entry.PerformedBy())
		assert.False(t, entry.IsAutomatic())
	})

	t.Run("operator is mandatory", func(t *testing.T) {
		_, err := NewReassignEntry(1, 10, 20, 0)
		assert.Error(t, err)
	})
}

func TestNewReleaseEntry(t *testing.T) {
	subID := uint(10)
	custID := uint(20)

	t.Run("automatic release", func(t *testing.T) {
		entry, err := NewReleaseEntry(1, &subID, &custID, nil)
		require.NoError(t, err)
		assert.Equal(t, ActionRelease, entry.Action())
		assert.True(t, entry.IsAutomatic())
	})

	t.Run("operator release", func(t *testing.T) {
		operatorID := uint(7)
		entry, err := NewReleaseEntry(1, &subID, &custID, &operatorID)
		require.NoError(t, err)
		assert.False(t, entry.IsAutomatic())
	})
}

func TestNewCreateEntry(t *testing.T) {
	operatorID := uint(3)
	entry, err := NewCreateEntry(4, &operatorID)
	require.NoError(t, err)

	assert.Equal(t, ActionCreate, entry.Action())
	assert.Nil(t, entry.SubscriptionID())
	assert.Nil(t, entry.CustomerID())
}

func TestNewLogEntry_Validation(t *testing.T) {
	t.Run("zero port rejected", func(t *testing.T) {
		_, err := NewLogEntry(0, nil, nil, ActionAssign, nil)
		assert.Error(t, err)
	})

	t.Run("unknown action rejected", func(t *testing.T) {
		_, err := NewLogEntry(1, nil, nil, Action("destroy"), nil)
		assert.Error(t, err)
	})
}

func TestLogEntry_Metadata(t *testing.T) {
	entry, err := NewReleaseEntry(1, nil, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, entry.Metadata())

	entry.SetMetadata(map[string]interface{}{"reason": "subscription expired"})
	assert.Equal(t, "subscription expired", entry.Metadata()["reason"])
}

func TestReconstructLogEntry(t *testing.T) {
	now := time.Now().UTC()

	t.Run("round trip", func(t *testing.T) {
		subID := uint(10)
		entry, err := ReconstructLogEntry(5, 1, &subID, nil, ActionAssign, nil, nil, now)
		require.NoError(t, err)
		assert.Equal(t, uint(5), entry.ID())
		assert.Equal(t, now, entry.CreatedAt())
	})

	t.Run("zero entry ID rejected", func(t *testing.T) {
		_, err := ReconstructLogEntry(0, 1, nil, nil, ActionAssign, nil, nil, now)
		assert.Error(t, err)
	})
}

func TestAction_IsValid(t *testing.T) {
	assert.True(t, ActionCreate.IsValid())
	assert.True(t, ActionAssign.IsValid())
	assert.True(t, ActionReassign.IsValid())
	assert.True(t, ActionRelease.IsValid())
	assert.False(t, Action("").IsValid())
	assert.False(t, Action("update").IsValid())
}
