package subscription

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/orris-inc/berth/internal/domain/subscription/valueobjects"
)

func newTestSubscription(t *testing.T) *Subscription {
	start := time.Now().UTC()
	sub, err := NewSubscription(1, 2, nil, start, start.AddDate(0, 0, 30))
	require.NoError(t, err)
	return sub
}

func TestNewSubscription(t *testing.T) {
	t.Run("creates active subscription", func(t *testing.T) {
		sub := newTestSubscription(t)

		assert.Equal(t, vo.StatusActive, sub.Status())
		assert.False(t, sub.HasPort())
		assert.Nil(t, sub.OrderID())
		assert.True(t, strings.HasPrefix(sub.SID(), "sub_"))
	})

	t.Run("rejects zero customer", func(t *testing.T) {
		start := time.Now().UTC()
		_, err := NewSubscription(0, 2, nil, start, start.AddDate(0, 0, 30))
		assert.Error(t, err)
	})

	t.Run("rejects end before start", func(t *testing.T) {
		start := time.Now().UTC()
		_, err := NewSubscription(1, 2, nil, start, start.AddDate(0, 0, -1))
		assert.Error(t, err)
	})

	t.Run("carries originating order", func(t *testing.T) {
		orderID := uint(9)
		start := time.Now().UTC()
		sub, err := NewSubscription(1, 2, &orderID, start, start.AddDate(0, 0, 30))
		require.NoError(t, err)
		require.NotNil(t, sub.OrderID())
		assert.Equal(t, uint(9), *sub.OrderID())
	})
}

func TestSubscription_AttachPort(t *testing.T) {
	t.Run("attach links port", func(t *testing.T) {
		sub := newTestSubscription(t)

		require.NoError(t, sub.AttachPort(5))
		assert.True(t, sub.HasPort())
		assert.Equal(t, uint(5), *sub.PortID())
	})

	t.Run("second port rejected", func(t *testing.T) {
		sub := newTestSubscription(t)
		require.NoError(t, sub.AttachPort(5))

		err := sub.AttachPort(6)
		assert.ErrorIs(t, err, ErrPortAlreadyAttached)
		assert.Equal(t, uint(5), *sub.PortID())
	})

	t.Run("attach resolves pending allocation", func(t *testing.T) {
		sub := newTestSubscription(t)
		require.NoError(t, sub.MarkPendingAllocation())

		require.NoError(t, sub.AttachPort(5))
		assert.Equal(t, vo.StatusActive, sub.Status())
	})
}

func TestSubscription_DetachPort(t *testing.T) {
	sub := newTestSubscription(t)
	require.NoError(t, sub.AttachPort(5))

	sub.DetachPort()
	assert.False(t, sub.HasPort())

	// detaching again is a no-op
	v := sub.Version()
	sub.DetachPort()
	assert.Equal(t, v, sub.Version())
}

func TestSubscription_StatusTransitions(t *testing.T) {
	t.Run("mark pending allocation", func(t *testing.T) {
		sub := newTestSubscription(t)

		require.NoError(t, sub.MarkPendingAllocation())
		assert.Equal(t, vo.StatusPendingAllocation, sub.Status())

		// idempotent
		require.NoError(t, sub.MarkPendingAllocation())
	})

	t.Run("cancelled subscription cannot go pending", func(t *testing.T) {
		sub := newTestSubscription(t)
		require.NoError(t, sub.Cancel())

		assert.Error(t, sub.MarkPendingAllocation())
	})

	t.Run("expire and reactivate", func(t *testing.T) {
		sub := newTestSubscription(t)
		require.NoError(t, sub.Expire())
		assert.Equal(t, vo.StatusExpired, sub.Status())

		require.NoError(t, sub.Activate())
		assert.Equal(t, vo.StatusActive, sub.Status())
	})

	t.Run("cancel is terminal", func(t *testing.T) {
		sub := newTestSubscription(t)
		require.NoError(t, sub.Cancel())

		assert.Error(t, sub.Activate())
		assert.Error(t, sub.Expire())
	})
}

func TestSubscriptionStatus_CanReceivePort(t *testing.T) {
	assert.True(t, vo.StatusActive.CanReceivePort())
	assert.True(t, vo.StatusPendingAllocation.CanReceivePort())
	assert.False(t, vo.StatusExpired.CanReceivePort())
	assert.False(t, vo.StatusCancelled.CanReceivePort())
}
