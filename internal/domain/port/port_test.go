package port

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/orris-inc/berth/internal/domain/port/valueobjects"
)

func newTestPort(t *testing.T) *Port {
	p, err := NewPort("https://node-1.example.com:8443", "node-1", "us-east")
	require.NoError(t, err)
	return p
}

func TestNewPort(t *testing.T) {
	t.Run("creates available port with SID", func(t *testing.T) {
		p := newTestPort(t)

		assert.Equal(t, vo.StatusAvailable, p.Status())
		assert.Nil(t, p.Assignment())
		assert.False(t, p.IsAssigned())
		assert.True(t, strings.HasPrefix(p.SID(), "prt_"))
		assert.Equal(t, 1, p.Version())
		assert.Zero(t, p.ID())
	})

	t.Run("rejects empty instance URL", func(t *testing.T) {
		_, err := NewPort("", "node-1", "us-east")
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewPort("https://node-1.example.com", "", "us-east")
		assert.Error(t, err)
	})
}

func TestPort_Assign(t *testing.T) {
	t.Run("assign available port", func(t *testing.T) {
		p := newTestPort(t)
		at := time.Now().UTC()

		err := p.Assign(10, 20, at)
		require.NoError(t, err)

		assert.Equal(t, vo.StatusAssigned, p.Status())
		require.NotNil(t, p.Assignment())
		assert.Equal(t, uint(10), p.Assignment().SubscriptionID())
		assert.Equal(t, uint(20), p.Assignment().CustomerID())
		assert.Equal(t, 2, p.Version())
	})

	t.Run("assign rejects non-available port", func(t *testing.T) {
		p := newTestPort(t)
		require.NoError(t, p.Assign(10, 20, time.Now().UTC()))

		err := p.Assign(11, 21, time.Now().UTC())
		assert.ErrorIs(t, err, ErrPortNotAvailable)
	})

	t.Run("assign rejects zero subscription", func(t *testing.T) {
		p := newTestPort(t)
		err := p.Assign(0, 20, time.Now().UTC())
		assert.Error(t, err)
		assert.Equal(t, vo.StatusAvailable, p.Status())
	})
}

func TestPort_Release(t *testing.T) {
	t.Run("release assigned port clears assignment", func(t *testing.T) {
		p := newTestPort(t)
		require.NoError(t, p.Assign(10, 20, time.Now().UTC()))

		err := p.Release()
		require.NoError(t, err)

		assert.Equal(t, vo.StatusAvailable, p.Status())
		assert.Nil(t, p.Assignment())
	})

	t.Run("release unassigned port is a no-op", func(t *testing.T) {
		p := newTestPort(t)
		v := p.Version()

		err := p.Release()
		require.NoError(t, err)
		assert.Equal(t, v, p.Version())
	})

	t.Run("release disabled port is rejected", func(t *testing.T) {
		p := newTestPort(t)
		require.NoError(t, p.Disable())

		err := p.Release()
		assert.ErrorIs(t, err, ErrPortDisabled)
	})
}

func TestPort_OperatorTransitions(t *testing.T) {
	t.Run("reserve and enable", func(t *testing.T) {
		p := newTestPort(t)

		require.NoError(t, p.Reserve())
		assert.Equal(t, vo.StatusReserved, p.Status())

		require.NoError(t, p.Enable())
		assert.Equal(t, vo.StatusAvailable, p.Status())
	})

	t.Run("reserve assigned port is rejected", func(t *testing.T) {
		p := newTestPort(t)
		require.NoError(t, p.Assign(10, 20, time.Now().UTC()))

		assert.ErrorIs(t, p.Reserve(), ErrPortAssigned)
	})

	t.Run("disable assigned port is rejected", func(t *testing.T) {
		p := newTestPort(t)
		require.NoError(t, p.Assign(10, 20, time.Now().UTC()))

		assert.ErrorIs(t, p.Disable(), ErrPortAssigned)
	})

	t.Run("disable is idempotent", func(t *testing.T) {
		p := newTestPort(t)
		require.NoError(t, p.Disable())
		require.NoError(t, p.Disable())
		assert.Equal(t, vo.StatusDisabled, p.Status())
	})

	t.Run("update instance URL on assigned port is rejected", func(t *testing.T) {
		p := newTestPort(t)
		require.NoError(t, p.Assign(10, 20, time.Now().UTC()))

		assert.ErrorIs(t, p.UpdateInstanceURL("https://other.example.com"), ErrPortAssigned)
	})
}

func TestPort_CanDelete(t *testing.T) {
	p := newTestPort(t)
	assert.True(t, p.CanDelete())

	require.NoError(t, p.Assign(10, 20, time.Now().UTC()))
	assert.False(t, p.CanDelete())

	require.NoError(t, p.Release())
	assert.True(t, p.CanDelete())
}

func TestReconstructPort(t *testing.T) {
	now := time.Now().UTC()

	t.Run("assigned port requires assignment record", func(t *testing.T) {
		_, err := ReconstructPort(1, "prt_abc", "https://n.example.com", "n", "eu", vo.StatusAssigned, nil, now, now, 1)
		assert.Error(t, err)
	})

	t.Run("unassigned port must not carry assignment", func(t *testing.T) {
		a, err := vo.NewAssignment(10, 20, now)
		require.NoError(t, err)

		_, err = ReconstructPort(1, "prt_abc", "https://n.example.com", "n", "eu", vo.StatusAvailable, a, now, now, 1)
		assert.Error(t, err)
	})

	t.Run("round trip", func(t *testing.T) {
		a, err := vo.NewAssignment(10, 20, now)
		require.NoError(t, err)

		p, err := ReconstructPort(7, "prt_abc", "https://n.example.com", "n", "eu", vo.StatusAssigned, a, now, now, 3)
		require.NoError(t, err)
		assert.Equal(t, uint(7), p.ID())
		assert.True(t, p.IsAssigned())
		assert.Equal(t, 3, p.Version())
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		_, err := ReconstructPort(1, "prt_abc", "https://n.example.com", "n", "eu", "broken", nil, now, now, 1)
		assert.Error(t, err)
	})
}

func TestPortStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    vo.PortStatus
		to      vo.PortStatus
		allowed bool
	}{
		{vo.StatusAvailable, vo.StatusAssigned, true},
		{vo.StatusAvailable, vo.StatusReserved, true},
		{vo.StatusAvailable, vo.StatusDisabled, true},
		{vo.StatusAssigned, vo.StatusAvailable, true},
		{vo.StatusAssigned, vo.StatusReserved, false},
		{vo.StatusAssigned, vo.StatusDisabled, false},
		{vo.StatusReserved, vo.StatusAssigned, false},
		{vo.StatusDisabled, vo.StatusAvailable, true},
		{vo.StatusDisabled, vo.StatusAssigned, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}
