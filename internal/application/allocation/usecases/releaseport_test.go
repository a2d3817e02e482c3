package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/berth/internal/domain/allocation"
	"github.com/orris-inc/berth/internal/domain/port"
	portvo "github.com/orris-inc/berth/internal/domain/port/valueobjects"
	apperrors "github.com/orris-inc/berth/internal/shared/errors"
	"github.com/orris-inc/berth/internal/shared/logger"
)

func TestReleasePortUseCase_NotAssignedNoOp(t *testing.T) {
	p := reconstructTestPort(t, 5, portvo.StatusAvailable, nil)

	appendCalled := false
	portRepo := &mockPortRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*port.Port, error) {
			return p, nil
		},
	}
	logRepo := &mockLogRepository{
		AppendFunc: func(ctx context.Context, entry *allocation.LogEntry) error {
			appendCalled = true
			return nil
		},
	}

	uc := NewReleasePortUseCase(portRepo, &mockSubscriptionRepository{}, logRepo, nil, logger.NewLogger())
	result, err := uc.Execute(context.Background(), ReleasePortCommand{PortID: 5})

	require.NoError(t, err)
	assert.Equal(t, OutcomeNotAssigned, result.Outcome)
	assert.False(t, appendCalled)
}

func TestReleasePortUseCase_DisabledPortRejected(t *testing.T) {
	p := reconstructTestPort(t, 5, portvo.StatusDisabled, nil)

	portRepo := &mockPortRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*port.Port, error) {
			return p, nil
		},
	}

	uc := NewReleasePortUseCase(portRepo, &mockSubscriptionRepository{}, &mockLogRepository{}, nil, logger.NewLogger())
	_, err := uc.Execute(context.Background(), ReleasePortCommand{PortID: 5})

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
}

func TestReleasePortUseCase_PortNotFound(t *testing.T) {
	uc := NewReleasePortUseCase(&mockPortRepository{}, &mockSubscriptionRepository{}, &mockLogRepository{}, nil, logger.NewLogger())

	_, err := uc.Execute(context.Background(), ReleasePortCommand{PortSID: "prt_missing"})

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestReleasePortUseCase_ResolvesBySID(t *testing.T) {
	p := reconstructTestPort(t, 5, portvo.StatusAvailable, nil)

	var gotSID string
	portRepo := &mockPortRepository{
		GetBySIDFunc: func(ctx context.Context, sid string) (*port.Port, error) {
			gotSID = sid
			return p, nil
		},
	}

	uc := NewReleasePortUseCase(portRepo, &mockSubscriptionRepository{}, &mockLogRepository{}, nil, logger.NewLogger())
	result, err := uc.Execute(context.Background(), ReleasePortCommand{PortSID: "prt_abc"})

	require.NoError(t, err)
	assert.Equal(t, "prt_abc", gotSID)
	assert.Equal(t, OutcomeNotAssigned, result.Outcome)
}
