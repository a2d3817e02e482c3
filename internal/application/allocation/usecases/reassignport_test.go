package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/berth/internal/domain/port"
	portvo "github.com/orris-inc/berth/internal/domain/port/valueobjects"
	"github.com/orris-inc/berth/internal/domain/subscription"
	subvo "github.com/orris-inc/berth/internal/domain/subscription/valueobjects"
	apperrors "github.com/orris-inc/berth/internal/shared/errors"
	"github.com/orris-inc/berth/internal/shared/logger"
)

func TestReassignPortUseCase_RequiresOperator(t *testing.T) {
	uc := NewReassignPortUseCase(&mockPortRepository{}, &mockSubscriptionRepository{}, &mockLogRepository{}, nil, logger.NewLogger())

	_, err := uc.Execute(context.Background(), ReassignPortCommand{PortID: 5, NewSubscriptionID: 10})

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestReassignPortUseCase_AlreadyServingTarget(t *testing.T) {
	a, err := portvo.NewAssignment(10, 1, time.Now().UTC())
	require.NoError(t, err)
	p := reconstructTestPort(t, 5, portvo.StatusAssigned, a)
	portID := uint(5)
	target := reconstructTestSubscription(t, 10, &portID, subvo.StatusActive)

	portRepo := &mockPortRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*port.Port, error) {
			return p, nil
		},
	}
	subRepo := &mockSubscriptionRepository{
		GetByIDFunc: func(ctx context.Context, subID uint) (*subscription.Subscription, error) {
			return target, nil
		},
	}

	uc := NewReassignPortUseCase(portRepo, subRepo, &mockLogRepository{}, nil, logger.NewLogger())
	result, err := uc.Execute(context.Background(), ReassignPortCommand{PortID: 5, NewSubscriptionID: 10, OperatorID: 1})

	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyAssigned, result.Outcome)
}

func TestReassignPortUseCase_TargetHoldsAnotherPort(t *testing.T) {
	a, err := portvo.NewAssignment(33, 1, time.Now().UTC())
	require.NoError(t, err)
	p := reconstructTestPort(t, 5, portvo.StatusAssigned, a)
	otherPortID := uint(6)
	target := reconstructTestSubscription(t, 10, &otherPortID, subvo.StatusActive)

	portRepo := &mockPortRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*port.Port, error) {
			return p, nil
		},
	}
	subRepo := &mockSubscriptionRepository{
		GetByIDFunc: func(ctx context.Context, subID uint) (*subscription.Subscription, error) {
			return target, nil
		},
	}

	uc := NewReassignPortUseCase(portRepo, subRepo, &mockLogRepository{}, nil, logger.NewLogger())
	_, err = uc.Execute(context.Background(), ReassignPortCommand{PortID: 5, NewSubscriptionID: 10, OperatorID: 1})

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
}

func TestReassignPortUseCase_DisabledPortRejected(t *testing.T) {
	p := reconstructTestPort(t, 5, portvo.StatusDisabled, nil)
	target := reconstructTestSubscription(t, 10, nil, subvo.StatusActive)

	portRepo := &mockPortRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*port.Port, error) {
			return p, nil
		},
	}
	subRepo := &mockSubscriptionRepository{
		GetByIDFunc: func(ctx context.Context, subID uint) (*subscription.Subscription, error) {
			return target, nil
		},
	}

	uc := NewReassignPortUseCase(portRepo, subRepo, &mockLogRepository{}, nil, logger.NewLogger())
	_, err := uc.Execute(context.Background(), ReassignPortCommand{PortID: 5, NewSubscriptionID: 10, OperatorID: 1})

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
}

func TestReassignPortUseCase_TargetNotEligible(t *testing.T) {
	p := reconstructTestPort(t, 5, portvo.StatusAvailable, nil)
	target := reconstructTestSubscription(t, 10, nil, subvo.StatusCancelled)

	portRepo := &mockPortRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*port.Port, error) {
			return p, nil
		},
	}
	subRepo := &mockSubscriptionRepository{
		GetByIDFunc: func(ctx context.Context, subID uint) (*subscription.Subscription, error) {
			return target, nil
		},
	}

	uc := NewReassignPortUseCase(portRepo, subRepo, &mockLogRepository{}, nil, logger.NewLogger())
	_, err := uc.Execute(context.Background(), ReassignPortCommand{PortID: 5, NewSubscriptionID: 10, OperatorID: 1})

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
}
