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

func reconstructTestSubscription(t *testing.T, subID uint, portID *uint, status subvo.SubscriptionStatus) *subscription.Subscription {
	t.Helper()
	now := time.Now().UTC()
	sub, err := subscription.ReconstructSubscription(
		subID, "sub_test", 1, 2, nil, portID, status,
		now, now.AddDate(0, 0, 30), now, now, 1,
	)
	require.NoError(t, err)
	return sub
}

func reconstructTestPort(t *testing.T, portID uint, status portvo.PortStatus, assignment *portvo.Assignment) *port.Port {
	t.Helper()
	now := time.Now().UTC()
	p, err := port.ReconstructPort(
		portID, "prt_test", "https://node.example.com", "node", "eu",
		status, assignment, now, now, 1,
	)
	require.NoError(t, err)
	return p
}

func TestAllocatePortUseCase_AlreadyAssigned(t *testing.T) {
	portID := uint(5)
	sub := reconstructTestSubscription(t, 10, &portID, subvo.StatusActive)
	a, err := portvo.NewAssignment(10, 1, time.Now().UTC())
	require.NoError(t, err)
	assignedPort := reconstructTestPort(t, 5, portvo.StatusAssigned, a)

	subRepo := &mockSubscriptionRepository{
		GetByIDFunc: func(ctx context.Context, subID uint) (*subscription.Subscription, error) {
			return sub, nil
		},
	}
	portRepo := &mockPortRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*port.Port, error) {
			assert.Equal(t, portID, id)
			return assignedPort, nil
		},
	}

	uc := NewAllocatePortUseCase(portRepo, subRepo, &mockLogRepository{}, nil, logger.NewLogger())
	result, err := uc.Execute(context.Background(), AllocatePortCommand{SubscriptionID: 10})

	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyAssigned, result.Outcome)
	assert.Equal(t, assignedPort, result.Port)
}

func TestAllocatePortUseCase_NotEligible(t *testing.T) {
	for _, status := range []subvo.SubscriptionStatus{subvo.StatusCancelled, subvo.StatusExpired} {
		t.Run(status.String(), func(t *testing.T) {
			sub := reconstructTestSubscription(t, 10, nil, status)
			subRepo := &mockSubscriptionRepository{
				GetByIDFunc: func(ctx context.Context, subID uint) (*subscription.Subscription, error) {
					return sub, nil
				},
			}

			uc := NewAllocatePortUseCase(&mockPortRepository{}, subRepo, &mockLogRepository{}, nil, logger.NewLogger())
			_, err := uc.Execute(context.Background(), AllocatePortCommand{SubscriptionID: 10})

			require.Error(t, err)
			appErr, ok := err.(*apperrors.AppError)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
		})
	}
}

func TestAllocatePortUseCase_SubscriptionNotFound(t *testing.T) {
	uc := NewAllocatePortUseCase(&mockPortRepository{}, &mockSubscriptionRepository{}, &mockLogRepository{}, nil, logger.NewLogger())

	_, err := uc.Execute(context.Background(), AllocatePortCommand{SubscriptionSID: "sub_missing"})

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestAllocatePortUseCase_ResolvesBySID(t *testing.T) {
	portID := uint(5)
	sub := reconstructTestSubscription(t, 10, &portID, subvo.StatusActive)
	a, err := portvo.NewAssignment(10, 1, time.Now().UTC())
	require.NoError(t, err)
	assignedPort := reconstructTestPort(t, 5, portvo.StatusAssigned, a)

	var gotSID string
	subRepo := &mockSubscriptionRepository{
		GetBySIDFunc: func(ctx context.Context, sid string) (*subscription.Subscription, error) {
			gotSID = sid
			return sub, nil
		},
	}
	portRepo := &mockPortRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*port.Port, error) {
			return assignedPort, nil
		},
	}

	uc := NewAllocatePortUseCase(portRepo, subRepo, &mockLogRepository{}, nil, logger.NewLogger())
	result, err := uc.Execute(context.Background(), AllocatePortCommand{SubscriptionSID: "sub_abc"})

	require.NoError(t, err)
	assert.Equal(t, "sub_abc", gotSID)
	assert.Equal(t, OutcomeAlreadyAssigned, result.Outcome)
}
