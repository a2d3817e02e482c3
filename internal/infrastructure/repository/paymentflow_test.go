package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	allocusecases "github.com/orris-inc/berth/internal/application/allocation/usecases"
	orderusecases "github.com/orris-inc/berth/internal/application/order/usecases"
	subusecases "github.com/orris-inc/berth/internal/application/subscription/usecases"
	"github.com/orris-inc/berth/internal/domain/order"
	"github.com/orris-inc/berth/internal/shared/logger"
)

// TestPaymentFlow_WebhookReplay runs the payment callback twice, the way a
// gateway redelivers on timeout, and checks the whole chain stays idempotent:
// one subscription, one port, one assign entry.
func TestPaymentFlow_WebhookReplay(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()
	log := logger.NewLogger()

	orderRepo := NewOrderRepository(f.gormDB, log)
	createSub := subusecases.NewCreateSubscriptionUseCase(f.subRepo, log)
	handlePayment := orderusecases.NewHandlePaymentSuccessUseCase(
		orderRepo, f.subRepo, createSub, f.allocate, log)

	p := createTestPort(t, f.portRepo, "https://node-pay.example.com", "node-pay")

	o, err := order.NewOrder(100, 1, 990, "USD")
	require.NoError(t, err)
	require.NoError(t, orderRepo.Create(ctx, o))

	first, err := handlePayment.Execute(ctx, orderusecases.HandlePaymentSuccessCommand{OrderSID: o.SID()})
	require.NoError(t, err)
	assert.Equal(t, allocusecases.OutcomeAssigned, first.Outcome)
	require.NotNil(t, first.Subscription)

	replay, err := handlePayment.Execute(ctx, orderusecases.HandlePaymentSuccessCommand{OrderSID: o.SID()})
	require.NoError(t, err)
	assert.Equal(t, allocusecases.OutcomeAlreadyAssigned, replay.Outcome)
	assert.Equal(t, first.Subscription.ID(), replay.Subscription.ID())

	t.Run("order points at the one subscription", func(t *testing.T) {
		gotOrder, err := orderRepo.GetBySID(ctx, o.SID())
		require.NoError(t, err)
		require.NotNil(t, gotOrder.SubscriptionID())
		assert.Equal(t, first.Subscription.ID(), *gotOrder.SubscriptionID())
		assert.Equal(t, order.StatusSuccess, gotOrder.Status())
	})

	t.Run("single assign entry despite the replay", func(t *testing.T) {
		assert.Len(t, f.portLogs(t, p.ID()), 1)
	})

	t.Run("empty pool parks the buyer instead of failing the webhook", func(t *testing.T) {
		o2, err := order.NewOrder(200, 1, 990, "USD")
		require.NoError(t, err)
		require.NoError(t, orderRepo.Create(ctx, o2))

		result, err := handlePayment.Execute(ctx, orderusecases.HandlePaymentSuccessCommand{OrderSID: o2.SID()})
		require.NoError(t, err)
		assert.Equal(t, allocusecases.OutcomeNoAvailablePorts, result.Outcome)
	})
}
