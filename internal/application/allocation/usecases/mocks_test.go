package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/berth/internal/domain/allocation"
	"github.com/orris-inc/berth/internal/domain/port"
	"github.com/orris-inc/berth/internal/domain/subscription"
	subvo "github.com/orris-inc/berth/internal/domain/subscription/valueobjects"
)

type mockPortRepository struct {
	CreateFunc              func(ctx context.Context, p *port.Port) error
	UpdateFunc              func(ctx context.Context, p *port.Port) error
	DeleteFunc              func(ctx context.Context, portID uint) error
	GetByIDFunc             func(ctx context.Context, portID uint) (*port.Port, error)
	GetBySIDFunc            func(ctx context.Context, sid string) (*port.Port, error)
	GetBySubscriptionIDFunc func(ctx context.Context, subscriptionID uint) (*port.Port, error)
	FindAvailableFunc       func(ctx context.Context, limit int) ([]*port.Port, error)
	CountAvailableFunc      func(ctx context.Context) (int64, error)
	AssignAtomicallyFunc    func(ctx context.Context, portID, subscriptionID, customerID uint, at time.Time) (bool, error)
	ReleaseAtomicallyFunc   func(ctx context.Context, portID uint) (bool, error)
	ExistsByInstanceURLFunc func(ctx context.Context, instanceURL string) (bool, error)
	ListFunc                func(ctx context.Context, filter port.ListFilter) ([]*port.Port, int64, error)
}

func (m *mockPortRepository) Create(ctx context.Context, p *port.Port) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil
}

func (m *mockPortRepository) Update(ctx context.Context, p *port.Port) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, p)
	}
	return nil
}

func (m *mockPortRepository) Delete(ctx context.Context, portID uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, portID)
	}
	return nil
}

func (m *mockPortRepository) GetByID(ctx context.Context, portID uint) (*port.Port, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, portID)
	}
	return nil, nil
}

func (m *mockPortRepository) GetBySID(ctx context.Context, sid string) (*port.Port, error) {
	if m.GetBySIDFunc != nil {
		return m.GetBySIDFunc(ctx, sid)
	}
	return nil, nil
}

func (m *mockPortRepository) GetBySubscriptionID(ctx context.Context, subscriptionID uint) (*port.Port, error) {
	if m.GetBySubscriptionIDFunc != nil {
		return m.GetBySubscriptionIDFunc(ctx, subscriptionID)
	}
	return nil, nil
}

func (m *mockPortRepository) FindAvailable(ctx context.Context, limit int) ([]*port.Port, error) {
	if m.FindAvailableFunc != nil {
		return m.FindAvailableFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockPortRepository) CountAvailable(ctx context.Context) (int64, error) {
	if m.CountAvailableFunc != nil {
		return m.CountAvailableFunc(ctx)
	}
	return 0, nil
}

func (m *mockPortRepository) AssignAtomically(ctx context.Context, portID, subscriptionID, customerID uint, at time.Time) (bool, error) {
	if m.AssignAtomicallyFunc != nil {
		return m.AssignAtomicallyFunc(ctx, portID, subscriptionID, customerID, at)
	}
	return false, nil
}

func (m *mockPortRepository) ReleaseAtomically(ctx context.Context, portID uint) (bool, error) {
	if m.ReleaseAtomicallyFunc != nil {
		return m.ReleaseAtomicallyFunc(ctx, portID)
	}
	return false, nil
}

func (m *mockPortRepository) ExistsByInstanceURL(ctx context.Context, instanceURL string) (bool, error) {
	if m.ExistsByInstanceURLFunc != nil {
		return m.ExistsByInstanceURLFunc(ctx, instanceURL)
	}
	return false, nil
}

func (m *mockPortRepository) List(ctx context.Context, filter port.ListFilter) ([]*port.Port, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

type mockSubscriptionRepository struct {
	CreateFunc                func(ctx context.Context, sub *subscription.Subscription) error
	UpdateFunc                func(ctx context.Context, sub *subscription.Subscription) error
	GetByIDFunc               func(ctx context.Context, subID uint) (*subscription.Subscription, error)
	GetBySIDFunc              func(ctx context.Context, sid string) (*subscription.Subscription, error)
	GetByCustomerIDFunc       func(ctx context.Context, customerID uint) ([]*subscription.Subscription, error)
	UpdatePortLinkFunc        func(ctx context.Context, subID uint, portID *uint) error
	UpdateStatusFunc          func(ctx context.Context, subID uint, status subvo.SubscriptionStatus) error
	FindPendingAllocationFunc func(ctx context.Context, limit int) ([]*subscription.Subscription, error)
	FindExpiredFunc           func(ctx context.Context, cutoff time.Time) ([]*subscription.Subscription, error)
	ListFunc                  func(ctx context.Context, filter subscription.ListFilter) ([]*subscription.Subscription, int64, error)
}

func (m *mockSubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, sub)
	}
	return nil
}

func (m *mockSubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, sub)
	}
	return nil
}

func (m *mockSubscriptionRepository) GetByID(ctx context.Context, subID uint) (*subscription.Subscription, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, subID)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) GetBySID(ctx context.Context, sid string) (*subscription.Subscription, error) {
	if m.GetBySIDFunc != nil {
		return m.GetBySIDFunc(ctx, sid)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) GetByCustomerID(ctx context.Context, customerID uint) ([]*subscription.Subscription, error) {
	if m.GetByCustomerIDFunc != nil {
		return m.GetByCustomerIDFunc(ctx, customerID)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) UpdatePortLink(ctx context.Context, subID uint, portID *uint) error {
	if m.UpdatePortLinkFunc != nil {
		return m.UpdatePortLinkFunc(ctx, subID, portID)
	}
	return nil
}

func (m *mockSubscriptionRepository) UpdateStatus(ctx context.Context, subID uint, status subvo.SubscriptionStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, subID, status)
	}
	return nil
}

func (m *mockSubscriptionRepository) FindPendingAllocation(ctx context.Context, limit int) ([]*subscription.Subscription, error) {
	if m.FindPendingAllocationFunc != nil {
		return m.FindPendingAllocationFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) FindExpired(ctx context.Context, cutoff time.Time) ([]*subscription.Subscription, error) {
	if m.FindExpiredFunc != nil {
		return m.FindExpiredFunc(ctx, cutoff)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) List(ctx context.Context, filter subscription.ListFilter) ([]*subscription.Subscription, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

type mockLogRepository struct {
	AppendFunc             func(ctx context.Context, entry *allocation.LogEntry) error
	ListByPortFunc         func(ctx context.Context, portID uint) ([]*allocation.LogEntry, error)
	ListBySubscriptionFunc func(ctx context.Context, subscriptionID uint) ([]*allocation.LogEntry, error)
	ListFunc               func(ctx context.Context, filter allocation.ListFilter) ([]*allocation.LogEntry, int64, error)
}

func (m *mockLogRepository) Append(ctx context.Context, entry *allocation.LogEntry) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, entry)
	}
	return nil
}

func (m *mockLogRepository) ListByPort(ctx context.Context, portID uint) ([]*allocation.LogEntry, error) {
	if m.ListByPortFunc != nil {
		return m.ListByPortFunc(ctx, portID)
	}
	return nil, nil
}

func (m *mockLogRepository) ListBySubscription(ctx context.Context, subscriptionID uint) ([]*allocation.LogEntry, error) {
	if m.ListBySubscriptionFunc != nil {
		return m.ListBySubscriptionFunc(ctx, subscriptionID)
	}
	return nil, nil
}

func (m *mockLogRepository) List(ctx context.Context, filter allocation.ListFilter) ([]*allocation.LogEntry, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}
