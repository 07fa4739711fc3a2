package order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, o *Order) (*Order, error) {
	args := m.Called(ctx, o)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID int64) ([]*Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) ListByBucket(ctx context.Context, b Bucket) ([]*Order, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) MarkPaidTx(ctx context.Context, orderID int64, result PaymentResult, paidAt time.Time) error {
	args := m.Called(ctx, orderID, result, paidAt)
	return args.Error(0)
}

func (m *MockRepository) MarkDelivered(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) PurgeUnpaid(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) PurgeCompleted(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) CountByBucket(ctx context.Context, b Bucket) (int, error) {
	args := m.Called(ctx, b)
	return args.Int(0), args.Error(1)
}

var confirmation = PaymentResult{
	ExternalID: "PAY-123",
	Status:     "COMPLETED",
	UpdateTime: "2024-05-01T10:00:00Z",
	PayerEmail: "buyer@example.com",
}

// --- Tests ---

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("Create", ctx, mock.MatchedBy(func(o *Order) bool {
			return o.UserID == 1 && len(o.Items) == 2 && !o.IsPaid && !o.IsDelivered
		})).Return(&Order{ID: 5, UserID: 1}, nil)

		o, err := svc.Create(ctx, CreateOrderInput{
			UserID: 1,
			Items: []ItemInput{
				{ProductID: 10, Name: "shirt", Quantity: 2, Price: 120},
				{ProductID: 11, Name: "pant", Quantity: 1, Price: 80},
			},
			PaymentMethod: "PayPal",
			ItemsPrice:    320, ShippingPrice: 10, TaxPrice: 32, TotalPrice: 362,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), o.ID)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		svc := NewService(new(MockRepository))
		_, err := svc.Create(ctx, CreateOrderInput{UserID: 1})
		assert.ErrorIs(t, err, ErrNoItems)
	})

	t.Run("NonPositiveQuantity", func(t *testing.T) {
		svc := NewService(new(MockRepository))
		_, err := svc.Create(ctx, CreateOrderInput{
			UserID: 1,
			Items:  []ItemInput{{ProductID: 10, Quantity: 0, Price: 10}},
		})
		assert.ErrorIs(t, err, ErrInvalidItem)
	})

	t.Run("NegativeTotal", func(t *testing.T) {
		svc := NewService(new(MockRepository))
		_, err := svc.Create(ctx, CreateOrderInput{
			UserID:     1,
			Items:      []ItemInput{{ProductID: 10, Quantity: 1, Price: 10}},
			TotalPrice: -1,
		})
		assert.ErrorIs(t, err, ErrInvalidItem)
	})
}

func TestService_Pay(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("MarkPaidTx", ctx, int64(1), confirmation, mock.AnythingOfType("time.Time")).
			Return(nil)
		now := time.Now()
		repo.On("GetByID", ctx, int64(1)).
			Return(&Order{ID: 1, IsPaid: true, PaidAt: &now, PaymentResult: &confirmation}, nil)

		o, err := svc.Pay(ctx, 1, confirmation)
		require.NoError(t, err)
		assert.True(t, o.IsPaid)
		assert.NotNil(t, o.PaidAt)
		assert.Equal(t, "PAY-123", o.PaymentResult.ExternalID)
		repo.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("MarkPaidTx", ctx, int64(99), confirmation, mock.Anything).
			Return(ErrOrderNotFound)

		_, err := svc.Pay(ctx, 99, confirmation)
		assert.ErrorIs(t, err, ErrOrderNotFound)
		repo.AssertNotCalled(t, "GetByID")
	})

	t.Run("SecondPayRejected", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("MarkPaidTx", ctx, int64(1), confirmation, mock.Anything).
			Return(ErrAlreadyPaid)

		_, err := svc.Pay(ctx, 1, confirmation)
		assert.ErrorIs(t, err, ErrAlreadyPaid)
	})

	t.Run("InsufficientStockSurfaces", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("MarkPaidTx", ctx, int64(1), confirmation, mock.Anything).
			Return(ErrInsufficientStock)

		_, err := svc.Pay(ctx, 1, confirmation)
		assert.ErrorIs(t, err, ErrInsufficientStock)
	})
}

func TestService_Deliver(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("MarkDelivered", ctx, int64(1)).Return(nil)
		repo.On("GetByID", ctx, int64(1)).
			Return(&Order{ID: 1, IsPaid: true, IsDelivered: true}, nil)

		o, err := svc.Deliver(ctx, 1)
		require.NoError(t, err)
		assert.True(t, o.IsDelivered)
	})

	t.Run("BeforePaidRejected", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("MarkDelivered", ctx, int64(1)).Return(ErrNotPaid)

		_, err := svc.Deliver(ctx, 1)
		assert.ErrorIs(t, err, ErrNotPaid)
		repo.AssertNotCalled(t, "GetByID")
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("MarkDelivered", ctx, int64(99)).Return(ErrOrderNotFound)

		_, err := svc.Deliver(ctx, 99)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("Delete", ctx, int64(1)).Return(int64(1), nil)
		assert.NoError(t, svc.Delete(ctx, 1))
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("Delete", ctx, int64(99)).Return(int64(0), nil)
		assert.ErrorIs(t, svc.Delete(ctx, 99), ErrOrderNotFound)
	})
}

func TestService_PurgesReportCounts(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("PurgeUnpaid", ctx).Return(int64(4), nil)
	repo.On("PurgeCompleted", ctx).Return(int64(2), nil)

	removed, err := svc.PurgeUnpaid(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), removed)

	removed, err = svc.PurgeCompleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
}

func TestService_DeleteByUser(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("DeleteByUser", ctx, int64(7)).Return(int64(3), nil)

	removed, err := svc.DeleteByUser(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
}
