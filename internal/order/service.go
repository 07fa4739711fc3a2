package order

import (
	"context"
	"fmt"
	"time"

	"storemart-be/internal/logger"
	"storemart-be/internal/metrics"

	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*Order, error)
	Get(ctx context.Context, id int64) (*Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*Order, error)
	ListByBucket(ctx context.Context, b Bucket) ([]*Order, error)
	Pay(ctx context.Context, orderID int64, result PaymentResult) (*Order, error)
	Deliver(ctx context.Context, orderID int64) (*Order, error)
	Delete(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
	PurgeUnpaid(ctx context.Context) (int64, error)
	PurgeCompleted(ctx context.Context) (int64, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
		zap.Int64("user_id", input.UserID),
		zap.Int("item_count", len(input.Items)),
	)

	if len(input.Items) == 0 {
		return nil, ErrNoItems
	}

	items := make([]OrderItem, 0, len(input.Items))
	for i, it := range input.Items {
		if it.ProductID <= 0 {
			return nil, fmt.Errorf("%w: missing product reference at index %d", ErrInvalidItem, i)
		}
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive at index %d", ErrInvalidItem, i)
		}
		if it.Price < 0 {
			return nil, fmt.Errorf("%w: price cannot be negative at index %d", ErrInvalidItem, i)
		}
		items = append(items, OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	if input.ItemsPrice < 0 || input.ShippingPrice < 0 || input.TaxPrice < 0 || input.TotalPrice < 0 {
		return nil, fmt.Errorf("%w: price breakdown cannot be negative", ErrInvalidItem)
	}

	o := &Order{
		UserID:          input.UserID,
		Items:           items,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		ItemsPrice:      input.ItemsPrice,
		ShippingPrice:   input.ShippingPrice,
		TaxPrice:        input.TaxPrice,
		TotalPrice:      input.TotalPrice,
	}

	created, err := s.repo.Create(ctx, o)
	if err != nil {
		log.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	log.Info("order created", zap.Int64("order_id", created.ID))
	return created, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByUser(ctx context.Context, userID int64) ([]*Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListByBucket(ctx context.Context, b Bucket) ([]*Order, error) {
	return s.repo.ListByBucket(ctx, b)
}

// Pay drives the Created -> Paid transition. Marking the order paid and
// reconciling stock happen in one unit of work; a repeated pay reports
// ErrAlreadyPaid and leaves inventory alone.
func (s *service) Pay(ctx context.Context, orderID int64, result PaymentResult) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Pay"),
		zap.Int64("order_id", orderID),
	)

	start := time.Now()

	if err := s.repo.MarkPaidTx(ctx, orderID, result, time.Now()); err != nil {
		log.Warn("pay transition failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, err
	}

	metrics.OrdersPaid.Inc()

	log.Info("order paid",
		zap.String("pay_external_id", result.ExternalID),
		zap.String("pay_status", result.Status),
		zap.Duration("duration", time.Since(start)),
	)

	return s.repo.GetByID(ctx, orderID)
}

// Deliver drives the Paid -> Delivered transition. Delivering an unpaid
// order is a precondition violation.
func (s *service) Deliver(ctx context.Context, orderID int64) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Deliver"),
		zap.Int64("order_id", orderID),
	)

	if err := s.repo.MarkDelivered(ctx, orderID); err != nil {
		log.Warn("deliver transition failed", zap.Error(err))
		return nil, err
	}

	metrics.OrdersDelivered.Inc()
	log.Info("order delivered")

	return s.repo.GetByID(ctx, orderID)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}

	logger.FromCtx(ctx).Info("order deleted", zap.Int64("order_id", id))
	return nil
}

func (s *service) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	removed, err := s.repo.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	logger.FromCtx(ctx).Info("orders removed for user",
		zap.Int64("user_id", userID),
		zap.Int64("removed", removed),
	)
	return removed, nil
}

func (s *service) PurgeUnpaid(ctx context.Context) (int64, error) {
	removed, err := s.repo.PurgeUnpaid(ctx)
	if err != nil {
		return 0, err
	}

	metrics.OrdersPurged.Add(uint64(removed))
	logger.FromCtx(ctx).Info("purged unpaid orders", zap.Int64("removed", removed))
	return removed, nil
}

func (s *service) PurgeCompleted(ctx context.Context) (int64, error) {
	removed, err := s.repo.PurgeCompleted(ctx)
	if err != nil {
		return 0, err
	}

	metrics.OrdersPurged.Add(uint64(removed))
	logger.FromCtx(ctx).Info("purged completed orders", zap.Int64("removed", removed))
	return removed, nil
}
