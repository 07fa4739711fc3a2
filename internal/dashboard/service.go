package dashboard

import (
	"context"

	"storemart-be/internal/catalog"
	"storemart-be/internal/logger"
	"storemart-be/internal/order"
	"storemart-be/internal/user"

	"go.uber.org/zap"
)

// Summary is the admin aggregate. It is recomputed from the stores on
// every call, so it can never drift from the underlying data.
type Summary struct {
	Admins           int `json:"count_admin"`
	Customers        int `json:"count_user"`
	Categories       int `json:"count_category"`
	Products         int `json:"count_product"`
	UnpaidOrders     int `json:"count_unpaid_orders"`
	AwaitingDelivery int `json:"count_awaiting_delivery"`
	CompletedOrders  int `json:"count_completed_orders"`
}

type Service interface {
	Summary(ctx context.Context) (*Summary, error)
}

type service struct {
	catalog catalog.Repository
	orders  order.Repository
	users   user.Repository
}

func NewService(catalogRepo catalog.Repository, orderRepo order.Repository, userRepo user.Repository) Service {
	return &service{
		catalog: catalogRepo,
		orders:  orderRepo,
		users:   userRepo,
	}
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Summary"),
	)

	var (
		sum Summary
		err error
	)

	if sum.Admins, err = s.users.CountByRole(ctx, true); err != nil {
		log.Error("failed to count admins", zap.Error(err))
		return nil, err
	}
	if sum.Customers, err = s.users.CountByRole(ctx, false); err != nil {
		log.Error("failed to count customers", zap.Error(err))
		return nil, err
	}
	if sum.Categories, err = s.catalog.CountCategories(ctx); err != nil {
		log.Error("failed to count categories", zap.Error(err))
		return nil, err
	}
	if sum.Products, err = s.catalog.CountProducts(ctx); err != nil {
		log.Error("failed to count products", zap.Error(err))
		return nil, err
	}
	if sum.UnpaidOrders, err = s.orders.CountByBucket(ctx, order.BucketUnpaid); err != nil {
		log.Error("failed to count unpaid orders", zap.Error(err))
		return nil, err
	}
	if sum.AwaitingDelivery, err = s.orders.CountByBucket(ctx, order.BucketAwaitingDelivery); err != nil {
		log.Error("failed to count awaiting orders", zap.Error(err))
		return nil, err
	}
	if sum.CompletedOrders, err = s.orders.CountByBucket(ctx, order.BucketCompleted); err != nil {
		log.Error("failed to count completed orders", zap.Error(err))
		return nil, err
	}

	return &sum, nil
}
