// internal/service/order/order.go
package order

import (
	"context"
	"fmt"
	"time"

	"crm-service/internal/domain/order"
	xerrors "crm-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type OrderRepository interface {
	Create(ctx context.Context, o *order.Order) error
}

type OrderService struct {
	orderRepo OrderRepository
	logger    *zap.Logger
}

func NewOrderService(orderRepo OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// CreateOrder records an order for an existing customer. The order date
// defaults to now when omitted.
func (s *OrderService) CreateOrder(ctx context.Context, req *order.CreateOrderRequest) (*order.Order, error) {
	if req.CustomerID == 0 || req.Amount <= 0 {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "customer_id and a positive amount are required")
	}

	o := &order.Order{
		CustomerID: req.CustomerID,
		Amount:     req.Amount,
		OrderDate:  time.Now().UTC(),
	}
	if req.OrderDate != nil {
		o.OrderDate = *req.OrderDate
	}

	if err := s.orderRepo.Create(ctx, o); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.Wrap(xerrors.ErrNotFound, fmt.Sprintf("customer %d", req.CustomerID))
		}
		s.logger.Error("failed to create order", zap.Error(err))
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info("order created", zap.Int64("order_id", o.ID), zap.Int64("customer_id", o.CustomerID))
	return o, nil
}
