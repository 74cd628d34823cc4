// internal/service/customer/customer.go
package customer

import (
	"context"
	"database/sql"
	"fmt"

	"crm-service/internal/domain/customer"
	xerrors "crm-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *customer.Customer) error
	ListWithOrders(ctx context.Context) ([]customer.CustomerWithOrders, error)
}

type CustomerService struct {
	customerRepo CustomerRepository
	logger       *zap.Logger
}

func NewCustomerService(customerRepo CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// CreateCustomer ingests a customer record. Duplicate emails surface as
// ErrConflict.
func (s *CustomerService) CreateCustomer(ctx context.Context, req *customer.CreateCustomerRequest) (*customer.Customer, error) {
	if req.Name == "" || req.Email == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "name and email are required")
	}

	c := &customer.Customer{
		Name:       req.Name,
		Email:      req.Email,
		TotalSpent: req.TotalSpent,
		VisitCount: req.VisitCount,
	}
	if req.LastActive != nil {
		c.LastActive = sql.NullTime{Time: *req.LastActive, Valid: true}
	}

	if err := s.customerRepo.Create(ctx, c); err != nil {
		if xerrors.Is(err, xerrors.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to create customer", zap.Error(err))
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info("customer created", zap.Int64("customer_id", c.ID))
	return c, nil
}

// ListWithOrders returns every customer with their order history.
func (s *CustomerService) ListWithOrders(ctx context.Context) ([]customer.CustomerWithOrders, error) {
	customers, err := s.customerRepo.ListWithOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}
