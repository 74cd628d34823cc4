// internal/repository/postgres/order_repo.go
package postgres

import (
	"context"
	"fmt"

	"crm-service/internal/domain/order"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts a new order. A missing customer surfaces as ErrNotFound.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	query := `
		INSERT INTO orders (customer_id, amount, order_date)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, o.CustomerID, o.Amount, o.OrderDate).Scan(&o.ID)

	if isForeignKeyViolation(err) {
		return xerrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}
