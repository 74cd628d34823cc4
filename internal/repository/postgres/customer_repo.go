// internal/repository/postgres/customer_repo.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"crm-service/internal/domain/customer"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/rules"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create inserts a new customer.
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (name, email, total_spent, visit_count, last_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		c.Name, c.Email, c.TotalSpent, c.VisitCount, c.LastActive,
	).Scan(&c.ID, &c.CreatedAt)

	if isUniqueViolation(err) {
		return xerrors.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// FindMatching returns the customers satisfying a compiled rule predicate.
func (r *CustomerRepository) FindMatching(ctx context.Context, pred *rules.Predicate) ([]customer.Customer, error) {
	query := fmt.Sprintf(`
		SELECT id, name, email, total_spent, visit_count, last_active, created_at
		FROM customers
		WHERE %s
		ORDER BY id
	`, pred.SQL)

	rows, err := r.db.Query(ctx, query, pred.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matching customers: %w", err)
	}
	defer rows.Close()

	customers := []customer.Customer{}
	for rows.Next() {
		var c customer.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.TotalSpent, &c.VisitCount, &c.LastActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	return customers, rows.Err()
}

// ListWithOrders returns all customers with their orders, newest orders first.
func (r *CustomerRepository) ListWithOrders(ctx context.Context) ([]customer.CustomerWithOrders, error) {
	query := `
		SELECT c.id, c.name, c.email, c.total_spent, c.visit_count, c.last_active, c.created_at,
		       o.id, o.amount, o.order_date
		FROM customers c
		LEFT JOIN orders o ON c.id = o.customer_id
		ORDER BY c.id, o.order_date DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	result := []customer.CustomerWithOrders{}
	index := map[int64]int{}

	for rows.Next() {
		var c customer.Customer
		var orderID sql.NullInt64
		var amount sql.NullFloat64
		var orderDate sql.NullTime

		if err := rows.Scan(
			&c.ID, &c.Name, &c.Email, &c.TotalSpent, &c.VisitCount, &c.LastActive, &c.CreatedAt,
			&orderID, &amount, &orderDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan customer row: %w", err)
		}

		pos, seen := index[c.ID]
		if !seen {
			pos = len(result)
			index[c.ID] = pos
			result = append(result, customer.CustomerWithOrders{Customer: c, Orders: []customer.OrderSummary{}})
		}

		if orderID.Valid {
			result[pos].Orders = append(result[pos].Orders, customer.OrderSummary{
				ID:        orderID.Int64,
				Amount:    amount.Float64,
				OrderDate: orderDate.Time,
			})
		}
	}

	return result, rows.Err()
}
