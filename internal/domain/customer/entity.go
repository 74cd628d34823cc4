// internal/domain/customer/entity.go
package customer

import (
	"database/sql"
	"time"
)

type Customer struct {
	ID         int64        `json:"id" db:"id"`
	Name       string       `json:"name" db:"name"`
	Email      string       `json:"email" db:"email"`
	TotalSpent float64      `json:"total_spent" db:"total_spent"`
	VisitCount int          `json:"visit_count" db:"visit_count"`
	LastActive sql.NullTime `json:"last_active" db:"last_active"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
}

// CustomerWithOrders is the shape returned by the customer details listing.
type CustomerWithOrders struct {
	Customer
	Orders []OrderSummary `json:"orders"`
}

// OrderSummary is the order projection embedded in customer details.
type OrderSummary struct {
	ID        int64     `json:"id"`
	Amount    float64   `json:"amount"`
	OrderDate time.Time `json:"order_date"`
}
