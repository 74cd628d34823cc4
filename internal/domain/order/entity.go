// internal/domain/order/entity.go
package order

import "time"

type Order struct {
	ID         int64     `json:"id" db:"id"`
	CustomerID int64     `json:"customer_id" db:"customer_id"`
	Amount     float64   `json:"amount" db:"amount"`
	OrderDate  time.Time `json:"order_date" db:"order_date"`
}

type CreateOrderRequest struct {
	CustomerID int64      `json:"customer_id" binding:"required"`
	Amount     float64    `json:"amount" binding:"required,gt=0"`
	OrderDate  *time.Time `json:"order_date"`
}
