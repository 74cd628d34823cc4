// internal/domain/customer/dto.go
package customer

import "time"

type CreateCustomerRequest struct {
	Name       string     `json:"name" binding:"required,max=255"`
	Email      string     `json:"email" binding:"required,email"`
	TotalSpent float64    `json:"total_spent" binding:"min=0"`
	VisitCount int        `json:"visit_count" binding:"min=0"`
	LastActive *time.Time `json:"last_active"`
}
