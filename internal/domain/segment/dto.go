// internal/domain/segment/dto.go
package segment

import (
	"encoding/json"

	"crm-service/internal/domain/customer"
)

type CreateSegmentRequest struct {
	UserID int64           `json:"user_id" binding:"required"`
	Name   string          `json:"name" binding:"required,max=255"`
	Rules  json.RawMessage `json:"rules" binding:"required"`
}

type CreateSegmentResponse struct {
	Segment      *Segment            `json:"segment"`
	Customers    []customer.Customer `json:"customers"`
	AudienceSize int                 `json:"audience_size"`
}
