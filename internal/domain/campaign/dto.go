// internal/domain/campaign/dto.go
package campaign

type CreateCampaignRequest struct {
	SegmentID int64  `json:"segment_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

type CreateCampaignResponse struct {
	Campaign          *Campaign `json:"campaign"`
	CustomersTargeted int       `json:"customers_targeted"`
}
