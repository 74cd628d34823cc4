// internal/domain/stats/entity.go
package stats

import "time"

type DashboardRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

type Dashboard struct {
	TotalCustomers  int64              `json:"total_customers"`
	TotalOrders     int64              `json:"total_orders"`
	TotalSegments   int64              `json:"total_segments"`
	TotalCampaigns  int64              `json:"total_campaigns"`
	RecentCampaigns []CampaignActivity `json:"recent_campaigns"`
}

// CampaignActivity is one recent campaign with its delivery performance.
type CampaignActivity struct {
	ID           int64     `json:"id"`
	Message      string    `json:"message"`
	SegmentName  string    `json:"segment"`
	CreatedAt    time.Time `json:"created_at"`
	AudienceSize int       `json:"audience_size"`
	Success      int       `json:"success"`
	Failed       int       `json:"failed"`
}
