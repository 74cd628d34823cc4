// internal/domain/campaign/entity.go
package campaign

import "time"

// Campaign is a single message dispatch targeted at a segment's audience as
// resolved at creation time. Immutable after creation.
type Campaign struct {
	ID        int64     `json:"id" db:"id"`
	SegmentID int64     `json:"segment_id" db:"segment_id"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// HistoryEntry is one row of the campaign history rollup.
type HistoryEntry struct {
	CampaignID   int64     `json:"campaign_id"`
	SegmentID    int64     `json:"segment_id"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
	AudienceSize int       `json:"audience_size"`
	SentCount    int       `json:"sent_count"`
	FailedCount  int       `json:"failed_count"`
}
