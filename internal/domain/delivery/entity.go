// internal/domain/delivery/entity.go
package delivery

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusClaimed Status = "CLAIMED"
	StatusSent    Status = "SENT"
	StatusFailed  Status = "FAILED"
)

// Terminal reports whether a status permits no further transition.
func (s Status) Terminal() bool {
	return s == StatusSent || s == StatusFailed
}

// ParseOutcome validates a reported delivery outcome. Only terminal statuses
// are acceptable in a receipt; the claim states belong to the worker.
func ParseOutcome(raw string) (Status, error) {
	switch Status(raw) {
	case StatusSent:
		return StatusSent, nil
	case StatusFailed:
		return StatusFailed, nil
	default:
		return "", fmt.Errorf("invalid delivery status %q", raw)
	}
}

// LogEntry is the per-(campaign, customer) delivery record. Exactly one row
// exists per pair matched at campaign creation; status moves PENDING ->
// CLAIMED -> {SENT, FAILED} and never leaves a terminal state.
type LogEntry struct {
	CampaignID int64     `json:"campaign_id" db:"campaign_id"`
	CustomerID int64     `json:"customer_id" db:"customer_id"`
	Status     Status    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Ref identifies one delivery-log row.
type Ref struct {
	CampaignID int64 `json:"campaign_id"`
	CustomerID int64 `json:"customer_id"`
}

// Receipt is a reported delivery outcome for one log entry.
type Receipt struct {
	CampaignID int64  `json:"campaign_id"`
	CustomerID int64  `json:"customer_id"`
	Status     Status `json:"status"`
}
