// internal/domain/segment/entity.go
package segment

import (
	"encoding/json"
	"time"
)

// Segment is a named, rule-defined customer audience. Segments are immutable
// after creation; the cached audience size is a snapshot taken at that point.
type Segment struct {
	ID           int64           `json:"id" db:"id"`
	UserID       int64           `json:"user_id" db:"user_id"`
	Name         string          `json:"name" db:"name"`
	Rules        json.RawMessage `json:"rules" db:"rules"`
	AudienceSize int             `json:"audience_size" db:"audience_size"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}
