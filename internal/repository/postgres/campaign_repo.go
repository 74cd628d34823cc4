// internal/repository/postgres/campaign_repo.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"crm-service/internal/domain/campaign"
	"crm-service/internal/domain/delivery"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CampaignRepository struct {
	db *pgxpool.Pool
}

func NewCampaignRepository(db *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// CreateWithLogs inserts the campaign row and one PENDING delivery-log row per
// targeted customer in a single transaction, all sharing one creation
// timestamp. Either both the campaign and its log rows commit, or neither.
func (r *CampaignRepository) CreateWithLogs(ctx context.Context, c *campaign.Campaign, customerIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	err = tx.QueryRow(
		ctx,
		`INSERT INTO campaigns (segment_id, message, created_at) VALUES ($1, $2, $3) RETURNING id`,
		c.SegmentID, c.Message, now,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	c.CreatedAt = now

	if len(customerIDs) > 0 {
		logRows := make([][]interface{}, 0, len(customerIDs))
		for _, customerID := range customerIDs {
			logRows = append(logRows, []interface{}{c.ID, customerID, string(delivery.StatusPending), now, now})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"delivery_logs"},
			[]string{"campaign_id", "customer_id", "status", "created_at", "updated_at"},
			pgx.CopyFromRows(logRows),
		)
		if err != nil {
			return fmt.Errorf("failed to create delivery logs: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// History returns the per-campaign delivery rollup, newest first.
func (r *CampaignRepository) History(ctx context.Context) ([]campaign.HistoryEntry, error) {
	query := `
		SELECT c.id, c.segment_id, c.message, c.created_at,
		       COUNT(dl.*) AS audience_size,
		       COUNT(CASE WHEN dl.status = 'SENT' THEN 1 END) AS sent_count,
		       COUNT(CASE WHEN dl.status = 'FAILED' THEN 1 END) AS failed_count
		FROM campaigns c
		LEFT JOIN delivery_logs dl ON c.id = dl.campaign_id
		GROUP BY c.id
		ORDER BY c.created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query campaign history: %w", err)
	}
	defer rows.Close()

	entries := []campaign.HistoryEntry{}
	for rows.Next() {
		var e campaign.HistoryEntry
		if err := rows.Scan(
			&e.CampaignID, &e.SegmentID, &e.Message, &e.CreatedAt,
			&e.AudienceSize, &e.SentCount, &e.FailedCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
