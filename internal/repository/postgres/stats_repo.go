// internal/repository/postgres/stats_repo.go
package postgres

import (
	"context"
	"fmt"

	"crm-service/internal/domain/stats"

	"github.com/jackc/pgx/v5/pgxpool"
)

type StatsRepository struct {
	db *pgxpool.Pool
}

func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: db}
}

// Dashboard aggregates the rollups behind the dashboard view: global customer
// and order totals plus the user's segments and recent campaign performance.
func (r *StatsRepository) Dashboard(ctx context.Context, userID int64) (*stats.Dashboard, error) {
	d := &stats.Dashboard{RecentCampaigns: []stats.CampaignActivity{}}

	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&d.TotalCustomers); err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&d.TotalOrders); err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM segments WHERE user_id = $1`, userID).Scan(&d.TotalSegments); err != nil {
		return nil, fmt.Errorf("failed to count segments: %w", err)
	}

	query := `
		SELECT c.id, c.message, c.created_at, s.name, s.audience_size
		FROM campaigns c
		JOIN segments s ON c.segment_id = s.id
		WHERE s.user_id = $1
		ORDER BY c.created_at DESC
		LIMIT 5
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent campaigns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a stats.CampaignActivity
		if err := rows.Scan(&a.ID, &a.Message, &a.CreatedAt, &a.SegmentName, &a.AudienceSize); err != nil {
			return nil, fmt.Errorf("failed to scan campaign activity: %w", err)
		}
		d.RecentCampaigns = append(d.RecentCampaigns, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	d.TotalCampaigns = int64(len(d.RecentCampaigns))

	if len(d.RecentCampaigns) == 0 {
		return d, nil
	}

	campaignIDs := make([]int64, len(d.RecentCampaigns))
	byID := map[int64]*stats.CampaignActivity{}
	for i := range d.RecentCampaigns {
		campaignIDs[i] = d.RecentCampaigns[i].ID
		byID[d.RecentCampaigns[i].ID] = &d.RecentCampaigns[i]
	}

	perfQuery := `
		SELECT campaign_id, status, COUNT(*)
		FROM delivery_logs
		WHERE campaign_id = ANY($1)
		GROUP BY campaign_id, status
	`

	perfRows, err := r.db.Query(ctx, perfQuery, campaignIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query campaign performance: %w", err)
	}
	defer perfRows.Close()

	for perfRows.Next() {
		var campaignID int64
		var status string
		var count int

		if err := perfRows.Scan(&campaignID, &status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan campaign performance: %w", err)
		}

		activity, ok := byID[campaignID]
		if !ok {
			continue
		}
		switch status {
		case "SENT":
			activity.Success = count
		case "FAILED":
			activity.Failed = count
		}
	}

	return d, perfRows.Err()
}
