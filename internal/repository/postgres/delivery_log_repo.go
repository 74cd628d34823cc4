// internal/repository/postgres/delivery_log_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crm-service/internal/domain/delivery"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DeliveryLogRepository struct {
	db *pgxpool.Pool
}

func NewDeliveryLogRepository(db *pgxpool.Pool) *DeliveryLogRepository {
	return &DeliveryLogRepository{db: db}
}

// ClaimPending atomically flips up to limit PENDING rows to CLAIMED, oldest
// first, and returns their keys. SKIP LOCKED keeps concurrent claimers from
// ever selecting the same row.
func (r *DeliveryLogRepository) ClaimPending(ctx context.Context, limit int) ([]delivery.Ref, error) {
	query := `
		UPDATE delivery_logs dl
		SET status = 'CLAIMED', updated_at = now()
		FROM (
			SELECT campaign_id, customer_id
			FROM delivery_logs
			WHERE status = 'PENDING'
			ORDER BY created_at, campaign_id, customer_id
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		) picked
		WHERE dl.campaign_id = picked.campaign_id AND dl.customer_id = picked.customer_id
		RETURNING dl.campaign_id, dl.customer_id
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to claim pending deliveries: %w", err)
	}
	defer rows.Close()

	refs := []delivery.Ref{}
	for rows.Next() {
		var ref delivery.Ref
		if err := rows.Scan(&ref.CampaignID, &ref.CustomerID); err != nil {
			return nil, fmt.Errorf("failed to scan claimed row: %w", err)
		}
		refs = append(refs, ref)
	}

	return refs, rows.Err()
}

// Release puts claimed rows back to PENDING so the next tick retries them.
func (r *DeliveryLogRepository) Release(ctx context.Context, refs []delivery.Ref) error {
	if len(refs) == 0 {
		return nil
	}

	campaignIDs := make([]int64, len(refs))
	customerIDs := make([]int64, len(refs))
	for i, ref := range refs {
		campaignIDs[i] = ref.CampaignID
		customerIDs[i] = ref.CustomerID
	}

	query := `
		UPDATE delivery_logs
		SET status = 'PENDING', updated_at = now()
		WHERE status = 'CLAIMED'
		  AND (campaign_id, customer_id) IN (
			SELECT unnest($1::bigint[]), unnest($2::bigint[])
		  )
	`

	if _, err := r.db.Exec(ctx, query, campaignIDs, customerIDs); err != nil {
		return fmt.Errorf("failed to release claimed deliveries: %w", err)
	}

	return nil
}

// ReleaseStale requeues CLAIMED rows whose claim is older than the given age.
// Covers claims orphaned by a crash between claiming and reporting.
func (r *DeliveryLogRepository) ReleaseStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := `
		UPDATE delivery_logs
		SET status = 'PENDING', updated_at = now()
		WHERE status = 'CLAIMED' AND updated_at < now() - make_interval(secs => $1)
	`

	tag, err := r.db.Exec(ctx, query, olderThan.Seconds())
	if err != nil {
		return 0, fmt.Errorf("failed to release stale claims: %w", err)
	}

	return tag.RowsAffected(), nil
}

// UpdateStatus transitions one row to a terminal status. Rows already SENT or
// FAILED are never overwritten; attempting to do so returns ErrConflict.
func (r *DeliveryLogRepository) UpdateStatus(ctx context.Context, campaignID, customerID int64, status delivery.Status) error {
	return r.updateStatus(ctx, r.db, campaignID, customerID, status)
}

// UpdateStatusBatch applies every receipt inside one transaction. If any
// single update fails the whole batch rolls back and no row changes.
func (r *DeliveryLogRepository) UpdateStatusBatch(ctx context.Context, receipts []delivery.Receipt) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, receipt := range receipts {
		if err := r.updateStatus(ctx, tx, receipt.CampaignID, receipt.CustomerID, receipt.Status); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// rowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *DeliveryLogRepository) updateStatus(ctx context.Context, q rowQuerier, campaignID, customerID int64, status delivery.Status) error {
	query := `
		UPDATE delivery_logs
		SET status = $1, updated_at = now()
		WHERE campaign_id = $2 AND customer_id = $3
		  AND status IN ('PENDING', 'CLAIMED')
		RETURNING campaign_id
	`

	var id int64
	err := q.QueryRow(ctx, query, string(status), campaignID, customerID).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to update delivery status: %w", err)
	}

	// No transitionable row: distinguish a missing row from a terminal one.
	var current string
	err = q.QueryRow(
		ctx,
		`SELECT status FROM delivery_logs WHERE campaign_id = $1 AND customer_id = $2`,
		campaignID, customerID,
	).Scan(&current)

	if errors.Is(err, pgx.ErrNoRows) {
		return xerrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check delivery status: %w", err)
	}

	return xerrors.Wrap(xerrors.ErrConflict, fmt.Sprintf("delivery already %s", current))
}
