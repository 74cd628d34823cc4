// internal/repository/postgres/segment_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"crm-service/internal/domain/segment"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SegmentRepository struct {
	db *pgxpool.Pool
}

func NewSegmentRepository(db *pgxpool.Pool) *SegmentRepository {
	return &SegmentRepository{db: db}
}

// Create persists a new segment with its rule tree and snapshot audience size.
func (r *SegmentRepository) Create(ctx context.Context, s *segment.Segment) error {
	query := `
		INSERT INTO segments (user_id, name, rules, audience_size)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		s.UserID, s.Name, s.Rules, s.AudienceSize,
	).Scan(&s.ID, &s.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create segment: %w", err)
	}

	return nil
}

// ListByUser returns a user's segments, newest first.
func (r *SegmentRepository) ListByUser(ctx context.Context, userID int64) ([]segment.Segment, error) {
	query := `
		SELECT id, user_id, name, rules, audience_size, created_at
		FROM segments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}
	defer rows.Close()

	segments := []segment.Segment{}
	for rows.Next() {
		var s segment.Segment
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Rules, &s.AudienceSize, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}
		segments = append(segments, s)
	}

	return segments, rows.Err()
}

// FindByID retrieves a segment by ID.
func (r *SegmentRepository) FindByID(ctx context.Context, id int64) (*segment.Segment, error) {
	query := `
		SELECT id, user_id, name, rules, audience_size, created_at
		FROM segments
		WHERE id = $1
	`

	var s segment.Segment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.Name, &s.Rules, &s.AudienceSize, &s.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find segment: %w", err)
	}

	return &s, nil
}
