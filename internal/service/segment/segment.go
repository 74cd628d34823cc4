// internal/service/segment/segment.go
package segment

import (
	"context"
	"fmt"

	"crm-service/internal/domain/customer"
	"crm-service/internal/domain/segment"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/rules"

	"go.uber.org/zap"
)

// SegmentRepository persists audience definitions.
type SegmentRepository interface {
	Create(ctx context.Context, s *segment.Segment) error
	FindByID(ctx context.Context, id int64) (*segment.Segment, error)
	ListByUser(ctx context.Context, userID int64) ([]segment.Segment, error)
}

// CustomerMatcher resolves which customers satisfy a compiled predicate.
type CustomerMatcher interface {
	FindMatching(ctx context.Context, pred *rules.Predicate) ([]customer.Customer, error)
}

type SegmentService struct {
	segmentRepo  SegmentRepository
	customerRepo CustomerMatcher
	logger       *zap.Logger
}

func NewSegmentService(segmentRepo SegmentRepository, customerRepo CustomerMatcher, logger *zap.Logger) *SegmentService {
	return &SegmentService{
		segmentRepo:  segmentRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// CreateSegment compiles the rule tree, resolves the current audience, and
// persists the segment with a snapshot of the audience size.
func (s *SegmentService) CreateSegment(ctx context.Context, req *segment.CreateSegmentRequest) (*segment.CreateSegmentResponse, error) {
	node, err := rules.Parse(req.Rules)
	if err != nil {
		return nil, err
	}

	pred, err := rules.Compile(node)
	if err != nil {
		return nil, err
	}

	matched, err := s.customerRepo.FindMatching(ctx, pred)
	if err != nil {
		s.logger.Error("failed to resolve segment audience", zap.Error(err))
		return nil, fmt.Errorf("failed to resolve audience: %w", err)
	}

	seg := &segment.Segment{
		UserID:       req.UserID,
		Name:         req.Name,
		Rules:        req.Rules,
		AudienceSize: len(matched),
	}

	if err := s.segmentRepo.Create(ctx, seg); err != nil {
		s.logger.Error("failed to create segment", zap.Error(err))
		return nil, fmt.Errorf("failed to create segment: %w", err)
	}

	s.logger.Info("segment created",
		zap.Int64("segment_id", seg.ID),
		zap.Int64("user_id", seg.UserID),
		zap.Int("audience_size", seg.AudienceSize),
	)

	return &segment.CreateSegmentResponse{
		Segment:      seg,
		Customers:    matched,
		AudienceSize: len(matched),
	}, nil
}

// ListSegments returns a user's saved segments.
func (s *SegmentService) ListSegments(ctx context.Context, userID int64) ([]segment.Segment, error) {
	segments, err := s.segmentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}
	return segments, nil
}

// ResolveAudience re-derives a segment's current membership from its stored
// rule tree. Campaign creation always targets current membership, never the
// cached size.
func (s *SegmentService) ResolveAudience(ctx context.Context, segmentID int64) (*segment.Segment, []customer.Customer, error) {
	seg, err := s.segmentRepo.FindByID(ctx, segmentID)
	if err != nil {
		return nil, nil, err
	}

	node, err := rules.Parse(seg.Rules)
	if err != nil {
		// A stored segment with unreadable rules is corrupt state, not bad input.
		return nil, nil, xerrors.Wrap(xerrors.ErrInternal, fmt.Sprintf("segment %d has malformed rules", segmentID))
	}

	pred, err := rules.Compile(node)
	if err != nil {
		return nil, nil, xerrors.Wrap(xerrors.ErrInternal, fmt.Sprintf("segment %d has uncompilable rules", segmentID))
	}

	matched, err := s.customerRepo.FindMatching(ctx, pred)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve audience: %w", err)
	}

	return seg, matched, nil
}
