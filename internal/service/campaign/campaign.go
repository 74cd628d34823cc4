// internal/service/campaign/campaign.go
package campaign

import (
	"context"
	"fmt"

	"crm-service/internal/domain/campaign"
	"crm-service/internal/domain/customer"
	"crm-service/internal/domain/segment"

	"go.uber.org/zap"
)

// CampaignRepository persists campaigns and fans out their delivery logs.
type CampaignRepository interface {
	CreateWithLogs(ctx context.Context, c *campaign.Campaign, customerIDs []int64) error
	History(ctx context.Context) ([]campaign.HistoryEntry, error)
}

// AudienceResolver re-derives a segment's current membership.
type AudienceResolver interface {
	ResolveAudience(ctx context.Context, segmentID int64) (*segment.Segment, []customer.Customer, error)
}

type CampaignService struct {
	campaignRepo CampaignRepository
	segments     AudienceResolver
	logger       *zap.Logger
}

func NewCampaignService(campaignRepo CampaignRepository, segments AudienceResolver, logger *zap.Logger) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		segments:     segments,
		logger:       logger,
	}
}

// CreateCampaign resolves the target segment's current audience and writes the
// campaign plus one PENDING delivery-log row per matched customer. The write
// is atomic: a campaign never exists without its log rows or vice versa.
func (s *CampaignService) CreateCampaign(ctx context.Context, req *campaign.CreateCampaignRequest) (*campaign.CreateCampaignResponse, error) {
	seg, matched, err := s.segments.ResolveAudience(ctx, req.SegmentID)
	if err != nil {
		return nil, err
	}

	customerIDs := make([]int64, len(matched))
	for i, c := range matched {
		customerIDs[i] = c.ID
	}

	camp := &campaign.Campaign{
		SegmentID: seg.ID,
		Message:   req.Message,
	}

	if err := s.campaignRepo.CreateWithLogs(ctx, camp, customerIDs); err != nil {
		s.logger.Error("failed to create campaign", zap.Error(err), zap.Int64("segment_id", req.SegmentID))
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	s.logger.Info("campaign created",
		zap.Int64("campaign_id", camp.ID),
		zap.Int64("segment_id", seg.ID),
		zap.Int("customers_targeted", len(customerIDs)),
	)

	return &campaign.CreateCampaignResponse{
		Campaign:          camp,
		CustomersTargeted: len(customerIDs),
	}, nil
}

// History returns past campaigns with their delivery stats, newest first.
func (s *CampaignService) History(ctx context.Context) ([]campaign.HistoryEntry, error) {
	entries, err := s.campaignRepo.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch campaign history: %w", err)
	}
	return entries, nil
}
