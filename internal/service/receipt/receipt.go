// internal/service/receipt/receipt.go
package receipt

import (
	"context"
	"fmt"

	"crm-service/internal/domain/delivery"
	xerrors "crm-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// DeliveryLogRepository mutates delivery-log rows. The receipt service is the
// only component that moves rows into a terminal status.
type DeliveryLogRepository interface {
	UpdateStatus(ctx context.Context, campaignID, customerID int64, status delivery.Status) error
	UpdateStatusBatch(ctx context.Context, receipts []delivery.Receipt) error
}

type ReceiptService struct {
	deliveryRepo DeliveryLogRepository
	logger       *zap.Logger
}

func NewReceiptService(deliveryRepo DeliveryLogRepository, logger *zap.Logger) *ReceiptService {
	return &ReceiptService{
		deliveryRepo: deliveryRepo,
		logger:       logger,
	}
}

// UpdateOne applies a single delivery outcome. Transitions out of SENT or
// FAILED are rejected with a conflict error.
func (s *ReceiptService) UpdateOne(ctx context.Context, campaignID, customerID int64, rawStatus string) error {
	if campaignID == 0 || customerID == 0 || rawStatus == "" {
		return xerrors.Wrap(xerrors.ErrInvalidInput, "campaign_id, customer_id and status are required")
	}

	status, err := delivery.ParseOutcome(rawStatus)
	if err != nil {
		return xerrors.Wrap(xerrors.ErrInvalidInput, err.Error())
	}

	if err := s.deliveryRepo.UpdateStatus(ctx, campaignID, customerID, status); err != nil {
		return err
	}

	s.logger.Info("delivery status updated",
		zap.Int64("campaign_id", campaignID),
		zap.Int64("customer_id", customerID),
		zap.String("status", string(status)),
	)

	return nil
}

// UpdateBatch applies a batch of outcomes as a single unit of work: either
// every receipt commits or none does. Partial progress would leave the log in
// a state that cannot be reconciled.
func (s *ReceiptService) UpdateBatch(ctx context.Context, receipts []delivery.Receipt) error {
	if len(receipts) == 0 {
		return xerrors.Wrap(xerrors.ErrInvalidInput, "receipts must be a non-empty list")
	}

	for i, r := range receipts {
		if r.CampaignID == 0 || r.CustomerID == 0 {
			return xerrors.Wrap(xerrors.ErrInvalidInput, fmt.Sprintf("receipt %d is missing campaign_id or customer_id", i))
		}
		if _, err := delivery.ParseOutcome(string(r.Status)); err != nil {
			return xerrors.Wrap(xerrors.ErrInvalidInput, err.Error())
		}
	}

	if err := s.deliveryRepo.UpdateStatusBatch(ctx, receipts); err != nil {
		s.logger.Error("batch receipt update failed", zap.Int("size", len(receipts)), zap.Error(err))
		return err
	}

	s.logger.Info("batch receipt update committed", zap.Int("size", len(receipts)))
	return nil
}
