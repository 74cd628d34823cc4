// Package worker implements the background delivery worker: a timer-driven
// loop that claims pending delivery-log rows, simulates a delivery outcome for
// each, and reports the batch to the receipt endpoint.
package worker

import (
	"context"
	"math/rand"
	"time"

	"crm-service/internal/config"
	"crm-service/internal/domain/delivery"

	"go.uber.org/zap"
)

// DeliveryQueue is the worker's view of the delivery log. Claiming flips rows
// PENDING -> CLAIMED atomically, so two overlapping rounds can never pick up
// the same row.
type DeliveryQueue interface {
	ClaimPending(ctx context.Context, limit int) ([]delivery.Ref, error)
	Release(ctx context.Context, refs []delivery.Ref) error
	ReleaseStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// ReceiptSubmitter reports a batch of delivery outcomes.
type ReceiptSubmitter interface {
	Submit(ctx context.Context, receipts []delivery.Receipt) error
}

type Worker struct {
	logger    *zap.Logger
	queue     DeliveryQueue
	submitter ReceiptSubmitter
	cfg       config.WorkerConfig

	// outcome simulates a single delivery. Injectable for tests.
	outcome func() delivery.Status
}

func New(queue DeliveryQueue, submitter ReceiptSubmitter, cfg config.WorkerConfig, logger *zap.Logger) *Worker {
	if cfg.Interval < time.Second {
		cfg.Interval = 5 * time.Second
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 50
	}
	if cfg.SuccessRate <= 0 || cfg.SuccessRate > 1 {
		cfg.SuccessRate = 0.9
	}

	w := &Worker{
		logger:    logger,
		queue:     queue,
		submitter: submitter,
		cfg:       cfg,
	}
	w.outcome = func() delivery.Status {
		if rand.Float64() < w.cfg.SuccessRate {
			return delivery.StatusSent
		}
		return delivery.StatusFailed
	}

	return w
}

// Run drives the polling loop. It blocks until the context is cancelled. Each
// round is fully sequential: the next tick only fires after the previous one
// finished, and errors are logged and retried implicitly on the next tick.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("starting delivery worker",
		zap.Duration("interval", w.cfg.Interval),
		zap.Int("batch_size", w.cfg.BatchSize),
	)

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	// Run once immediately on startup.
	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("delivery worker stopping...")
			return nil
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	if err := w.processBatch(ctx); err != nil {
		// Rows stay PENDING and are picked up again next tick.
		w.logger.Error("delivery round failed", zap.Error(err))
	}
}

// processBatch executes one delivery round: requeue stale claims, claim a
// batch, simulate outcomes, report them. An empty claim is a no-op round.
func (w *Worker) processBatch(ctx context.Context) error {
	if requeued, err := w.queue.ReleaseStale(ctx, w.staleAge()); err != nil {
		w.logger.Warn("failed to requeue stale claims", zap.Error(err))
	} else if requeued > 0 {
		w.logger.Warn("requeued stale claims", zap.Int64("count", requeued))
	}

	refs, err := w.queue.ClaimPending(ctx, w.cfg.BatchSize)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return nil
	}

	receipts := make([]delivery.Receipt, len(refs))
	for i, ref := range refs {
		receipts[i] = delivery.Receipt{
			CampaignID: ref.CampaignID,
			CustomerID: ref.CustomerID,
			Status:     w.outcome(),
		}
	}

	if err := w.submitter.Submit(ctx, receipts); err != nil {
		// Hand the claimed rows back so the next tick retries them.
		if relErr := w.queue.Release(ctx, refs); relErr != nil {
			w.logger.Error("failed to release claimed rows after submit failure",
				zap.Error(relErr), zap.Int("count", len(refs)))
		}
		return err
	}

	w.logger.Info("delivery round complete", zap.Int("processed", len(receipts)))
	return nil
}

// staleAge is how old a claim must be before it is considered orphaned.
func (w *Worker) staleAge() time.Duration {
	age := 5 * w.cfg.Interval
	if age < w.cfg.ReceiptTimeout*2 {
		age = w.cfg.ReceiptTimeout * 2
	}
	return age
}
