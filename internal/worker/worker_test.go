package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"crm-service/internal/config"
	"crm-service/internal/domain/delivery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeQueue holds rows in memory with the same claim semantics as the real
// repository: a row is claimable once until released.
type fakeQueue struct {
	mu       sync.Mutex
	pending  []delivery.Ref
	claimed  map[delivery.Ref]bool
	claimErr error
	released []delivery.Ref
}

func newFakeQueue(refs ...delivery.Ref) *fakeQueue {
	return &fakeQueue{pending: refs, claimed: make(map[delivery.Ref]bool)}
}

func (q *fakeQueue) ClaimPending(ctx context.Context, limit int) ([]delivery.Ref, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.claimErr != nil {
		return nil, q.claimErr
	}

	n := limit
	if n > len(q.pending) {
		n = len(q.pending)
	}
	batch := q.pending[:n]
	q.pending = q.pending[n:]
	for _, ref := range batch {
		q.claimed[ref] = true
	}
	return batch, nil
}

func (q *fakeQueue) Release(ctx context.Context, refs []delivery.Ref) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, ref := range refs {
		delete(q.claimed, ref)
		q.pending = append(q.pending, ref)
		q.released = append(q.released, ref)
	}
	return nil
}

func (q *fakeQueue) ReleaseStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	return 0, nil
}

type fakeSubmitter struct {
	mu      sync.Mutex
	batches [][]delivery.Receipt
	err     error
}

func (s *fakeSubmitter) Submit(ctx context.Context, receipts []delivery.Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, receipts)
	return nil
}

func testConfig() config.WorkerConfig {
	return config.WorkerConfig{
		Interval:    time.Second,
		BatchSize:   50,
		SuccessRate: 0.9,
	}
}

func refs(campaignID int64, customerIDs ...int64) []delivery.Ref {
	out := make([]delivery.Ref, len(customerIDs))
	for i, id := range customerIDs {
		out[i] = delivery.Ref{CampaignID: campaignID, CustomerID: id}
	}
	return out
}

func TestProcessBatchDeliversClaimedRows(t *testing.T) {
	queue := newFakeQueue(refs(1, 10, 11, 12)...)
	submitter := &fakeSubmitter{}
	w := New(queue, submitter, testConfig(), zap.NewNop())
	w.outcome = func() delivery.Status { return delivery.StatusSent }

	require.NoError(t, w.processBatch(context.Background()))

	require.Len(t, submitter.batches, 1)
	batch := submitter.batches[0]
	require.Len(t, batch, 3)
	for _, r := range batch {
		assert.Equal(t, delivery.StatusSent, r.Status)
	}

	// A second round finds nothing left to claim.
	require.NoError(t, w.processBatch(context.Background()))
	assert.Len(t, submitter.batches, 1)
}

func TestProcessBatchHonorsBatchSize(t *testing.T) {
	queue := newFakeQueue(refs(1, 10, 11, 12, 13, 14)...)
	submitter := &fakeSubmitter{}
	cfg := testConfig()
	cfg.BatchSize = 2
	w := New(queue, submitter, cfg, zap.NewNop())
	w.outcome = func() delivery.Status { return delivery.StatusSent }

	require.NoError(t, w.processBatch(context.Background()))
	require.Len(t, submitter.batches, 1)
	assert.Len(t, submitter.batches[0], 2)
	assert.Len(t, queue.pending, 3)
}

func TestProcessBatchMixedOutcomes(t *testing.T) {
	queue := newFakeQueue(refs(1, 10, 11, 12, 13)...)
	submitter := &fakeSubmitter{}
	w := New(queue, submitter, testConfig(), zap.NewNop())

	var calls int
	w.outcome = func() delivery.Status {
		calls++
		if calls%2 == 0 {
			return delivery.StatusFailed
		}
		return delivery.StatusSent
	}

	require.NoError(t, w.processBatch(context.Background()))

	require.Len(t, submitter.batches, 1)
	var sent, failed int
	for _, r := range submitter.batches[0] {
		switch r.Status {
		case delivery.StatusSent:
			sent++
		case delivery.StatusFailed:
			failed++
		default:
			t.Fatalf("unexpected outcome %q", r.Status)
		}
	}
	assert.Equal(t, 2, sent)
	assert.Equal(t, 2, failed)
}

func TestProcessBatchReleasesClaimsOnSubmitFailure(t *testing.T) {
	queue := newFakeQueue(refs(1, 10, 11)...)
	submitter := &fakeSubmitter{err: errors.New("receipt endpoint down")}
	w := New(queue, submitter, testConfig(), zap.NewNop())
	w.outcome = func() delivery.Status { return delivery.StatusSent }

	err := w.processBatch(context.Background())
	require.Error(t, err)

	// Claimed rows must be handed back for the next round.
	assert.Len(t, queue.released, 2)
	assert.Len(t, queue.pending, 2)
	assert.Empty(t, queue.claimed)
}

func TestProcessBatchClaimError(t *testing.T) {
	queue := newFakeQueue()
	queue.claimErr = errors.New("db unavailable")
	submitter := &fakeSubmitter{}
	w := New(queue, submitter, testConfig(), zap.NewNop())

	err := w.processBatch(context.Background())
	require.Error(t, err)
	assert.Empty(t, submitter.batches)
}

func TestNewAppliesDefaults(t *testing.T) {
	w := New(newFakeQueue(), &fakeSubmitter{}, config.WorkerConfig{}, zap.NewNop())

	assert.Equal(t, 5*time.Second, w.cfg.Interval)
	assert.Equal(t, 50, w.cfg.BatchSize)
	assert.InDelta(t, 0.9, w.cfg.SuccessRate, 1e-9)

	w = New(newFakeQueue(), &fakeSubmitter{}, config.WorkerConfig{SuccessRate: 1.5}, zap.NewNop())
	assert.InDelta(t, 0.9, w.cfg.SuccessRate, 1e-9)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	queue := newFakeQueue(refs(1, 10)...)
	submitter := &fakeSubmitter{}
	w := New(queue, submitter, testConfig(), zap.NewNop())
	w.outcome = func() delivery.Status { return delivery.StatusSent }

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// The first round runs immediately, before the first tick.
	require.Eventually(t, func() bool {
		submitter.mu.Lock()
		defer submitter.mu.Unlock()
		return len(submitter.batches) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
}

func TestStaleAge(t *testing.T) {
	cfg := testConfig()
	cfg.Interval = 5 * time.Second
	cfg.ReceiptTimeout = 10 * time.Second
	w := New(newFakeQueue(), &fakeSubmitter{}, cfg, zap.NewNop())

	// Five intervals dominate twice the receipt timeout here.
	assert.Equal(t, 25*time.Second, w.staleAge())

	cfg.ReceiptTimeout = 30 * time.Second
	w = New(newFakeQueue(), &fakeSubmitter{}, cfg, zap.NewNop())
	assert.Equal(t, time.Minute, w.staleAge())
}
