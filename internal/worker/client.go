// internal/worker/client.go
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"crm-service/internal/domain/delivery"
)

// ReceiptClient posts outcome batches to the receipt service over HTTP.
type ReceiptClient struct {
	endpoint string
	http     *http.Client
}

func NewReceiptClient(endpoint string, timeout time.Duration) *ReceiptClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ReceiptClient{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

type batchPayload struct {
	Receipts []delivery.Receipt `json:"receipts"`
}

// Submit posts the batch to the configured endpoint. Any non-2xx response is
// an error; the caller treats it as transient and retries next tick.
func (c *ReceiptClient) Submit(ctx context.Context, receipts []delivery.Receipt) error {
	body, err := json.Marshal(batchPayload{Receipts: receipts})
	if err != nil {
		return fmt.Errorf("failed to encode receipt batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build receipt request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("receipt request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("receipt endpoint returned %d: %s", resp.StatusCode, detail)
	}

	return nil
}
