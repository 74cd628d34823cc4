package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crm-service/internal/domain/delivery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptClientSubmit(t *testing.T) {
	var got batchPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewReceiptClient(srv.URL, time.Second)
	err := client.Submit(context.Background(), []delivery.Receipt{
		{CampaignID: 1, CustomerID: 10, Status: delivery.StatusSent},
		{CampaignID: 1, CustomerID: 11, Status: delivery.StatusFailed},
	})
	require.NoError(t, err)

	require.Len(t, got.Receipts, 2)
	assert.Equal(t, int64(10), got.Receipts[0].CustomerID)
	assert.Equal(t, delivery.StatusFailed, got.Receipts[1].Status)
}

func TestReceiptClientNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "conflict", http.StatusConflict)
	}))
	defer srv.Close()

	client := NewReceiptClient(srv.URL, time.Second)
	err := client.Submit(context.Background(), []delivery.Receipt{
		{CampaignID: 1, CustomerID: 10, Status: delivery.StatusSent},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
}

func TestReceiptClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewReceiptClient(srv.URL, 20*time.Millisecond)
	err := client.Submit(context.Background(), []delivery.Receipt{
		{CampaignID: 1, CustomerID: 10, Status: delivery.StatusSent},
	})
	require.Error(t, err)
}
