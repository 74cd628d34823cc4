package receipt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crm-service/internal/domain/delivery"
	xerrors "crm-service/internal/pkg/errors"
	service "crm-service/internal/service/receipt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDeliveryRepo struct {
	statuses map[delivery.Ref]delivery.Status
}

func newFakeDeliveryRepo() *fakeDeliveryRepo {
	return &fakeDeliveryRepo{statuses: make(map[delivery.Ref]delivery.Status)}
}

func (f *fakeDeliveryRepo) UpdateStatus(ctx context.Context, campaignID, customerID int64, status delivery.Status) error {
	ref := delivery.Ref{CampaignID: campaignID, CustomerID: customerID}
	current, ok := f.statuses[ref]
	if !ok {
		return xerrors.ErrNotFound
	}
	if current.Terminal() {
		return xerrors.ErrConflict
	}
	f.statuses[ref] = status
	return nil
}

func (f *fakeDeliveryRepo) UpdateStatusBatch(ctx context.Context, receipts []delivery.Receipt) error {
	for _, r := range receipts {
		if err := f.UpdateStatus(ctx, r.CampaignID, r.CustomerID, r.Status); err != nil {
			return err
		}
	}
	return nil
}

func setupRouter(repo *fakeDeliveryRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewReceiptHandler(service.NewReceiptService(repo, zap.NewNop()))

	r := gin.New()
	r.POST("/api/receipt", h.UpdateOne)
	r.POST("/api/receipt/batch", h.UpdateBatch)
	return r
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateOneEndpoint(t *testing.T) {
	repo := newFakeDeliveryRepo()
	repo.statuses[delivery.Ref{CampaignID: 1, CustomerID: 10}] = delivery.StatusClaimed
	r := setupRouter(repo)

	w := post(r, "/api/receipt", `{"campaign_id": 1, "customer_id": 10, "status": "SENT"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, delivery.StatusSent, repo.statuses[delivery.Ref{CampaignID: 1, CustomerID: 10}])
}

func TestUpdateOneEndpointValidation(t *testing.T) {
	r := setupRouter(newFakeDeliveryRepo())

	for name, body := range map[string]string{
		"empty object":   `{}`,
		"missing status": `{"campaign_id": 1, "customer_id": 10}`,
		"bad status":     `{"campaign_id": 1, "customer_id": 10, "status": "DELIVERED"}`,
		"not json":       `campaign_id=1`,
	} {
		t.Run(name, func(t *testing.T) {
			w := post(r, "/api/receipt", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUpdateOneEndpointUnknownRow(t *testing.T) {
	r := setupRouter(newFakeDeliveryRepo())

	w := post(r, "/api/receipt", `{"campaign_id": 9, "customer_id": 9, "status": "SENT"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateOneEndpointTerminalConflict(t *testing.T) {
	repo := newFakeDeliveryRepo()
	repo.statuses[delivery.Ref{CampaignID: 1, CustomerID: 10}] = delivery.StatusFailed
	r := setupRouter(repo)

	w := post(r, "/api/receipt", `{"campaign_id": 1, "customer_id": 10, "status": "SENT"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, delivery.StatusFailed, repo.statuses[delivery.Ref{CampaignID: 1, CustomerID: 10}])
}

func TestUpdateBatchEndpoint(t *testing.T) {
	repo := newFakeDeliveryRepo()
	repo.statuses[delivery.Ref{CampaignID: 1, CustomerID: 10}] = delivery.StatusClaimed
	repo.statuses[delivery.Ref{CampaignID: 1, CustomerID: 11}] = delivery.StatusClaimed
	r := setupRouter(repo)

	w := post(r, "/api/receipt/batch", `{"receipts": [
		{"campaign_id": 1, "customer_id": 10, "status": "SENT"},
		{"campaign_id": 1, "customer_id": 11, "status": "FAILED"}
	]}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, delivery.StatusSent, repo.statuses[delivery.Ref{CampaignID: 1, CustomerID: 10}])
	assert.Equal(t, delivery.StatusFailed, repo.statuses[delivery.Ref{CampaignID: 1, CustomerID: 11}])
}

func TestUpdateBatchEndpointRejectsEmptyList(t *testing.T) {
	r := setupRouter(newFakeDeliveryRepo())

	for name, body := range map[string]string{
		"empty list":     `{"receipts": []}`,
		"missing field":  `{}`,
		"invalid status": `{"receipts": [{"campaign_id": 1, "customer_id": 10, "status": "PENDING"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			w := post(r, "/api/receipt/batch", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
