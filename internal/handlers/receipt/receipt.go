// internal/handlers/receipt/receipt.go
package receipt

import (
	"net/http"

	"crm-service/internal/domain/delivery"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/pkg/response"
	service "crm-service/internal/service/receipt"

	"github.com/gin-gonic/gin"
)

type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
	}
}

type updateOneRequest struct {
	CampaignID int64  `json:"campaign_id" binding:"required"`
	CustomerID int64  `json:"customer_id" binding:"required"`
	Status     string `json:"status" binding:"required"`
}

type updateBatchRequest struct {
	Receipts []delivery.Receipt `json:"receipts" binding:"required"`
}

// UpdateOne handles POST /api/receipt.
func (h *ReceiptHandler) UpdateOne(c *gin.Context) {
	var req updateOneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "campaign_id, customer_id and status are required", err)
		return
	}

	err := h.receiptService.UpdateOne(c.Request.Context(), req.CampaignID, req.CustomerID, req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "status updated", nil)
}

// UpdateBatch handles POST /api/receipt/batch. The batch commits as one
// transaction; on any failure nothing changes.
func (h *ReceiptHandler) UpdateBatch(c *gin.Context) {
	var req updateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "receipts must be a list", err)
		return
	}

	if err := h.receiptService.UpdateBatch(c.Request.Context(), req.Receipts); err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "batch update successful", gin.H{
		"updated": len(req.Receipts),
	})
}

func (h *ReceiptHandler) respondError(c *gin.Context, err error) {
	switch {
	case xerrors.Is(err, xerrors.ErrInvalidInput):
		response.ValidationError(c, "invalid receipt", err)
	case xerrors.Is(err, xerrors.ErrNotFound):
		response.NotFound(c, "delivery log entry not found")
	case xerrors.Is(err, xerrors.ErrConflict):
		response.Conflict(c, "delivery already in a terminal status")
	default:
		response.Internal(c)
	}
}
