// internal/handlers/campaign/campaign.go
package campaign

import (
	"net/http"

	"crm-service/internal/domain/campaign"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/pkg/response"
	service "crm-service/internal/service/campaign"

	"github.com/gin-gonic/gin"
)

type CampaignHandler struct {
	campaignService *service.CampaignService
}

func NewCampaignHandler(campaignService *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
	}
}

// CreateCampaign handles POST /api/campaigns.
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var req campaign.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "segment_id and message are required", err)
		return
	}

	result, err := h.campaignService.CreateCampaign(c.Request.Context(), &req)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "segment not found")
			return
		}
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusCreated, "campaign created successfully", result)
}

// History handles GET /api/campaigns/history.
func (h *CampaignHandler) History(c *gin.Context) {
	entries, err := h.campaignService.History(c.Request.Context())
	if err != nil {
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, "campaign history retrieved", gin.H{
		"campaigns": entries,
	})
}
