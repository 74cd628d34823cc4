// internal/handlers/stats/stats.go
package stats

import (
	"net/http"

	"crm-service/internal/domain/stats"
	"crm-service/internal/pkg/response"
	service "crm-service/internal/service/stats"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// Dashboard handles POST /api/stats/dashboard.
func (h *StatsHandler) Dashboard(c *gin.Context) {
	var req stats.DashboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "user_id is required", err)
		return
	}

	result, err := h.statsService.Dashboard(c.Request.Context(), req.UserID)
	if err != nil {
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, "dashboard retrieved", result)
}
