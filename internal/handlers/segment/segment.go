// internal/handlers/segment/segment.go
package segment

import (
	"net/http"
	"strconv"

	"crm-service/internal/domain/segment"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/pkg/response"
	service "crm-service/internal/service/segment"

	"github.com/gin-gonic/gin"
)

type SegmentHandler struct {
	segmentService *service.SegmentService
}

func NewSegmentHandler(segmentService *service.SegmentService) *SegmentHandler {
	return &SegmentHandler{
		segmentService: segmentService,
	}
}

// CreateSegment handles POST /api/segments.
func (h *SegmentHandler) CreateSegment(c *gin.Context) {
	var req segment.CreateSegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "user_id, name, and rules are required", err)
		return
	}

	result, err := h.segmentService.CreateSegment(c.Request.Context(), &req)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrInvalidInput) {
			response.ValidationError(c, "invalid segment rules", err)
			return
		}
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusCreated, "segment created successfully", result)
}

// List handles GET /api/segments?user_id=N.
func (h *SegmentHandler) List(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		response.ValidationError(c, "user_id query parameter is required", err)
		return
	}

	segments, err := h.segmentService.ListSegments(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c)
		return
	}

	response.Success(c, http.StatusOK, "segments retrieved", gin.H{
		"segments": segments,
	})
}
