// internal/app/router.go
package app

import (
	campaignHandler "crm-service/internal/handlers/campaign"
	customerHandler "crm-service/internal/handlers/customer"
	orderHandler "crm-service/internal/handlers/order"
	receiptHandler "crm-service/internal/handlers/receipt"
	segmentHandler "crm-service/internal/handlers/segment"
	statsHandler "crm-service/internal/handlers/stats"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	CustomerHandler *customerHandler.CustomerHandler
	OrderHandler    *orderHandler.OrderHandler
	SegmentHandler  *segmentHandler.SegmentHandler
	CampaignHandler *campaignHandler.CampaignHandler
	ReceiptHandler  *receiptHandler.ReceiptHandler
	StatsHandler    *statsHandler.StatsHandler
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	customers := api.Group("/customers")
	{
		customers.POST("", h.CustomerHandler.CreateCustomer)
		customers.GET("/details", h.CustomerHandler.ListDetails)
	}

	orders := api.Group("/orders")
	{
		orders.POST("", h.OrderHandler.CreateOrder)
	}

	segments := api.Group("/segments")
	{
		segments.POST("", h.SegmentHandler.CreateSegment)
		segments.GET("", h.SegmentHandler.List)
	}

	campaigns := api.Group("/campaigns")
	{
		campaigns.POST("", h.CampaignHandler.CreateCampaign)
		campaigns.GET("/history", h.CampaignHandler.History)
	}

	receipts := api.Group("/receipt")
	{
		receipts.POST("", h.ReceiptHandler.UpdateOne)
		receipts.POST("/batch", h.ReceiptHandler.UpdateBatch)
	}

	stats := api.Group("/stats")
	{
		stats.POST("/dashboard", h.StatsHandler.Dashboard)
	}
}
