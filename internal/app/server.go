// internal/app/server.go
package app

import (
	"context"
	"fmt"

	"crm-service/internal/config"
	"crm-service/internal/db"
	campaignHandler "crm-service/internal/handlers/campaign"
	customerHandler "crm-service/internal/handlers/customer"
	orderHandler "crm-service/internal/handlers/order"
	receiptHandler "crm-service/internal/handlers/receipt"
	segmentHandler "crm-service/internal/handlers/segment"
	statsHandler "crm-service/internal/handlers/stats"
	"crm-service/internal/middleware"
	"crm-service/internal/repository/postgres"
	campaignUsecase "crm-service/internal/service/campaign"
	customerUsecase "crm-service/internal/service/customer"
	orderUsecase "crm-service/internal/service/order"
	receiptUsecase "crm-service/internal/service/receipt"
	segmentUsecase "crm-service/internal/service/segment"
	statsUsecase "crm-service/internal/service/stats"
	"crm-service/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server owns the HTTP engine, the storage pools, and the delivery worker.
// Everything is constructed here once and passed down explicitly; nothing in
// the tree reaches for process-global state.
type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

// Start wires the application and runs the HTTP server. The delivery worker
// runs on its own goroutine and stops when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.Connect(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pool.Close()

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redisClient.Close()

	// ----- Repositories -----
	customerRepo := postgres.NewCustomerRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	segmentRepo := postgres.NewSegmentRepository(pool)
	campaignRepo := postgres.NewCampaignRepository(pool)
	deliveryRepo := postgres.NewDeliveryLogRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool)

	// ----- Services -----
	customerService := customerUsecase.NewCustomerService(customerRepo, logger)
	orderService := orderUsecase.NewOrderService(orderRepo, logger)
	segmentService := segmentUsecase.NewSegmentService(segmentRepo, customerRepo, logger)
	campaignService := campaignUsecase.NewCampaignService(campaignRepo, segmentService, logger)
	receiptService := receiptUsecase.NewReceiptService(deliveryRepo, logger)
	statsCache := statsUsecase.NewRedisCache(redisClient, logger)
	statsService := statsUsecase.NewStatsService(statsRepo, statsCache, s.cfg.StatsCacheTTL, logger)

	// ----- Delivery worker -----
	receiptClient := worker.NewReceiptClient(s.cfg.Worker.ReceiptURL, s.cfg.Worker.ReceiptTimeout)
	deliveryWorker := worker.New(deliveryRepo, receiptClient, s.cfg.Worker, logger)
	go func() {
		if err := deliveryWorker.Run(ctx); err != nil {
			logger.Error("delivery worker exited", zap.Error(err))
		}
	}()

	// ----- Handlers -----
	handlers := &Handlers{
		CustomerHandler: customerHandler.NewCustomerHandler(customerService),
		OrderHandler:    orderHandler.NewOrderHandler(orderService),
		SegmentHandler:  segmentHandler.NewSegmentHandler(segmentService),
		CampaignHandler: campaignHandler.NewCampaignHandler(campaignService),
		ReceiptHandler:  receiptHandler.NewReceiptHandler(receiptService),
		StatsHandler:    statsHandler.NewStatsHandler(statsService),
	}

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	SetupRouter(s.engine, handlers)

	logger.Info("server running", zap.String("addr", s.cfg.HTTPAddr))
	return s.engine.Run(s.cfg.HTTPAddr)
}
