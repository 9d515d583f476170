package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sendfleet/campaigner/internal/config"
	"github.com/sendfleet/campaigner/internal/gateway"
	"github.com/sendfleet/campaigner/internal/handler"
	"github.com/sendfleet/campaigner/internal/infra/postgresql"
	"github.com/sendfleet/campaigner/internal/infra/postgresql/migrations"
	infraredis "github.com/sendfleet/campaigner/internal/infra/redis"
	"github.com/sendfleet/campaigner/internal/media"
	"github.com/sendfleet/campaigner/internal/observability"
	"github.com/sendfleet/campaigner/internal/repository"
	"github.com/sendfleet/campaigner/internal/service"
	"github.com/sendfleet/campaigner/internal/transport"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("failed to initialize logger", zap.Error(err))
	}
	defer logger.Sync() //nolint:errcheck

	db, err := postgresql.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres initialization failed", zap.Error(err))
	}

	if err := migrations.Migrate(db); err != nil {
		logger.Fatal("database migrations failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("postgres underlying db init failed", zap.Error(err))
	}
	defer sqlDB.Close()

	rdb, err := infraredis.NewRedis(cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis initialization failed", zap.Error(err))
	}
	defer rdb.Close()

	rateLimiter, err := infraredis.NewRedisRateLimiter(rdb, cfg.SendRatePerSec)
	if err != nil {
		logger.Fatal("rate limiter initialization failed", zap.Error(err))
	}

	mediaStore, err := media.NewStore(cfg.MediaDir)
	if err != nil {
		logger.Fatal("media store initialization failed", zap.Error(err))
	}

	gatewayClient, err := gateway.NewHTTPGateway(cfg.GatewayURL)
	if err != nil {
		logger.Fatal("gateway client initialization failed", zap.Error(err))
	}

	sessionManager, err := gateway.NewSessionManager(cfg.GatewayURL, logger)
	if err != nil {
		logger.Fatal("session manager initialization failed", zap.Error(err))
	}

	campaignRepo := repository.NewGormCampaignRepo(db)
	messageRepo := repository.NewGormMessageRepo(db)
	contactRepo := repository.NewGormContactRepo(db)
	templateRepo := repository.NewGormTemplateRepo(db)
	settingRepo := repository.NewGormSettingRepo(db)

	metrics := observability.NewMetrics()

	campaignService, err := service.NewCampaignService(campaignRepo, messageRepo, contactRepo, mediaStore, logger)
	if err != nil {
		logger.Fatal("campaign service initialization failed", zap.Error(err))
	}

	dispatcher, err := service.NewDispatcher(
		campaignRepo, messageRepo, contactRepo,
		gatewayClient, mediaStore, rateLimiter,
		cfg.DefaultBatchSize, logger,
	)
	if err != nil {
		logger.Fatal("dispatcher initialization failed", zap.Error(err))
	}
	dispatcher.SetMetrics(metrics)

	contactService, err := service.NewContactService(contactRepo, messageRepo, logger)
	if err != nil {
		logger.Fatal("contact service initialization failed", zap.Error(err))
	}

	messageService, err := service.NewMessageService(messageRepo, contactRepo, gatewayClient, rateLimiter, logger)
	if err != nil {
		logger.Fatal("message service initialization failed", zap.Error(err))
	}
	messageService.SetMetrics(metrics)

	templateService, err := service.NewTemplateService(templateRepo)
	if err != nil {
		logger.Fatal("template service initialization failed", zap.Error(err))
	}

	settingService, err := service.NewSettingService(settingRepo)
	if err != nil {
		logger.Fatal("setting service initialization failed", zap.Error(err))
	}

	dashboardService, err := service.NewDashboardService(campaignRepo, contactRepo, messageRepo)
	if err != nil {
		logger.Fatal("dashboard service initialization failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:      "campaigner",
		ErrorHandler: transport.ErrorHandler(logger),
		BodyLimit:    32 * 1024 * 1024,
	})
	app.Use(metrics.HTTPMiddleware())

	handler.RegisterHealthRoutes(app, sqlDB, rdb)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	if err := handler.RegisterCampaignRoutes(app, campaignService, dispatcher); err != nil {
		logger.Fatal("campaign routes registration failed", zap.Error(err))
	}
	if err := handler.RegisterContactRoutes(app, contactService); err != nil {
		logger.Fatal("contact routes registration failed", zap.Error(err))
	}
	if err := handler.RegisterMessageRoutes(app, messageService); err != nil {
		logger.Fatal("message routes registration failed", zap.Error(err))
	}
	if err := handler.RegisterTemplateRoutes(app, templateService); err != nil {
		logger.Fatal("template routes registration failed", zap.Error(err))
	}
	if err := handler.RegisterSettingRoutes(app, settingService); err != nil {
		logger.Fatal("setting routes registration failed", zap.Error(err))
	}
	if err := handler.RegisterDashboardRoutes(app, dashboardService); err != nil {
		logger.Fatal("dashboard routes registration failed", zap.Error(err))
	}
	if err := handler.RegisterSessionRoutes(app, sessionManager); err != nil {
		logger.Fatal("session routes registration failed", zap.Error(err))
	}

	go func() {
		logger.Info("campaigner api started", zap.Int("port", cfg.APIPort))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.APIPort)); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
}
