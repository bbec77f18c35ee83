package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"zapcrm/internal/cache"
	"zapcrm/internal/config"
	"zapcrm/internal/database"
	"zapcrm/internal/handlers"
	"zapcrm/internal/logger"
	"zapcrm/internal/pdf"
	"zapcrm/internal/pipeline"
	"zapcrm/internal/repositories"
	"zapcrm/internal/routes"
	"zapcrm/internal/services"

	_ "zapcrm/docs"
)

func Run() {
	cfg := config.LoadConfig()
	log := logger.New(logger.Config{Env: cfg.Server.Env, Level: cfg.LogLevel})

	// === DB ===
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.StatusCheck(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("database never became ready")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	// === Redis ===
	rdb := cache.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer rdb.Close()
	leadCache := cache.NewLeadCache(rdb, time.Duration(cfg.Redis.LeadTTL)*time.Second, log)
	prefsStore := cache.NewPrefsStore(rdb)

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	leadRepo := repositories.NewLeadRepository(db)
	activityRepo := repositories.NewActivityRepository(db)
	whatsappRepo := repositories.NewWhatsappRepository(db)
	telegramRepo := repositories.NewTelegramLinkRepository(db)
	resetRepo := repositories.NewPasswordResetRepository(db)

	// === Services ===
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	authService := services.NewAuthService(
		userRepo,
		resetRepo,
		emailService,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.AccessTTLMin)*time.Minute,
		time.Duration(cfg.Auth.RefreshTTLHours)*time.Hour,
		log,
	)
	userService := services.NewUserService(userRepo, authService, emailService, log)
	leadService := services.NewLeadService(leadRepo, leadCache, log)
	activityService := services.NewActivityService(activityRepo, leadService)
	importService := services.NewImportService(leadService, log)
	reportService := services.NewReportService(leadService, userRepo, log)

	var telegramService *services.TelegramService
	if cfg.Telegram.Enabled {
		telegramService, err = services.NewTelegramService(cfg.Telegram.BotToken, telegramRepo, log)
		if err != nil {
			log.Error().Err(err).Msg("telegram integration disabled: bot init failed")
			telegramService = nil
		}
	}
	var notifier services.LeadNotifier
	if telegramService != nil {
		notifier = telegramService
	}
	whatsappService := services.NewWhatsappService(leadService, userRepo, whatsappRepo, notifier, log)

	boardManager := pipeline.NewManager(leadService, log)
	pdfGen := pdf.NewReportGenerator()

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	leadHandler := handlers.NewLeadHandler(leadService, importService)
	pipelineHandler := handlers.NewPipelineHandler(boardManager)
	activityHandler := handlers.NewActivityHandler(activityService)
	whatsappHandler := handlers.NewWhatsappHandler(whatsappService, cfg.Webhook.Secret)
	reportHandler := handlers.NewReportHandler(reportService, pdfGen)
	prefsHandler := handlers.NewPrefsHandler(prefsStore)
	integrationsHandler := handlers.NewIntegrationsHandler(telegramService)

	// === Gin ===
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	routes.SetupRoutes(
		router,
		cfg.Auth.JWTSecret,
		authHandler,
		userHandler,
		leadHandler,
		pipelineHandler,
		activityHandler,
		whatsappHandler,
		reportHandler,
		prefsHandler,
		integrationsHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info().Str("addr", listenAddr).Msg("server listening")
	if err := router.Run(listenAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
