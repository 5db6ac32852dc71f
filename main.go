package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Srijapotha/new-camme-project/internal/auth"
	"github.com/Srijapotha/new-camme-project/internal/billing"
	"github.com/Srijapotha/new-camme-project/internal/cache"
	"github.com/Srijapotha/new-camme-project/internal/config"
	"github.com/Srijapotha/new-camme-project/internal/db"
	"github.com/Srijapotha/new-camme-project/internal/handlers"
	applog "github.com/Srijapotha/new-camme-project/internal/log"
	"github.com/Srijapotha/new-camme-project/internal/observability"
	"github.com/Srijapotha/new-camme-project/internal/presence"
	"github.com/Srijapotha/new-camme-project/internal/push"
	"github.com/Srijapotha/new-camme-project/internal/rabbitmq"
	"github.com/Srijapotha/new-camme-project/internal/repositories"
	"github.com/Srijapotha/new-camme-project/internal/sweeper"
	"github.com/Srijapotha/new-camme-project/internal/telemetry"
	"github.com/Srijapotha/new-camme-project/internal/ws"
)

const serviceName = "camme-core"

func main() {
	cfg := config.Load()
	applog.Init(cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.OTLPEndpoint, serviceName, cfg.Env)
	if err != nil {
		log.Fatal().Err(err).Msg("tracing init failed")
	}
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = shutdownTracing(shutdownCtx)
	}()

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	defer database.Close()

	redisCache := cache.New(cfg.RedisAddr)
	defer redisCache.Close()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	log.Info().
		Str("mode", rabbitmq.PublisherMode(publisher)).
		Str("reason", rabbitmq.PublisherNoopReason(publisher)).
		Msg("event publisher ready")

	emitter := telemetry.NewAuditEmitter(publisher, "audit.logs", serviceName, cfg.Env)
	notifier := push.NewAMQPNotifier(publisher)

	userRepo := repositories.NewUserRepo(database)
	chatRepo := repositories.NewChatRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	adRepo := repositories.NewAdRepo(database)

	authMgr := auth.NewManager(cfg.JWTSecret, 24*time.Hour)

	tracker := presence.NewTracker()
	hub := ws.NewHub()
	deliveryRouter := ws.NewRouter(chatRepo, messageRepo, userRepo, hub, tracker, notifier)
	coordinator := ws.NewCoordinator(chatRepo, messageRepo, hub)
	socketHandler := ws.NewSocketHandler(authMgr, userRepo, messageRepo, tracker, hub, deliveryRouter, coordinator)

	billingSvc := billing.NewService(adRepo, userRepo, redisCache)

	retention := sweeper.New(messageRepo, userRepo, cfg.SweepInterval)
	go retention.Run(ctx)

	adHandler := handlers.NewAdHandler(billingSvc, emitter)
	chatHandler := handlers.NewChatHandler(chatRepo, messageRepo, userRepo)
	groupHandler := handlers.NewGroupHandler(chatRepo, userRepo)

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/ws", socketHandler.Handle)

	authMiddleware := authMgr.Middleware()

	ad := router.Group("/ad", authMiddleware)
	{
		ad.POST("/track-event", adHandler.TrackEvent)
		ad.POST("/metrics", adHandler.Metrics)
		ad.POST("/install", adHandler.Install)
		ad.POST("/website-click", adHandler.WebsiteClick)
		ad.POST("/submit-form", adHandler.SubmitForm)
	}

	chat := router.Group("/chat", authMiddleware)
	{
		chat.POST("/messages", chatHandler.Messages)
		chat.POST("/create-private", chatHandler.CreatePrivate)
		chat.POST("/search-chats", chatHandler.SearchChats)
		chat.POST("/filter-messages", chatHandler.FilterMessages)
		chat.POST("/set-auto-delete-setting", chatHandler.SetAutoDeleteSetting)
		chat.POST("/get-auto-delete-setting", chatHandler.GetAutoDeleteSetting)
		chat.POST("/block-user", chatHandler.BlockUser)
		chat.POST("/restrict-user", chatHandler.RestrictUser)
		chat.POST("/set-pin", chatHandler.SetPin)
		chat.POST("/verify-pin", chatHandler.VerifyPin)
		chat.POST("/save-message", chatHandler.SaveMessage)
	}

	group := router.Group("/group", authMiddleware)
	{
		group.POST("/create", groupHandler.Create)
		group.POST("/add-member", groupHandler.AddMember)
		group.POST("/remove-member", groupHandler.RemoveMember)
		group.POST("/my-groups", groupHandler.MyGroups)
	}

	handlers.RegisterDebugRoutes(router, emitter, cfg.DebugRoutes)

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
