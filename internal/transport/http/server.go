package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "docassist/internal/app"
	"docassist/internal/assistant"
	"docassist/internal/bootstrap"
	"docassist/internal/cache"
	"docassist/internal/events"
	"docassist/internal/processing"
	"docassist/internal/repository"
	"docassist/internal/transport/http/handler"
	"docassist/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	documentRepo := repository.NewDocumentRepository(app.MySQL)
	chatRepo := repository.NewChatRepository(app.MySQL)
	summaryRepo := repository.NewSummaryRepository(app.MySQL)
	eventRepo := repository.NewEventRepository(app.MySQL)

	chatListCache := cache.NewChatListCache(
		app.Redis,
		time.Duration(app.Config.Redis.ChatListTTLSeconds)*time.Second,
	)
	eventPublisher := events.NewPublisher(app.MQConn, app.Config.RabbitMQ.EventQueue)

	processingClient := processing.NewClient(processing.Config{
		WebhookURL:      app.Config.Processing.WebhookURL,
		UploadTimeout:   time.Duration(app.Config.Processing.UploadTimeoutSeconds) * time.Second,
		PollInterval:    time.Duration(app.Config.Processing.PollIntervalSeconds) * time.Second,
		PollMaxAttempts: app.Config.Processing.PollMaxAttempts,
	})
	assistantClient := assistant.NewClient(
		app.Config.Assistant.WebhookURL,
		time.Duration(app.Config.Assistant.TimeoutSeconds)*time.Second,
	)

	sessionService := appsvc.NewSessionService(
		app.Config.Session.TokenSecret,
		time.Duration(app.Config.Session.TokenExpireMinute)*time.Minute,
	)
	uploadService := appsvc.NewUploadService(documentRepo, processingClient, eventPublisher, app.Log)
	documentService := appsvc.NewDocumentService(documentRepo, chatRepo, summaryRepo, eventRepo, chatListCache, app.Log)
	chatService := appsvc.NewChatService(chatRepo, documentRepo, assistantClient, chatListCache, app.Log)
	summaryService := appsvc.NewSummaryService(summaryRepo, documentRepo)

	sessionHandler := handler.NewSessionHandler(sessionService)
	documentHandler := handler.NewDocumentHandler(uploadService, documentService, app.Config.Processing.MaxUploadSizeMB)
	chatHandler := handler.NewChatHandler(chatService)
	summaryHandler := handler.NewSummaryHandler(summaryService)

	v1 := router.Group("/api/v1")
	v1.POST("/session", sessionHandler.Create)

	requireSession := middleware.RequireSession(app.Config.Session.TokenSecret)

	docs := v1.Group("/documents")
	docs.Use(requireSession)
	docs.POST("/upload", documentHandler.Upload)
	docs.GET("", documentHandler.List)
	docs.GET("/:id", documentHandler.Get)
	docs.DELETE("/:id", documentHandler.Delete)
	docs.GET("/:id/status", documentHandler.Status)
	docs.GET("/:id/events", documentHandler.Events)
	docs.GET("/:id/chats", chatHandler.List)
	docs.POST("/:id/chats", chatHandler.Send)
	docs.DELETE("/:id/chats/:chatId", chatHandler.Delete)
	docs.GET("/:id/summaries", summaryHandler.ListByDocument)
	docs.POST("/:id/summaries", summaryHandler.Create)

	summaries := v1.Group("/summaries")
	summaries.Use(requireSession)
	summaries.GET("/:id", summaryHandler.Get)
	summaries.DELETE("/:id", summaryHandler.Delete)

	return router
}
