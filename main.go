package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"event-service/internal/config"
	"event-service/internal/db"
	"event-service/internal/handlers"
	"event-service/internal/middleware"
	"event-service/internal/observability"
	"event-service/internal/rabbitmq"
	"event-service/internal/repositories"
	"event-service/internal/telemetry"
	"event-service/internal/ws"
)

func main() {
	cfg := config.Load()
	missing := cfg.MissingVars()

	var database *sqlx.DB
	if len(missing) == 0 {
		var err error
		database, err = db.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to db: %v", err)
		}
	} else {
		log.Printf("missing env vars %v, data routes degraded", missing)
	}

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	log.Printf("event bus mode=%s", rabbitmq.PublisherMode(publisher))

	emitter := telemetry.NewActivityEmitter(publisher, "activity.events", "event-service", cfg.Environment)

	router := gin.Default()
	router.Use(corsMiddleware(cfg.FrontendOrigin))
	router.Use(middleware.BodySizeLimit())
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/", handlers.NewHealthHandler(database, missing).Status)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if len(missing) > 0 {
		notConfigured := middleware.NotConfigured(missing)
		router.Any("/api/*any", notConfigured)
		router.GET("/ws", notConfigured)
	} else {
		registerRoutes(router, database, emitter, cfg)
	}

	handlers.RegisterDebugRoutes(router, emitter, cfg.DebugRoutes)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func registerRoutes(router *gin.Engine, database *sqlx.DB, emitter *telemetry.ActivityEmitter, cfg config.Config) {
	userRepo := repositories.NewUserRepo(database)
	eventRepo := repositories.NewEventRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	commentRepo := repositories.NewCommentRepo(database)
	followRepo := repositories.NewFollowRepo(database)
	notificationRepo := repositories.NewNotificationRepo(database)

	hub := ws.NewHub()

	userHandler := handlers.NewUserHandler(userRepo, cfg.BcryptCost)
	eventHandler := handlers.NewEventHandler(eventRepo, notificationRepo, hub, emitter)
	messageHandler := handlers.NewMessageHandler(messageRepo, hub)
	commentHandler := handlers.NewCommentHandler(commentRepo)
	followHandler := handlers.NewFollowHandler(followRepo, userRepo, notificationRepo)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	presenceHandler := ws.NewPresenceHandler(hub, userRepo, messageRepo, emitter)

	router.GET("/api/users", userHandler.List)
	router.POST("/api/users", userHandler.Register)
	router.GET("/api/users/:id", userHandler.Get)
	router.PATCH("/api/users/:id", userHandler.Patch)
	router.GET("/api/users/:id/follows", followHandler.List)
	router.POST("/api/auth/signin", userHandler.SignIn)
	router.POST("/api/auth/signout", userHandler.SignOut)

	router.GET("/api/events", eventHandler.List)
	router.POST("/api/events", eventHandler.Create)
	router.GET("/api/events/trending", eventHandler.Trending)
	router.GET("/api/events/:id", eventHandler.Get)
	router.DELETE("/api/events/:id", eventHandler.Delete)
	router.POST("/api/events/:id/rsvp", eventHandler.RSVP)
	router.GET("/api/events/:id/comments", commentHandler.List)
	router.POST("/api/events/:id/comments", commentHandler.Create)
	router.DELETE("/api/comments/:id", commentHandler.Delete)

	router.GET("/api/messages/:userA/:userB", messageHandler.History)
	router.POST("/api/messages", messageHandler.Send)

	router.POST("/api/follows", followHandler.Toggle)

	router.GET("/api/notifications/:userID", notificationHandler.List)
	router.PATCH("/api/notifications/read", notificationHandler.MarkAllRead)
	router.POST("/api/notifications", notificationHandler.Create)

	router.GET("/ws", presenceHandler.Handle)
}

func corsMiddleware(origin string) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}
	if origin == "" || origin == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{origin}
	}
	return cors.New(corsConfig)
}
