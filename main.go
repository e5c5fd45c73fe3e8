package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/learning-service/internal/ai"
	"github.com/SAP-F-2025/learning-service/internal/auth"
	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/config"
	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/handlers"
	"github.com/SAP-F-2025/learning-service/internal/mailer"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/repositories/casdoor"
	"github.com/SAP-F-2025/learning-service/internal/repositories/elastic"
	"github.com/SAP-F-2025/learning-service/internal/repositories/minio"
	mongorepo "github.com/SAP-F-2025/learning-service/internal/repositories/mongo"
	"github.com/SAP-F-2025/learning-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/SAP-F-2025/learning-service/internal/validator"
	"github.com/SAP-F-2025/learning-service/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(slogLogger)
	logger := utils.NewSlogLogger(slogLogger)

	startCtx, cancelStart := context.WithTimeout(context.Background(), time.Minute)
	defer cancelStart()

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, caching disabled", "error", err)
			redisClient = nil
		}
	}

	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	// Document store (discussions, activity log, counseling)
	var documents repositories.DocumentStore
	if cfg.Mongo.URI != "" {
		client, database, err := pkg.NewMongoDatabase(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize mongo: %v", err)
		}
		store := mongorepo.NewDocumentStore(client, database)
		if err := store.EnsureIndexes(startCtx); err != nil {
			log.Fatalf("Failed to create mongo indexes: %v", err)
		}
		documents = store
	} else {
		logger.Warn("MONGO_URI not set; discussions, counseling and activity log are disabled")
	}

	var storage repositories.ObjectStorage
	if cfg.Minio.Enabled() {
		storage, err = minio.NewStorageMinio(startCtx, cfg.Minio)
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
	}

	var search repositories.CourseSearchIndex
	if len(cfg.Elasticsearch.Addresses) > 0 {
		esClient, err := elastic.NewElasticClient(cfg.Elasticsearch)
		if err != nil {
			log.Fatalf("Failed to initialize elasticsearch: %v", err)
		}
		index := elastic.NewCourseSearchIndex(esClient, cfg.Elasticsearch.Index)
		if err := index.CreateIndexIfNotExist(startCtx); err != nil {
			logger.Warn("Course search index unavailable, using database search", "error", err)
		} else {
			search = index
		}
	}

	var identity repositories.IdentityProvider
	if cfg.Casdoor.Enabled() {
		identity = casdoor.NewIdentityCasdoor(cfg.Casdoor)
	}

	var aiClient ai.Client
	if cfg.AI.Enabled() {
		aiClient = ai.NewClient(cfg.AI, slogLogger)
	}

	mail, err := mailer.New(cfg.Mail, slogLogger)
	if err != nil {
		log.Fatalf("Failed to initialize mailer: %v", err)
	}

	// Domain events: kafka when brokers are configured, in-process otherwise
	pubSub, err := events.NewPubSub(cfg.Kafka, slogLogger)
	if err != nil {
		log.Fatalf("Failed to initialize event transport: %v", err)
	}
	publisher := events.NewWatermillPublisher(pubSub.Publisher, cfg.Kafka.Topic, slogLogger)

	// Initialize services
	serviceManager := services.NewServiceManager(&services.Dependencies{
		Repo:        repoManager.GetRepository(),
		Documents:   documents,
		Cache:       cache.NewCacheManager(redisClient),
		Publisher:   publisher,
		AI:          aiClient,
		Storage:     storage,
		Search:      search,
		Identity:    identity,
		Mailer:      mail,
		JWT:         auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL),
		Validator:   validator.New(),
		Logger:      slogLogger,
		FrontendURL: cfg.FrontendURL,
	})

	// Activity consumer
	runCtx, stopRun := context.WithCancel(context.Background())
	defer stopRun()

	var activityRouter interface{ Close() error }
	if documents != nil {
		consumer := events.NewActivityConsumer(documents.Activity(), slogLogger)
		router, err := events.NewActivityRouter(pubSub.Subscriber, cfg.Kafka.Topic, consumer, slogLogger)
		if err != nil {
			log.Fatalf("Failed to initialize activity consumer: %v", err)
		}
		go func() {
			if err := router.Run(runCtx); err != nil {
				logger.ErrorErr("Activity consumer stopped", err)
			}
		}()
		activityRouter = router
	}

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger, cfg.CORSOrigins)

	handlerManager := handlers.NewHandlerManager(serviceManager, handlers.CookieConfig{
		Name:   cfg.JWT.CookieName,
		Secure: cfg.JWT.CookieSecure,
	}, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"events", pubSub.Kind)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.ErrorErr("Server forced to shutdown", err)
	}

	stopRun()
	if activityRouter != nil {
		if err := activityRouter.Close(); err != nil {
			logger.ErrorErr("Failed to stop activity consumer", err)
		}
	}

	// closes the publisher, mongo, postgres and redis
	if err := serviceManager.Shutdown(ctx); err != nil {
		logger.ErrorErr("Failed to shutdown services", err)
	}
	if err := pubSub.Close(); err != nil {
		logger.ErrorErr("Failed to close event transport", err)
	}

	logger.Info("Server exited")
}
