package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/net/netutil"

	"github.com/mpikenya/mpi-backend/internal/domain/contract"
	handlerHttp "github.com/mpikenya/mpi-backend/internal/handler/http"
	redisclient "github.com/mpikenya/mpi-backend/internal/infrastructure/cache"
	"github.com/mpikenya/mpi-backend/internal/infrastructure/config"
	database "github.com/mpikenya/mpi-backend/internal/infrastructure/database"
	"github.com/mpikenya/mpi-backend/internal/infrastructure/external_services"
	"github.com/mpikenya/mpi-backend/internal/infrastructure/federated"
	"github.com/mpikenya/mpi-backend/internal/infrastructure/jwt"
	"github.com/mpikenya/mpi-backend/internal/infrastructure/logger"
	passwordservice "github.com/mpikenya/mpi-backend/internal/infrastructure/password_service"
	randomgenerator "github.com/mpikenya/mpi-backend/internal/infrastructure/random_generator"
	"github.com/mpikenya/mpi-backend/internal/infrastructure/repository/mongodb"
	"github.com/mpikenya/mpi-backend/internal/infrastructure/store"
	"github.com/mpikenya/mpi-backend/internal/infrastructure/uuidgen"
	"github.com/mpikenya/mpi-backend/internal/infrastructure/validator"
	"github.com/mpikenya/mpi-backend/internal/usecase"
)

const shutdownTimeout = 20 * time.Second

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	appConfig := config.NewConfig()
	if err := appConfig.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	appLogger := logger.NewLogger(appConfig.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Establish MongoDB connection
	mongoClient, err := database.NewMongoDBClient(appConfig.MongoURI)
	if err != nil {
		appLogger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(); err != nil {
			appLogger.Warnf("mongo disconnect: %v", err)
		}
	}()
	db := mongoClient.Client.Database(appConfig.MongoDBName)
	indexCtx, cancelIndexes := context.WithTimeout(ctx, 30*time.Second)
	if err := database.EnsureIndexes(indexCtx, db, appConfig.ChatHistoryTTL); err != nil {
		appLogger.Fatalf("Failed to create indexes: %v", err)
	}
	cancelIndexes()

	// Dependency Injection: Repositories
	userRepo := mongodb.NewMongoAccountRepository(db.Collection(database.UsersCollection))
	adminRepo := mongodb.NewMongoAccountRepository(db.Collection(database.AdminsCollection))
	newsRepo := mongodb.NewNewsRepository(db.Collection(database.NewsCollection))
	galleryRepo := mongodb.NewGalleryRepository(db.Collection(database.GalleryCollection))
	subscriptionRepo := mongodb.NewSubscriptionRepository(db.Collection(database.SubscriptionsCollection))
	chatRepo := mongodb.NewChatRepository(db.Collection(database.ChatCollection))

	// Dependency Injection: Services
	hasher := passwordservice.NewHasher(0, appConfig.HashConcurrency)
	jwtManager := jwt.NewJWTManager(appConfig.JWTSecret, appConfig.JWTResetSecret)
	jwtService := jwt.NewJWTService(jwtManager, appConfig)
	mailService := external_services.NewEmailService(
		appConfig.EmailHost, appConfig.EmailPort, appConfig.EmailUsername,
		appConfig.EmailAppPassword, appConfig.EmailFrom, appConfig.EmailRatePerSecond,
	)
	randomGenerator := randomgenerator.NewRandomGenerator()
	appValidator := validator.NewValidator()
	uuidGenerator := uuidgen.NewGenerator()
	aiService := external_services.NewGeminiAIService(appConfig.AIServiceAPIKey, appConfig.AIModel)

	var objectStorage contract.IObjectStorage
	if appConfig.S3Bucket != "" {
		s3Storage, err := external_services.NewS3Storage(ctx, external_services.S3Options{
			Bucket:        appConfig.S3Bucket,
			Region:        appConfig.S3Region,
			Endpoint:      appConfig.S3Endpoint,
			AccessKey:     appConfig.S3AccessKey,
			SecretKey:     appConfig.S3SecretKey,
			PublicBaseURL: appConfig.S3PublicBaseURL,
			UsePathStyle:  appConfig.S3UsePathStyle,
		})
		if err != nil {
			appLogger.Fatalf("Failed to configure object storage: %v", err)
		}
		objectStorage = s3Storage
	} else {
		appLogger.Warnf("S3_BUCKET not set, image uploads are disabled")
	}

	var federatedVerifier contract.IFederatedVerifier
	if appConfig.FederatedJWKSURL != "" {
		federatedVerifier = federated.NewVerifier(ctx, federated.Options{
			JWKSURL:  appConfig.FederatedJWKSURL,
			Issuer:   appConfig.FederatedIssuer,
			Audience: appConfig.FederatedAudience,
		})
	}

	// Dependency Injection: Usecases
	authUsecase := usecase.NewAuthUseCase(userRepo, adminRepo, hasher, jwtService, federatedVerifier, appLogger, appConfig, appValidator, uuidGenerator)
	resetUsecase := usecase.NewPasswordResetUseCase(userRepo, hasher, jwtService, mailService, randomGenerator, appLogger, appConfig, appValidator)
	userUsecase := usecase.NewUserUsecase(userRepo, objectStorage, appLogger)
	adminUsecase := usecase.NewAdminUseCase(userRepo, adminRepo, subscriptionRepo, newsRepo, galleryRepo, hasher, appValidator, uuidGenerator, appLogger, appConfig)
	newsUsecase := usecase.NewNewsUseCase(newsRepo, objectStorage, uuidGenerator, appLogger)
	galleryUsecase := usecase.NewGalleryUseCase(galleryRepo, objectStorage, uuidGenerator, appLogger)
	subscriptionUsecase := usecase.NewSubscriptionUseCase(subscriptionRepo, uuidGenerator, appLogger)
	notificationUsecase := usecase.NewNotificationUseCase(mailService, appValidator, appLogger, appConfig)
	chatUsecase := usecase.NewChatUseCase(aiService, chatRepo, uuidGenerator, appLogger, appConfig)

	// Optional Dependency Injection: Redis cache
	var rdb *redis.Client
	if appConfig.RedisURL != "" {
		rdb, err = redisclient.NewRedisFromURL(ctx, appConfig.RedisURL)
		if err != nil {
			appLogger.Warnf("Redis unavailable, content lists will not be cached: %v", err)
		} else {
			defer redisclient.Close(rdb)
			contentCache := store.NewContentCacheStore(rdb, appConfig.ContentCacheTTL)
			newsUsecase.SetContentCache(contentCache)
			galleryUsecase.SetContentCache(contentCache)
		}
	}

	if appConfig.AdminBootstrapEmail != "" {
		if err := adminUsecase.EnsureBootstrapAdmin(ctx, appConfig.AdminBootstrapName, appConfig.AdminBootstrapEmail, appConfig.AdminBootstrapPassword); err != nil {
			appLogger.Fatalf("Failed to bootstrap admin: %v", err)
		}
	}

	health := func(ctx context.Context) error {
		if err := mongoClient.Client.Ping(ctx, nil); err != nil {
			return err
		}
		if rdb != nil {
			return rdb.Ping(ctx).Err()
		}
		return nil
	}

	// Setup API routes
	if appConfig.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	appRouter := handlerHttp.NewRouter(handlerHttp.Dependencies{
		Auth:          authUsecase,
		PasswordReset: resetUsecase,
		Users:         userUsecase,
		Admin:         adminUsecase,
		News:          newsUsecase,
		Gallery:       galleryUsecase,
		Subscriptions: subscriptionUsecase,
		Notifications: notificationUsecase,
		Chat:          chatUsecase,
		Sessions:      jwtService,
		Log:           appLogger.Entry(),
		Health:        health,
	}, handlerHttp.RouterOptions{
		AllowedOrigins:      appConfig.AllowedOrigins,
		RequestTimeout:      appConfig.RequestTimeout,
		RatePerSecond:       appConfig.RatePerSecond,
		RateBurst:           appConfig.RateBurst,
		AuthRatePerSecond:   appConfig.AuthRatePerSecond,
		AuthRateBurst:       appConfig.AuthRateBurst,
		TrustedProxyHeaders: appConfig.TrustedProxyHeaders,
		GoogleClientID:      appConfig.GoogleClientID,
		GoogleClientSecret:  appConfig.GoogleClientSecret,
		GoogleRedirectURL:   appConfig.GoogleCallbackURL(),
	})
	appRouter.SetupRoutes(router)

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       appConfig.RequestTimeout + 15*time.Second,
		WriteTimeout:      appConfig.RequestTimeout + 15*time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	listener, err := net.Listen("tcp", ":"+appConfig.Port)
	if err != nil {
		appLogger.Fatalf("Failed to listen on port %s: %v", appConfig.Port, err)
	}
	if appConfig.MaxConnections > 0 {
		listener = netutil.LimitListener(listener, appConfig.MaxConnections)
	}

	// Start the server
	serveErr := make(chan error, 1)
	go func() {
		appLogger.Infof("Server running on port %s", appConfig.Port)
		serveErr <- srv.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			appLogger.Errorf("Server stopped: %v", err)
		}
	case <-ctx.Done():
		appLogger.Infof("Shutdown signal received, draining connections")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			appLogger.Errorf("Graceful shutdown failed: %v", err)
		}
	}
}
