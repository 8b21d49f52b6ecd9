package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/MStartsev/postcard/internal/cache"
	"github.com/MStartsev/postcard/internal/config"
	"github.com/MStartsev/postcard/internal/domain"
	"github.com/MStartsev/postcard/internal/geocoding"
	"github.com/MStartsev/postcard/internal/handler"
	"github.com/MStartsev/postcard/internal/images"
	"github.com/MStartsev/postcard/internal/middleware"
	"github.com/MStartsev/postcard/internal/repository"
	"github.com/MStartsev/postcard/internal/service"
	"github.com/MStartsev/postcard/internal/store"
	"github.com/MStartsev/postcard/pkg/database"
	"github.com/MStartsev/postcard/pkg/log"
	"github.com/MStartsev/postcard/pkg/storage"
	"github.com/MStartsev/postcard/pkg/token"
)

func main() {
	// Environment variables set directly (e.g. in containers) win over .env,
	// so a missing file is not an error.
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, reading from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.Log)
	logger := log.L()

	// Connect to database using GORM
	db, err := database.New(&database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		FilePath:        cfg.Database.FilePath,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if err := database.AutoMigrate(db, &domain.UserModel{}, &domain.PostModel{}, &domain.CommentModel{}); err != nil {
		logger.Fatal().Err(err).Msg("Failed to auto-migrate")
	}
	logger.Info().Msg("Database migration completed")

	// Blob storage for avatars and post photos
	var blobStore storage.Storage
	switch cfg.Storage.Type {
	case "s3":
		blobStore, err = storage.NewS3Storage(context.Background(), cfg.Storage.S3)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to create S3 storage")
		}
		logger.Info().Str("bucket", cfg.Storage.S3.Bucket).Msg("Using S3 storage")
	default:
		blobStore, err = storage.NewLocalStorage(cfg.Storage.Local)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to create local storage")
		}
		logger.Info().Str("path", cfg.Storage.Local.BasePath).Msg("Using local storage")
	}

	// Feed cache is optional; without redis every feed read hits the database.
	var feedCache cache.FeedCache = cache.Noop{}
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisFeedCache(cfg.Redis, cfg.Cache.Prefix, cfg.Cache.TTL)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, feed cache disabled")
		} else {
			feedCache = redisCache
			logger.Info().Str("address", cfg.Redis.Address).Msg("Feed cache enabled")
		}
	}
	defer feedCache.Close()

	tokens, err := token.NewManager(cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create token manager")
	}

	geocoder := geocoding.NewNominatimClient(cfg.Geocoding.GeocoderConfig())
	normalizer := images.NewNormalizer(cfg.Images.MaxDimension, cfg.Images.JPEGQuality)

	// Repositories
	userRepo := repository.NewGormUserRepository(db)
	postRepo := repository.NewGormPostRepository(db)
	commentRepo := repository.NewGormCommentRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, tokens, blobStore, normalizer)
	postService := service.NewPostService(postRepo, commentRepo, userRepo, blobStore, geocoder, feedCache, normalizer)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo, feedCache)

	// In-process state stores
	authStore := store.NewAuthStore()
	postsStore := store.NewPostsStore()

	authMiddleware := middleware.NewAuthMiddleware(tokens)

	writeLimiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	janitorStop := make(chan struct{})
	writeLimiter.StartJanitor(time.Minute, janitorStop)
	defer close(janitorStop)

	httpHandler := handler.NewHandler(
		authService,
		postService,
		commentService,
		geocoder,
		authStore,
		postsStore,
		authMiddleware,
		writeLimiter,
	)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(log.GinMiddleware(logger))
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Local storage serves uploaded images directly.
	if cfg.Storage.Type != "s3" {
		r.Static("/uploads", cfg.Storage.Local.BasePath)
	}

	httpHandler.RegisterRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info().Str("address", addr).Str("driver", cfg.Database.Driver).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-quit
	logger.Info().Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Forced shutdown")
	}

	logger.Info().Msg("Server exited")
}
