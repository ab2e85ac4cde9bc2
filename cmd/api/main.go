package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hostelreport/internal/auth"
	"hostelreport/internal/blob"
	"hostelreport/internal/config"
	"hostelreport/internal/handler"
	"hostelreport/internal/hostel"
	"hostelreport/internal/httpmiddleware"
	"hostelreport/internal/metrics"
	"hostelreport/internal/store"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration:\n%v", err)
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL, store.PoolConfig{
		MaxOpen:     cfg.DBMaxOpenConns,
		MaxIdle:     cfg.DBMaxIdleConns,
		MaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer redisClient.Close()

	ctx := context.Background()
	uploads, err := newUploader(ctx, cfg)
	if err != nil {
		return err
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	svc := hostel.NewService(hostel.NewRepository(db), uploads, tokens, hostel.Options{
		SuperAdmins:    cfg.SuperAdmins,
		AllowPlaintext: cfg.LegacyPlaintextPasswords,
		UploadTimeout:  cfg.UploadTimeout,
	})
	if cfg.LegacyPlaintextPasswords {
		log.Println("warning: plaintext password rows are accepted at login")
	}

	var redisCheck handler.Checker
	if redisClient != nil {
		redisCheck = redisClient
	}
	h := handler.New(svc, db, redisCheck, cfg.MaxUploadBytes)

	var limiter httpmiddleware.Limiter = httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin)
	if cfg.RateLimitBackend == "redis" {
		limiter = httpmiddleware.NewRedisWindow(redisClient.Client, cfg.RateLimitPerMin)
	}

	r := gin.New()

	// Recovery middleware
	r.Use(gin.Recovery())

	// Custom logger
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))

	r.Use(httpmiddleware.RequestID())
	r.Use(metrics.GinMiddleware())
	r.Use(httpmiddleware.CORS(cfg.CORSOrigin))
	r.Use(httpmiddleware.SecurityHeaders())
	r.Use(httpmiddleware.RateLimit(limiter))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	h.Register(r, tokens, cfg.StrictAuth)

	// Graceful shutdown. Submissions upload before responding, so the write
	// deadline must outlast the upload bound.
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout(cfg.UploadTimeout),
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s (blob backend %s, strict auth %v)", cfg.HTTPPort, cfg.BlobBackend, cfg.StrictAuth)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// writeTimeout leaves room for the database insert and the response after
// an upload that used its whole budget.
func writeTimeout(upload time.Duration) time.Duration {
	if upload <= 0 {
		upload = 20 * time.Second
	}
	return upload + 15*time.Second
}

// newUploader builds the configured image store, instrumented for metrics.
func newUploader(ctx context.Context, cfg config.App) (blob.Uploader, error) {
	var (
		u   blob.Uploader
		err error
	)
	switch cfg.BlobBackend {
	case "drive":
		u, err = blob.NewDrive(ctx, cfg.GoogleCredentialsPath, cfg.GoogleCredentialsJSON, cfg.UploadFolderID)
	case "cloudinary":
		u = blob.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
	case "b2":
		u, err = blob.NewB2(ctx, cfg.B2AccountID, cfg.B2ApplicationKey, cfg.B2Bucket)
	default:
		log.Println("image storage not configured; submissions with images will fail")
		return blob.Disabled{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s uploader: %w", cfg.BlobBackend, err)
	}
	return blob.Instrumented{Uploader: u, Backend: cfg.BlobBackend}, nil
}
