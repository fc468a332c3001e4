//	@title			Civic Lens Uploader API
//	@version		1.0
//	@description	Accepts file uploads and relays them to object storage.
//
//	@host		localhost:3000
//	@BasePath	/

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/civiclens/uploader/internal/config"
	"github.com/civiclens/uploader/internal/server"
	"github.com/civiclens/uploader/internal/storage"
	"github.com/civiclens/uploader/internal/upload"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	log.SetHeader("${time_rfc3339} ${level}")
	if cfg.IsProduction() {
		log.SetLevel(log.INFO)
	} else {
		log.SetLevel(log.DEBUG)
	}

	memLimit, err := cfg.MemoryLimit()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	store, readiness, err := openStore(cfg)
	if err != nil {
		log.Fatalf("object storage init failed: %v", err)
	}

	// Wire dependencies: store → service → handler → router
	uploadSvc := upload.NewService(store, cfg.UploadFolder)
	uploadHandler := upload.NewHandler(uploadSvc, memLimit)
	router := server.NewRouter(cfg, uploadHandler, uploadSvc, readiness)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Infof("server listening on :%s (env=%s, backend=%s, folder=%s)",
			cfg.Port, cfg.AppEnv, store.Name(), cfg.UploadFolder)
		log.Infof("swagger UI at http://localhost:%s/swagger/index.html", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	log.Info("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

// openStore builds the blob store named by STORAGE_BACKEND.
func openStore(cfg *config.Config) (storage.BlobStore, server.Configurable, error) {
	switch cfg.StorageBackend {
	case config.BackendMinio:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s, err := storage.NewMinioStorage(ctx, storage.MinioOptions{
			Endpoint:   cfg.StorageEndpoint,
			AccessKey:  cfg.StorageAccessKey,
			SecretKey:  cfg.StorageSecretKey,
			Bucket:     cfg.StorageBucket,
			PublicBase: cfg.StoragePublicBase,
			UseSSL:     cfg.StorageUseSSL,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil

	case config.BackendMemory:
		log.Warn("storage: memory backend selected, uploads are lost on restart")
		return storage.NewMemory("http://localhost:" + cfg.Port + "/blobs"), nil, nil

	default:
		if !cfg.CloudinaryConfigured() {
			log.Warn("storage: CLOUD_NAME, CLOUD_API_KEY or CLOUD_API_SECRET is missing; uploads will fail")
		}
		s, err := storage.NewCloudinaryStorage(storage.CloudinaryOptions{
			CloudName:    cfg.CloudName,
			APIKey:       cfg.CloudAPIKey,
			APISecret:    cfg.CloudAPISecret,
			UploadPrefix: cfg.CloudAPIPrefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}
}
