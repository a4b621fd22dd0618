package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/medyosystem/medyo-golang/internal/config"
	"github.com/medyosystem/medyo-golang/internal/database"
	"github.com/medyosystem/medyo-golang/internal/handlers"
	"github.com/medyosystem/medyo-golang/internal/routes"
	"github.com/medyosystem/medyo-golang/internal/uploads"
)

func main() {
	// Missing DB_DSN or JWT_SECRET is a startup-fatal condition, never
	// a per-request error.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Open(cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	app := &handlers.Handlers{
		DB:  db,
		Cfg: cfg,
	}

	// Avatar storage is optional; without it registration still works,
	// it just rejects avatar uploads.
	if cfg.AvatarStorageEnabled() {
		store, err := uploads.NewAvatarStore(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize avatar storage: %v", err)
		}
		app.Avatars = store
	} else {
		log.Println("WARNING: S3_BUCKET not set, avatar uploads are disabled")
	}

	router := routes.SetupRouter(app)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Starting Medyo API server on %s...", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
