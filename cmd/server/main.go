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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/api"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/api/services"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/config"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/repositories"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/telemetry"
)

// @title Asset Catalog API
// @version 1.0
// @description Register, authenticate and manage digital asset records.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Envs

	shutdownTelemetry := telemetry.Setup("asset-catalog")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	store, err := repositories.Open(context.Background(), cfg)
	if err != nil {
		log.Fatal("Failed to open store: ", err)
	}
	defer store.Close()

	deps := api.Dependencies{
		Store:  store,
		Tokens: services.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		Google: services.NewGoogleAuth(cfg.Google),
		Config: cfg,
	}
	if cfg.R2.Enabled() {
		r2, err := repositories.NewR2Storage(cfg.R2)
		if err != nil {
			log.Fatal("Failed to initialize object storage: ", err)
		}
		deps.Storage = r2
	} else {
		log.Println("Object storage not configured, uploads are disabled")
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           otelhttp.NewHandler(api.SetupRouter(deps), "asset-catalog"),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute, // multipart uploads up to 100 MB
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("Starting asset catalog server on port: %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on port %s: %v", cfg.Port, err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
