package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"atlascon/internal/api"
	"atlascon/internal/api/handlers"
	"atlascon/internal/api/middleware"
	"atlascon/internal/engine/channels"
	"atlascon/internal/engine/connectors"
	"atlascon/internal/engine/dispatch"
	"atlascon/internal/engine/logs"
	"atlascon/internal/jira"
	"atlascon/internal/pkg/logger"
	"atlascon/internal/platform/auth"
	"atlascon/internal/platform/config"
	"atlascon/internal/platform/database"
	"atlascon/internal/platform/repositories"
	"atlascon/internal/platform/storage"
	"atlascon/internal/workers"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	ctx := context.Background()

	// User database
	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	userRepo := repositories.NewUserRepository(db)
	if err := userRepo.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Object store for connectors and delivery logs
	store, err := storage.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize object store: %v", err)
	}

	// Engine
	factory := channels.NewFactory(cfg.Dispatch, cfg.WhatsApp)
	recorder := logs.NewRecorder(store)
	connectorRepo := connectors.NewRepository(store)
	connectorSvc := connectors.NewService(connectorRepo, recorder, factory)
	dispatcher := dispatch.NewDispatcher(factory, recorder)
	dispatchSvc := dispatch.NewService(connectorRepo, dispatcher, cfg.Dispatch.UTCOffsetHours)

	// Collaborators
	jiraClient := jira.NewClient(cfg.Jira.RequestTimeout)
	tokenSvc := auth.NewTokenService(cfg.JWT)
	callbackBase := strings.TrimRight(cfg.Jira.CallbackBaseURL, "/")

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, tokenSvc)
	userHandler := handlers.NewUserHandler(userRepo, jiraClient, store, callbackBase)
	connectorHandler := handlers.NewConnectorHandler(connectorSvc)
	projectHandler := handlers.NewProjectHandler(userRepo, jiraClient)
	eventHandler := handlers.NewEventHandler(dispatchSvc)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenSvc)
	sourceMiddleware := middleware.NewSourceMiddleware(cfg.Jira.SourceUserAgent)

	router := api.NewRouter(&api.Dependencies{
		AuthHandler:      authHandler,
		UserHandler:      userHandler,
		ConnectorHandler: connectorHandler,
		ProjectHandler:   projectHandler,
		EventHandler:     eventHandler,
		AuthMiddleware:   authMiddleware,
		SourceMiddleware: sourceMiddleware,
	})

	// Background webhook health checks
	checker := workers.NewWebhookChecker(userRepo, jiraClient, callbackBase, cfg.Jira.CheckInterval)
	go checker.Run(ctx)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("Server starting on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
