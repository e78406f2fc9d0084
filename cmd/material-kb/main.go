package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"material-kb/internal/api"
	"material-kb/internal/api/handlers"
	"material-kb/internal/app"
	"material-kb/pkg/config"
	"material-kb/pkg/logger"

	"go.uber.org/zap"
)

// @title Material Knowledge Base API
// @version 1.0
// @description Extraction-to-approval pipeline for supplier item lists

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting material knowledge base service")

	ctx := context.Background()
	application, err := app.New(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer application.Close()

	server := api.SetupRouter(&cfg.Server, api.Handlers{
		Auth:      handlers.NewAuthHandler(application.Auth, appLogger),
		Documents: handlers.NewDocumentHandler(application.Documents, appLogger),
		Approvals: handlers.NewApprovalHandler(application.Approvals, appLogger),
		Knowledge: handlers.NewKnowledgeHandler(application.Approvals, appLogger),
	}, application.JWTManager, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := server.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := server.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
