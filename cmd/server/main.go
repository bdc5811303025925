package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/themachinehf/atn-project/internal/config"
	"github.com/themachinehf/atn-project/internal/database"
	"github.com/themachinehf/atn-project/internal/handler"
	"github.com/themachinehf/atn-project/internal/repository"
	"github.com/themachinehf/atn-project/internal/scheduler"
	"github.com/themachinehf/atn-project/internal/service"
	"github.com/themachinehf/atn-project/pkg/logger"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output); err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close(db)

	userRepo := repository.NewUserRepository(db)
	logRepo := repository.NewReputationLogRepository(db)
	evalRepo := repository.NewEvaluationRepository(db)

	reputationSvc := service.NewReputationService(db, userRepo, logRepo)
	evaluationSvc := service.NewEvaluationService(db, userRepo, evalRepo, reputationSvc, &cfg.Reputation)
	rankingSvc := service.NewRankingService(userRepo, evalRepo, logRepo)

	reconciler := scheduler.NewReconcileScheduler(reputationSvc, cfg.Reputation.ReconcileCron)
	if err := reconciler.Start(); err != nil {
		logger.Fatal("Failed to start reconciliation scheduler:", err)
	}
	defer reconciler.Stop()

	router := handler.NewRouter(rankingSvc, evaluationSvc, reputationSvc)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("Server starting on port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error:", err)
	}

	logger.Info("Server stopped")
}
