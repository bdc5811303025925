package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/themachinehf/atn-project/internal/bot"
	"github.com/themachinehf/atn-project/internal/config"
	"github.com/themachinehf/atn-project/internal/database"
	"github.com/themachinehf/atn-project/internal/repository"
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

	if cfg.Bot.Token == "" {
		logger.Fatal("bot.token is required")
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

	atnBot, err := bot.New(&cfg.Bot, userRepo, reputationSvc, evaluationSvc, rankingSvc)
	if err != nil {
		logger.Fatal("Failed to start bot:", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	atnBot.Run(ctx)
}
