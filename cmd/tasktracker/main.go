package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"task-tracker/internal/bot"
	"task-tracker/internal/config"
	"task-tracker/internal/model"
	"task-tracker/internal/notify"
	"task-tracker/internal/repository"
	"task-tracker/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}
	store := repository.NewStore(db)

	tasks := service.NewTaskService(store, logger, nil)
	identity := model.Identity{ID: cfg.AuthUserID, Username: cfg.AuthUsername}
	auth, err := service.NewAuthService(store, tasks, logger, identity, cfg.AuthPassword, []byte(cfg.SessionSecret))
	if err != nil {
		logger.Fatal("auth service", zap.Error(err))
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("create bot api", zap.Error(err))
	}
	notifier := notify.NewTelegram(api)

	scheduler := service.NewSchedulerService(time.Local)
	scanner := service.NewReminderScanner(tasks, notifier, scheduler, logger, cfg.ReminderInterval)
	scheduler.Start()
	defer scheduler.Stop()
	defer scanner.Stop()

	// Saved sessions are reopened without re-validating credentials.
	// Notifications stay suppressed until the user's chat shows up again.
	if _, ok := auth.Restore(ctx); ok {
		if err := scanner.Start(); err != nil {
			logger.Warn("start reminder scanner", zap.Error(err))
		}
	}

	telegramBot := bot.New(api, auth, tasks, scanner, notifier, logger)

	logger.Info("task tracker started")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("bot stopped with error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
