package main

import (
	"context"
	"errors"
	"os"
	"time"

	"dekugames/internal/amqp"
	"dekugames/internal/cli"
	"dekugames/internal/log"
	"dekugames/internal/notify"
	"dekugames/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg.LogLevel, log.ComponentIntent)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the intent worker")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	var notifier worker.Notifier
	if cfg.TelegramBotToken != "" {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			logger.Error("Failed to initialize Telegram notifier", log.FieldError, err.Error())
			os.Exit(1)
		}
		notifier = tg
		logger.Info("Seller notifications enabled", "chat_id", cfg.TelegramChatID)
	} else {
		logger.Info("TELEGRAM_BOT_TOKEN not set, intents will only be recorded")
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer client.Close()

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, nil)

	intents := worker.NewIntentWorker(repo, notifier)

	logger.Info("Starting intent worker",
		"queue", cfg.AMQPQueue,
		"db_path", cfg.SQLiteDBPath)

	if err := client.ConsumePurchaseIntents(ctx, intents.HandleIntent); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Consumer stopped", log.FieldError, err.Error())
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Intent worker stopped")
}
