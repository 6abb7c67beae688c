package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/domain/homework"
	"homework_status_bot/internal/infra/config"
	"homework_status_bot/internal/infra/logger"
	"homework_status_bot/internal/infra/metrics"
	"homework_status_bot/internal/infra/practicum"
	"homework_status_bot/internal/infra/scheduler"
	"homework_status_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := run(); err != nil {
		logger.Log.WithError(err).Error("Bot stopped!")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("could not load application configuration: %w", err)
	}

	closeLog, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("could not initialize logger: %w", err)
	}
	defer closeLog()

	mainLogger := logger.Component("main")

	if err := config.CheckTokens(cfg); err != nil {
		mainLogger.WithError(err).Log(logrus.FatalLevel, "Required tokens are missing")
		return err
	}
	mainLogger.WithFields(logrus.Fields{
		"log_level":    cfg.LogLevel,
		"environment":  cfg.Environment,
		"retry_period": cfg.RetryPeriod.String(),
	}).Info("Configuration loaded.")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramAPIURL, cfg.TelegramTimeout, false)
	if err != nil {
		return err
	}
	telegramClient := telegram.NewTelebotAdapter(bot, cfg.TelegramRate, cfg.TelegramTimeout)
	practicumClient := practicum.NewClient(cfg.Endpoint, cfg.PracticumToken, cfg.RequestTimeout)

	loopMetrics := metrics.New()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := loopMetrics.Serve(ctx, cfg.MetricsAddr, logger.Component("metrics")); err != nil {
				mainLogger.WithError(err).Error("Metrics server failed")
			}
		}()
	}

	heartbeat := scheduler.NewHeartbeatScheduler(loopMetrics, logger.Component("heartbeat"), cfg.CronSpecHeartbeat)
	if err := heartbeat.Start(); err != nil {
		return err
	}
	defer heartbeat.Stop()

	poller := app.NewStatusPoller(
		app.PollerConfig{
			ChatID:   cfg.TelegramChatID,
			Interval: cfg.RetryPeriod,
			Verdicts: homework.DefaultVerdicts(),
		},
		practicumClient,
		telegramClient,
		logger.Component("poller"),
		app.WithRecorder(loopMetrics),
	)

	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("poller stopped unexpectedly: %w", err)
	}
	mainLogger.Info("Application shut down gracefully.")
	return nil
}
