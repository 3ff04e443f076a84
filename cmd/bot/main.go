package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"homework_status_bot/internal/app"
	domainTelegram "homework_status_bot/internal/domain/telegram"
	"homework_status_bot/internal/infra/config"
	"homework_status_bot/internal/infra/logger"
	"homework_status_bot/internal/infra/practicum"
	"homework_status_bot/internal/infra/scheduler"
	"homework_status_bot/internal/infra/telegram"
)

// clients builds the outbound collaborators. They are only built once the configuration is complete.
type clients struct {
	messenger func(cfg *config.AppConfig) (domainTelegram.Client, error)
	fetcher   func(cfg *config.AppConfig, log *logrus.Entry) app.StatusFetcher
}

func defaultClients() clients {
	return clients{
		messenger: func(cfg *config.AppConfig) (domainTelegram.Client, error) {
			bot, err := telegram.NewBot(cfg.TelegramToken)
			if err != nil {
				return nil, err
			}
			return telegram.NewTelebotAdapter(bot), nil
		},
		fetcher: func(cfg *config.AppConfig, log *logrus.Entry) app.StatusFetcher {
			return practicum.New(cfg.PracticumEndpoint, cfg.PracticumToken, cfg.HTTPTimeout, log)
		},
	}
}

func main() {
	fmt.Println("Homework Status Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	code := run(cfg, defaultClients(), quit)
	_ = logger.Close()
	os.Exit(code)
}

// run polls until quit delivers a signal. It returns the process exit code.
func run(cfg *config.AppConfig, c clients, quit <-chan os.Signal) int {
	mainLogger := logger.Component("main")

	// No polling happens unless every required value is present.
	if missing := cfg.MissingRequired(); len(missing) > 0 {
		for _, key := range missing {
			mainLogger.WithField("variable", key).Log(logrus.FatalLevel, "Required environment variable is missing")
		}
		return 1
	}

	mainLogger.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Chat ID: %d, Interval: %s",
		cfg.LogLevel, cfg.Environment, cfg.TelegramChatID, cfg.RetryInterval)

	messenger, err := c.messenger(cfg)
	if err != nil {
		mainLogger.WithError(err).Log(logrus.FatalLevel, "Could not create Telegram bot")
		return 1
	}
	notifier := app.NewNotifier(
		messenger,
		cfg.NotifyAttempts,
		cfg.NotifyRetryDelay,
		logger.Component("notifier"),
	)
	mainLogger.Info("Notifier initialized.")

	apiClient := c.fetcher(cfg, logger.Component("practicum"))
	poller := app.NewPoller(apiClient, notifier, cfg.TelegramChatID, time.Now().Unix(), logger.Component("poller"))

	pollScheduler := scheduler.NewPollScheduler(poller, logger.Component("scheduler"), cfg.RetryInterval)
	pollScheduler.Start()

	<-quit // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	pollScheduler.Stop()
	mainLogger.Info("Application shut down gracefully.")
	return 0
}
