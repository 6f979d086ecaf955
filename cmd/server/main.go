package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"study_plan_notifier/internal/app"
	"study_plan_notifier/internal/domain/email"
	"study_plan_notifier/internal/infra/config"
	idb "study_plan_notifier/internal/infra/database"
	"study_plan_notifier/internal/infra/httpapi"
	"study_plan_notifier/internal/infra/logger"
	"study_plan_notifier/internal/infra/mailer"
	"study_plan_notifier/internal/infra/scheduler"
	"study_plan_notifier/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Study Plan Notifier starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	mainLogger := logger.Component("main")
	mainLogger.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"timezone":    cfg.ReminderTimezone.String(),
	}).Info("Configuration loaded")

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not connect to database")
	}
	defer db.Close()
	mainLogger.Info("Database connection established successfully.")

	if cfg.MigrationsAutoApply {
		migrator, err := idb.NewMigrator(db)
		if err != nil {
			mainLogger.WithError(err).Fatal("Could not create migrator")
		}
		if err := migrator.Up(); err != nil {
			mainLogger.WithError(err).Fatal("Could not apply migrations")
		}
		mainLogger.Info("Database migrations applied.")
	}

	// Initialize Repositories
	planRepo := idb.NewPostgresPlanRepository(db)
	userRepo := idb.NewPostgresUserRepository(db)

	// Initialize Email Sender
	var sender email.Sender
	if cfg.SendGridAPIKey != "" {
		sender = mailer.NewSendGridSender(cfg.SendGridAPIKey, cfg.SenderEmail, cfg.SenderName)
		mainLogger.Info("SendGrid email sender initialized.")
	} else {
		sender = mailer.NewLogSender(logger.Component("mailer"))
		mainLogger.Warn("SENDGRID_API_KEY not set, emails will only be logged.")
	}

	// Initialize Services
	reminderService := app.NewReminderServiceImpl(planRepo, userRepo, sender, cfg.ReminderTimezone, logger.Component("reminder_service"))
	notificationService := app.NewNotificationServiceImpl(sender, logger.Component("notification_service"))

	// Initialize ReminderScheduler
	reminderScheduler := scheduler.NewReminderScheduler(
		reminderService,
		planRepo,
		logger.Component("scheduler"),
		cfg.ReminderTimezone,
		cfg.CronSpecMissedDay,
		cfg.SweepTimeout,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize optional Telegram ops bot
	var bot *telebot.Bot
	if cfg.TelegramEnabled() {
		bot, err = telebot.NewBot(telebot.Settings{
			Token:  cfg.TelegramToken,
			Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
			OnError: func(err error, c telebot.Context) { // Global error handler
				entry := logger.Component("telegram").WithError(err)
				if c != nil && c.Sender() != nil {
					entry = entry.WithField("sender_id", c.Sender().ID)
				}
				entry.Error("Telebot error")
			},
		})
		if err != nil {
			mainLogger.WithError(err).Fatal("Could not create Telegram bot")
		}
		reminderScheduler.SetReporter(telegram.NewOpsNotifier(telegram.NewTelebotAdapter(bot), cfg.AdminTelegramID))
		commands := telegram.NewAdminCommands(reminderService, reminderScheduler, cfg.AdminTelegramID, logger.Component("telegram"))
		telegram.RegisterAdminHandlers(ctx, bot, commands)
		mainLogger.Info("Telegram ops bot initialized.")
	}

	if err := reminderScheduler.Start(); err != nil {
		mainLogger.WithError(err).Fatal("Could not start reminder scheduler")
	}

	// Initialize HTTP server
	handler := httpapi.NewHandler(reminderService, notificationService, logger.Component("http"))
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
	}, logger.Component("http"))
	server := httpapi.NewServer(cfg.HTTPAddr, router)

	go func() {
		mainLogger.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			mainLogger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	if bot != nil {
		// Start bot in a goroutine so it doesn't block graceful shutdown handling
		go bot.Start()
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		mainLogger.WithError(err).Error("HTTP server shutdown failed")
	}
	if bot != nil {
		bot.Stop()
	}
	reminderScheduler.Stop()
	mainLogger.Info("Application shut down gracefully.")
}
