package telegram

import (
	"context"
	"errors"
	"fmt"

	"study_plan_notifier/internal/app"
	"study_plan_notifier/internal/infra/scheduler"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// Sweeper runs a full missed-day sweep on demand.
type Sweeper interface {
	RunMissedDaySweep(ctx context.Context) (scheduler.SweepSummary, error)
}

const (
	msgUnauthorized = "Error: you are not allowed to run this command."
	msgRemindUsage  = "Invalid command format. Use: /remind <userId> <planId>"
	adminHelpText   = "Available admin commands:\n\n" +
		"/sweep\n - Run the missed-day reminder sweep over all active plans now.\n\n" +
		"/remind <userId> <planId>\n - Evaluate a single plan and send a reminder if it is due.\n\n" +
		"/help\n - Show this message."
)

// AdminCommands holds the logic behind the admin bot commands, independent of telebot.
type AdminCommands struct {
	reminderService app.ReminderService
	sweeper         Sweeper
	adminTelegramID int64
	logger          *logrus.Entry
}

func NewAdminCommands(reminderService app.ReminderService, sweeper Sweeper, adminTelegramID int64, logger *logrus.Entry) *AdminCommands {
	return &AdminCommands{
		reminderService: reminderService,
		sweeper:         sweeper,
		adminTelegramID: adminTelegramID,
		logger:          logger,
	}
}

// Help returns the reply to /start and /help.
func (a *AdminCommands) Help(senderID int64) string {
	if senderID != a.adminTelegramID {
		return "Hi! This bot is an operations channel for the study planner and has no commands for you."
	}
	return adminHelpText
}

// Sweep runs the sweep and returns the reply text.
func (a *AdminCommands) Sweep(ctx context.Context, senderID int64) string {
	log := a.logger.WithFields(logrus.Fields{"handler": "/sweep", "sender_id": senderID})
	if senderID != a.adminTelegramID {
		log.Warn("Unauthorized access attempt")
		return msgUnauthorized
	}

	log.Info("Command received")
	summary, err := a.sweeper.RunMissedDaySweep(ctx)
	if err != nil {
		log.WithError(err).Error("Manual sweep failed")
		return fmt.Sprintf("Sweep failed: %s", err.Error())
	}
	return FormatSweepSummary(summary)
}

// Remind evaluates a single plan and returns the reply text.
func (a *AdminCommands) Remind(ctx context.Context, senderID int64, args []string) string {
	log := a.logger.WithFields(logrus.Fields{"handler": "/remind", "sender_id": senderID})
	if senderID != a.adminTelegramID {
		log.Warn("Unauthorized access attempt")
		return msgUnauthorized
	}
	if len(args) != 2 {
		log.WithField("args_count", len(args)).Warn("Invalid command format")
		return msgRemindUsage
	}

	userID, planID := args[0], args[1]
	log = log.WithFields(logrus.Fields{"user_id": userID, "plan_id": planID})

	outcome, err := a.reminderService.EvaluateMissedDay(ctx, userID, planID)
	if err != nil {
		var notFound *app.NotFoundError
		var validation *app.ValidationError
		switch {
		case errors.As(err, &notFound):
			log.WithError(err).Warn("Plan or user not found")
			return fmt.Sprintf("Plan %s for user %s was not found.", planID, userID)
		case errors.As(err, &validation):
			return msgRemindUsage
		default:
			log.WithError(err).Error("Failed to evaluate plan")
			return fmt.Sprintf("Failed to process reminder: %s", err.Error())
		}
	}

	if outcome.Sent() {
		return fmt.Sprintf("%s User is %d day(s) behind.", outcome.Message(), outcome.DaysBehind)
	}
	return outcome.Message()
}

// RegisterAdminHandlers registers the admin commands on the bot.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, commands *AdminCommands) {
	help := func(c telebot.Context) error {
		return c.Send(commands.Help(c.Sender().ID))
	}
	b.Handle("/start", help)
	b.Handle("/help", help)

	b.Handle("/sweep", func(c telebot.Context) error {
		return c.Send(commands.Sweep(ctx, c.Sender().ID))
	})

	b.Handle("/remind", func(c telebot.Context) error {
		return c.Send(commands.Remind(ctx, c.Sender().ID, c.Args()))
	})
}
