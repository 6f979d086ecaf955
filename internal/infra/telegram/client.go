// internal/infra/telegram/client.go
package telegram

import (
	"context"
	"fmt"
	"strings"

	"study_plan_notifier/internal/infra/scheduler"

	"gopkg.in/telebot.v3"
)

// MessageSender sends a text message to a Telegram chat.
type MessageSender interface {
	SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error
}

// TelebotAdapter implements MessageSender using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// SendMessage sends a text message to the specified recipient.
func (tba *TelebotAdapter) SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error {
	if options == nil {
		options = &telebot.SendOptions{}
	}

	recipient := &telebot.User{ID: recipientChatID} // Admin is a direct user chat
	_, err := tba.bot.Send(recipient, text, options)
	return err
}

// OpsNotifier posts sweep summaries to the admin chat. It implements scheduler.SweepReporter.
type OpsNotifier struct {
	sender      MessageSender
	adminChatID int64
}

func NewOpsNotifier(sender MessageSender, adminChatID int64) *OpsNotifier {
	return &OpsNotifier{sender: sender, adminChatID: adminChatID}
}

func (n *OpsNotifier) ReportSweep(_ context.Context, summary scheduler.SweepSummary) error {
	if err := n.sender.SendMessage(n.adminChatID, FormatSweepSummary(summary), nil); err != nil {
		return fmt.Errorf("failed to send sweep summary to admin chat: %w", err)
	}
	return nil
}

// FormatSweepSummary renders a sweep summary as a short chat message.
func FormatSweepSummary(summary scheduler.SweepSummary) string {
	var b strings.Builder
	b.WriteString("Missed-day reminder sweep finished\n")
	b.WriteString(fmt.Sprintf("Started: %s\n", summary.StartedAt.Format("2006-01-02 15:04:05 MST")))
	b.WriteString(fmt.Sprintf("Plans evaluated: %d\n", summary.Evaluated))
	b.WriteString(fmt.Sprintf("Reminders sent: %d\n", summary.Sent))
	b.WriteString(fmt.Sprintf("Skipped: %d\n", summary.Skipped))
	b.WriteString(fmt.Sprintf("Failed: %d", summary.Failed))
	if summary.Failed > 0 {
		b.WriteString(" (see service logs)")
	}
	return b.String()
}
