package mailer

import (
	"context"

	"study_plan_notifier/internal/domain/email"

	"github.com/sirupsen/logrus"
)

// LogSender only logs outgoing messages. Used when no SendGrid key is configured.
type LogSender struct {
	logger *logrus.Entry
}

func NewLogSender(logger *logrus.Entry) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg email.Message) error {
	s.logger.WithFields(logrus.Fields{
		"to":      msg.ToAddress,
		"subject": msg.Subject,
	}).Info("Email not sent (log-only sender)")
	s.logger.Debug(msg.HTMLBody)
	return nil
}
