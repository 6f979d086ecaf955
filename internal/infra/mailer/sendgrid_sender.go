// internal/infra/mailer/sendgrid_sender.go
package mailer

import (
	"context"
	"fmt"

	"study_plan_notifier/internal/domain/email"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendgridAPI interface {
	SendWithContext(ctx context.Context, msg *mail.SGMailV3) (*rest.Response, error)
}

// SendGridSender implements email.Sender using the SendGrid v3 API.
type SendGridSender struct {
	client sendgridAPI
	from   *mail.Email
}

func NewSendGridSender(apiKey, fromAddress, fromName string) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromAddress),
	}
}

// Send delivers msg. Any non-2xx response is returned as *email.DeliveryError with the response body.
func (s *SendGridSender) Send(ctx context.Context, msg email.Message) error {
	to := mail.NewEmail(msg.ToName, msg.ToAddress)
	sgMsg := mail.NewSingleEmail(s.from, msg.Subject, to, msg.PlainBody, msg.HTMLBody)

	resp, err := s.client.SendWithContext(ctx, sgMsg)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &email.DeliveryError{StatusCode: resp.StatusCode, Body: resp.Body}
	}
	return nil
}
