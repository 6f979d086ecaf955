package email

import (
	"context"
	"fmt"
)

// Message is a single outbound HTML email.
type Message struct {
	ToAddress string
	ToName    string
	Subject   string
	HTMLBody  string
	PlainBody string
}

// Sender defines an interface for dispatching email.
// This keeps the application logic independent of the mail provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// DeliveryError is returned by senders when the provider rejects a message.
// Body carries whatever diagnostic payload the provider returned.
type DeliveryError struct {
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("email provider responded with status %d", e.StatusCode)
}
