package mailer

import "context"

// Sender delivers a plain-text message through an authenticated SMTP relay.
// Every failure is reported through Delivery, never retried.
type Sender interface {
	Send(ctx context.Context, msg Message) Delivery
}
