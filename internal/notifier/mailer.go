// Package notifier delivers the daily plan over authenticated SMTP.
package notifier

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Notifier sends a plain-text message. One delivery attempt; transport
// errors propagate to the caller.
type Notifier interface {
	Send(ctx context.Context, subject, body string) error
}

// Mailer is the SMTP-backed Notifier with a fixed sender and recipient.
type Mailer struct {
	host      string
	port      int
	sender    string
	password  string
	recipient string
}

var _ Notifier = (*Mailer)(nil)

// NewMailer creates a Mailer for the given submission endpoint and
// addresses. The sender address doubles as the SMTP username.
func NewMailer(host string, port int, sender, password, recipient string) *Mailer {
	return &Mailer{
		host:      host,
		port:      port,
		sender:    sender,
		password:  password,
		recipient: recipient,
	}
}

// Send composes and delivers one plain-text message over STARTTLS.
func (m *Mailer) Send(ctx context.Context, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.sender); err != nil {
		return fmt.Errorf("notifier: sender address: %w", err)
	}
	if err := msg.To(m.recipient); err != nil {
		return fmt.Errorf("notifier: recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.sender),
		mail.WithPassword(m.password),
	)
	if err != nil {
		return fmt.Errorf("notifier: smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("notifier: send %q: %w", subject, err)
	}
	return nil
}
