package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// EmailChannel sends HTML digests over SMTP.
type EmailChannel struct {
	host     string
	port     int
	username string
	password string
	to       string
}

// NewEmailChannel creates an SMTP-backed channel.
func NewEmailChannel(host string, port int, username, password, to string) *EmailChannel {
	return &EmailChannel{
		host:     host,
		port:     port,
		username: username,
		password: password,
		to:       to,
	}
}

// Send submits one HTML message to the configured recipient.
func (e *EmailChannel) Send(ctx context.Context, subject, html string) error {
	msg := mail.NewMsg()
	if err := msg.From(e.username); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(e.to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html)

	client, err := mail.NewClient(e.host,
		mail.WithPort(e.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(e.username),
		mail.WithPassword(e.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
