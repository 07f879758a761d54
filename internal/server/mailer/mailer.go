// Package mailer sends plain-text mail through an SMTP relay.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender dials the relay per message.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{host: host, port: port, username: username, password: password, from: from}
}

// dialAndSend is a seam for tests.
var dialAndSend = func(ctx context.Context, c *mail.Client, m *mail.Msg) error {
	return c.DialAndSendWithContext(ctx, m)
}

func (s *SMTPSender) buildMessage(to, subject, body string) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(s.from); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextPlain, body)
	return m, nil
}

func (s *SMTPSender) newClient() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(s.port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if s.username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.username),
			mail.WithPassword(s.password),
		)
	}
	return mail.NewClient(s.host, opts...)
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	m, err := s.buildMessage(to, subject, body)
	if err != nil {
		return err
	}
	c, err := s.newClient()
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := dialAndSend(ctx, c, m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}
