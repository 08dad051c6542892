package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/mwickstrom1817/5gjobs/pkg/config"
)

// Port 465 means implicit TLS; every other port negotiates STARTTLS.
// Some providers reject the wrong mode, so the split is load-bearing.
const implicitTLSPort = 465

const defaultTimeout = 15 * time.Second

// Attachment is one file carried by a message.
type Attachment struct {
	Filename string
	Data     []byte
}

// Message is a single outbound email.
type Message struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Sender delivers a batch of messages over one SMTP connection.
type Sender interface {
	Send(ctx context.Context, settings config.SMTPSettings, msgs ...Message) error
}

// SMTPSender sends mail through the resolved transport settings.
type SMTPSender struct {
	timeout time.Duration
}

// NewSMTPSender builds a sender with a bounded per-batch timeout.
func NewSMTPSender(timeout time.Duration) *SMTPSender {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &SMTPSender{timeout: timeout}
}

// Send dials once and delivers every message on that connection.
func (s *SMTPSender) Send(ctx context.Context, settings config.SMTPSettings, msgs ...Message) error {
	if !settings.Configured() {
		return errors.New("smtp transport not configured")
	}
	if len(msgs) == 0 {
		return nil
	}

	opts := []mail.Option{
		mail.WithPort(settings.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(settings.Email),
		mail.WithPassword(settings.Password),
		mail.WithTimeout(s.timeout),
	}
	if settings.Port == implicitTLSPort {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(settings.Server, opts...)
	if err != nil {
		return fmt.Errorf("building smtp client: %w", err)
	}

	built := make([]*mail.Msg, 0, len(msgs))
	for _, msg := range msgs {
		m, err := buildMsg(settings.Email, msg)
		if err != nil {
			return err
		}
		built = append(built, m)
	}

	if err := client.DialAndSendWithContext(ctx, built...); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}

func buildMsg(from string, msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender address %q: %w", from, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	for _, attachment := range msg.Attachments {
		if err := m.AttachReader(attachment.Filename, bytes.NewReader(attachment.Data)); err != nil {
			return nil, fmt.Errorf("attaching %q: %w", attachment.Filename, err)
		}
	}
	return m, nil
}
