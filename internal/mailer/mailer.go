package mailer

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/nguyentantai21042004/meetnote/internal/config"
	"github.com/nguyentantai21042004/meetnote/internal/logger"
)

type implMailer struct {
	host    string
	port    int
	timeout time.Duration
	logger  logger.Logger
}

// New creates a Sender for the relay in cfg
func New(cfg config.SMTPConfig, log logger.Logger) Sender {
	return &implMailer{
		host:    cfg.Host,
		port:    cfg.Port,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		logger:  log,
	}
}

// Send opens one STARTTLS session, authenticates as msg.From and sends msg.
func (m *implMailer) Send(ctx context.Context, msg Message) Delivery {
	mm, err := buildMessage(msg)
	if err != nil {
		m.logger.Warn(ctx, "Invalid email message: %v", err)
		return failed(err)
	}

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(msg.From),
		mail.WithPassword(msg.Password),
		mail.WithTimeout(m.timeout),
	)
	if err != nil {
		return failed(fmt.Errorf("create smtp client: %w", err))
	}

	sendCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.logger.Info(ctx, "Sending email to %s via %s:%d", msg.To, m.host, m.port)
	if err := client.DialAndSendWithContext(sendCtx, mm); err != nil {
		m.logger.Warn(ctx, "Failed to send email to %s: %v", msg.To, err)
		return failed(err)
	}

	m.logger.Info(ctx, "Email sent to %s", msg.To)
	return Delivery{Sent: true}
}

func buildMessage(msg Message) (*mail.Msg, error) {
	mm := mail.NewMsg()
	if err := mm.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := mm.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(mail.TypeTextPlain, msg.Body)

	for _, path := range msg.Attachments {
		mm.AttachFile(path, mail.WithFileName(filepath.Base(path)))
	}

	return mm, nil
}
