package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/learning-service/internal/config"
)

type Message struct {
	To       string
	ToName   string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers transactional email
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New picks a sender for the configured provider
func New(cfg config.MailConfig, logger *slog.Logger) (Sender, error) {
	switch cfg.Provider {
	case "smtp":
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("SMTP_HOST is required for smtp mail provider")
		}
		return NewSMTPSender(cfg), nil
	case "sendgrid":
		if cfg.SendgridKey == "" {
			return nil, fmt.Errorf("SENDGRID_API_KEY is required for sendgrid mail provider")
		}
		return NewSendgridSender(cfg), nil
	case "", "log":
		return NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}

// LogSender writes messages to the log instead of sending them
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "Email not sent, log provider active",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.TextBody)
	return nil
}
