package notify

import (
	"fmt"
	"strings"
	"time"

	gomail "gopkg.in/mail.v2"

	"github.com/tendermatrix/tendermatrix/internal/config"
)

// EmailSender delivers rendered messages via SMTP.
type EmailSender struct {
	cfg  config.EmailConfig
	send func(m *gomail.Message) error
}

// NewEmailSender creates a sender with the given SMTP configuration. An
// empty FromEmail falls back to the SMTP username.
func NewEmailSender(cfg config.EmailConfig) *EmailSender {
	if cfg.FromEmail == "" {
		cfg.FromEmail = cfg.SMTPUser
	}

	dialer := gomail.NewDialer(cfg.SMTPServer, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	dialer.Timeout = 10 * time.Second

	return &EmailSender{
		cfg:  cfg,
		send: dialer.DialAndSend,
	}
}

// Send delivers the message. A no-op when delivery is disabled.
func (s *EmailSender) Send(msg *RenderedMessage) error {
	if !s.cfg.Enabled {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.FromEmail)
	m.SetHeader("To", s.cfg.ToEmail)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if msg.Attachment != "" {
		m.AttachReader(msg.AttachmentName, strings.NewReader(msg.Attachment))
	}

	if err := s.send(m); err != nil {
		return fmt.Errorf("failed to send report to %s: %w", s.cfg.ToEmail, err)
	}

	return nil
}
