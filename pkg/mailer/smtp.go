package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/meditrack/internal/email"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// dialer is the part of *gomail.Dialer the sender needs.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender implements email.Service over SMTP.
type SMTPSender struct {
	dialer   dialer
	from     string
	fromName string
}

func NewSMTPSender(cfg Config) *SMTPSender {
	return &SMTPSender{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

func (s *SMTPSender) SendMedicineRequestNotificationToBHW(ctx context.Context, to, bhwName, residentName, medicineName string) error {
	msg, err := email.RenderMedicineRequest(to, bhwName, residentName, medicineName)
	if err != nil {
		return err
	}
	return s.send(ctx, msg)
}

func (s *SMTPSender) send(ctx context.Context, msg *email.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
	}
	if msg.HTML != "" {
		if msg.Text != "" {
			m.AddAlternative("text/html", msg.HTML)
		} else {
			m.SetBody("text/html", msg.HTML)
		}
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}
	return nil
}

// NoopSender sends nothing and reports email.ErrDisabled. Used when SMTP is disabled.
type NoopSender struct{}

func (NoopSender) SendMedicineRequestNotificationToBHW(ctx context.Context, to, bhwName, residentName, medicineName string) error {
	return email.ErrDisabled
}

var (
	_ email.Service = (*SMTPSender)(nil)
	_ email.Service = NoopSender{}
)
