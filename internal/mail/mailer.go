package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/meteormate/backend/internal/config"
	"github.com/meteormate/backend/internal/db"
)

// Mailer is the outbound email boundary. Delivery is fire-and-forget:
// failures are reported to the caller once and never retried here.
type Mailer interface {
	SendVerificationCode(ctx context.Context, email, code string) error
	SendInactivityNotice(ctx context.Context, email string, stage db.InactivityStage) error
}

// SMTPMailer sends plain-text notices through the configured SMTP relay.
type SMTPMailer struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host: cfg.SMTP.Host,
		port: cfg.SMTP.Port,
		user: cfg.SMTP.User,
		pass: cfg.SMTP.Password,
		from: cfg.SMTP.From,
	}
}

func (m *SMTPMailer) SendVerificationCode(_ context.Context, email, code string) error {
	subject := "Verify your MeteorMate account"
	body := fmt.Sprintf("Your MeteorMate verification code is %s. It expires in 10 minutes.", code)
	return m.send(email, subject, body)
}

func (m *SMTPMailer) SendInactivityNotice(_ context.Context, email string, stage db.InactivityStage) error {
	var subject, body string
	switch stage {
	case db.StageOneMonth:
		subject = "We miss you at MeteorMate!"
		body = "Your MeteorMate account will be marked inactive in 1 month if you don't sign in. " +
			"Once inactive, your profile won't be shown to potential roommates until you log back in."
	case db.StageOneWeek:
		subject = "Your profile goes inactive in 1 week"
		body = "Your MeteorMate account will be marked inactive in 1 week if you don't sign in. " +
			"Once inactive, your profile won't be shown to potential roommates until you log back in."
	case db.StageInactive:
		subject = "Your MeteorMate account is now inactive"
		body = "Your MeteorMate account has been marked inactive. Sign back in any time to " +
			"reappear in roommate searches."
	default:
		return fmt.Errorf("unknown inactivity stage %q", stage)
	}
	return m.send(email, subject, body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.from, to, subject, body)
	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// LogMailer logs instead of sending; used in development and tests.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) SendVerificationCode(_ context.Context, email, code string) error {
	m.Logger.Info("verification code (not sent)", "email", email, "code", code)
	return nil
}

func (m *LogMailer) SendInactivityNotice(_ context.Context, email string, stage db.InactivityStage) error {
	m.Logger.Info("inactivity notice (not sent)", "email", email, "stage", string(stage))
	return nil
}
