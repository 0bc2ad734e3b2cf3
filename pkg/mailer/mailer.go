package mailer

import (
	"fmt"
	"html"
	"net/smtp"
	"strings"
	"time"

	"github.com/ikkim/tubemark-backend/config"
	"github.com/ikkim/tubemark-backend/pkg/logger"
)

// Mailer delivers account emails
type Mailer interface {
	SendPasswordReset(toEmail, resetLink string, ttl time.Duration) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpMailer struct {
	host     string
	port     string
	user     string
	password string
	send     sendFunc
}

// NewSMTPMailer returns a Mailer backed by an SMTP relay. Without credentials
// it runs in dev mode and only logs the message.
func NewSMTPMailer(cfg *config.MailConfig) Mailer {
	return &smtpMailer{
		host:     cfg.Host,
		port:     cfg.Port,
		user:     cfg.User,
		password: cfg.Password,
		send:     smtp.SendMail,
	}
}

func (m *smtpMailer) devMode() bool {
	return m.user == "" || m.password == ""
}

func (m *smtpMailer) SendPasswordReset(toEmail, resetLink string, ttl time.Duration) error {
	if m.devMode() {
		logger.Warn("[DEV MODE] SMTP not configured, password reset email not sent", map[string]interface{}{
			"to":   toEmail,
			"link": resetLink,
		})
		return nil
	}

	msg := buildMessage(m.user, toEmail, "[Tubemark] Password reset", passwordResetBody(resetLink, ttl))
	auth := smtp.PlainAuth("", m.user, m.password, m.host)

	if err := m.send(m.host+":"+m.port, auth, m.user, []string{toEmail}, msg); err != nil {
		logger.Error("Failed to send password reset email", err, map[string]interface{}{
			"to": toEmail,
		})
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	logger.Info("Password reset email sent", map[string]interface{}{
		"to": toEmail,
	})
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	return []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		from, to, subject, body,
	))
}

func passwordResetBody(resetLink string, ttl time.Duration) string {
	link := html.EscapeString(resetLink)
	return fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; padding: 20px;">
	<div style="max-width: 600px; margin: 0 auto;">
		<h1>Reset your password</h1>
		<p>We received a request to reset the password for your Tubemark account.</p>
		<p><a href="%s">Choose a new password</a></p>
		<p>If the button does not work, paste this link into your browser:</p>
		<p style="word-break: break-all;">%s</p>
		<p>This link expires in %s. If you did not ask for a reset, ignore this email.</p>
	</div>
</body>
</html>
`, link, link, humanDuration(ttl))
}

func humanDuration(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		hours := int(d / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return strings.TrimSuffix(d.Round(time.Minute).String(), "0s")
}
