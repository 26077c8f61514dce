package mail

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Mailer delivers transactional email. Sends happen after the primary
// database write has committed; a delivery failure is logged by the caller
// and never fails the request.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// NewFromEnv builds a mailer from SMTP_* environment variables. Without an
// SMTP_HOST the mails are written to the server log instead, which keeps
// local development working without a mail account.
func NewFromEnv() Mailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return &LogMailer{}
	}

	port := 587
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			port = p
		}
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USERNAME")
	}

	return NewSMTPMailer(host, port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"), from)
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	return m.dialer.DialAndSend(msg)
}

// LogMailer writes mail to the log instead of sending it.
type LogMailer struct{}

func (m *LogMailer) Send(to, subject, htmlBody string) error {
	log.Printf("[mail] to=%s subject=%q body=%q", to, subject, htmlBody)
	return nil
}

func VerificationBody(name, code string) (subject, body string) {
	subject = "Verify your email"
	body = fmt.Sprintf(
		"<p>Hi %s,</p><p>Your verification code is <b>%s</b>. It expires in 24 hours.</p>",
		name, code,
	)
	return subject, body
}

func PasswordResetBody(name, resetLink string) (subject, body string) {
	subject = "Reset your password"
	body = fmt.Sprintf(
		"<p>Hi %s,</p><p>Click <a href=\"%s\">here</a> to reset your password. The link expires in 1 hour.</p>",
		name, resetLink,
	)
	return subject, body
}
