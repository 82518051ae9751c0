package service

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPEmailSender is the plain SMTP alternative to Resend, selected by
// EMAIL_PROVIDER=smtp.
type SMTPEmailSender struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func NewSMTPEmailSender(host, port, username, password, from string) *SMTPEmailSender {
	return &SMTPEmailSender{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
	}
}

func (s *SMTPEmailSender) SendVerificationCode(ctx context.Context, email string, name string, code string) error {
	subject, html, _ := verificationEmail(name, code)
	return s.send(ctx, email, subject, html)
}

func (s *SMTPEmailSender) SendPasswordResetCode(ctx context.Context, email string, name string, code string) error {
	subject, html, _ := passwordResetEmail(name, code)
	return s.send(ctx, email, subject, html)
}

func (s *SMTPEmailSender) send(_ context.Context, to string, subject string, html string) error {
	if strings.TrimSpace(s.Host) == "" {
		return errors.New("email sender not configured")
	}
	var message strings.Builder
	fmt.Fprintf(&message, "From: %s\r\n", s.From)
	fmt.Fprintf(&message, "To: %s\r\n", to)
	fmt.Fprintf(&message, "Subject: %s\r\n", subject)
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	message.WriteString("\r\n")
	message.WriteString(html)

	addr := s.Host + ":" + s.Port
	auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
	return smtp.SendMail(addr, auth, s.From, []string{to}, []byte(message.String()))
}
