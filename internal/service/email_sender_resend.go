package service

import (
	"context"
	"errors"
	"strings"

	"github.com/resendlabs/resend-go"
)

// ResendEmailSender delivers codes through the Resend transactional API.
type ResendEmailSender struct {
	Client *resend.Client
	From   string
}

func NewResendEmailSender(apiKey string, from string) *ResendEmailSender {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return &ResendEmailSender{}
	}
	return &ResendEmailSender{
		Client: resend.NewClient(apiKey),
		From:   from,
	}
}

func (s *ResendEmailSender) SendVerificationCode(ctx context.Context, email string, name string, code string) error {
	subject, html, text := verificationEmail(name, code)
	return s.send(ctx, email, subject, html, text)
}

func (s *ResendEmailSender) SendPasswordResetCode(ctx context.Context, email string, name string, code string) error {
	subject, html, text := passwordResetEmail(name, code)
	return s.send(ctx, email, subject, html, text)
}

func (s *ResendEmailSender) send(_ context.Context, to string, subject string, html string, text string) error {
	if s.Client == nil {
		return errors.New("email sender not configured")
	}
	params := &resend.SendEmailRequest{
		From:    s.From,
		To:      []string{to},
		Subject: subject,
		Html:    html,
		Text:    text,
	}
	_, err := s.Client.Emails.Send(params)
	return err
}
