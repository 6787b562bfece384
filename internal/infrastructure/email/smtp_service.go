package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog/log"
)

const (
	ConfirmationSubject = "code"
	confirmationBody    = "confirmation_code = %s"
)

// Sender gửi một email plain-text tới một người nhận.
type Sender interface {
	Send(ctx context.Context, subject, body, recipient string) error
}

type smtpSender struct {
	smtpAddr string
	smtpFrom string
}

func NewSMTPSender(smtpHost, smtpPort, from string) Sender {
	return &smtpSender{
		smtpAddr: smtpHost + ":" + smtpPort,
		smtpFrom: from,
	}
}

func (s *smtpSender) Send(ctx context.Context, subject, body, recipient string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.smtpFrom, recipient, subject, body))

	if err := smtp.SendMail(s.smtpAddr, nil, s.smtpFrom, []string{recipient}, msg); err != nil {
		log.Error().
			Err(err).
			Str("to", recipient).
			Str("smtp_addr", s.smtpAddr).
			Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// ConfirmationBody renders the confirmation code message.
func ConfirmationBody(code string) string {
	return fmt.Sprintf(confirmationBody, code)
}
