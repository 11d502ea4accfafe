package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// Resend delivers mail through the Resend API.
type Resend struct {
	client *resend.Client
	from   string
	log    *slog.Logger
}

var _ Notifier = (*Resend)(nil)

func NewResend(apiKey, from string, logger *slog.Logger) *Resend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resend{
		client: resend.NewClient(apiKey),
		from:   from,
		log:    logger,
	}
}

func (m *Resend) SendCompletion(ctx context.Context, msg Completion) error {
	subject, html, err := RenderCompletion(msg)
	if err != nil {
		return err
	}
	return m.send(ctx, msg.To, subject, html)
}

func (m *Resend) SendOperatorSummary(ctx context.Context, msg OperatorSummary) error {
	subject, html, err := RenderOperatorSummary(msg)
	if err != nil {
		return err
	}
	return m.send(ctx, msg.To, subject, html)
}

func (m *Resend) send(ctx context.Context, to, subject, html string) error {
	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		m.log.Error("mail send failed", "to", to, "subject", subject, "error", err)
		return fmt.Errorf("send email: %w", err)
	}
	m.log.Info("mail sent", "to", to, "subject", subject, "email_id", sent.Id)
	return nil
}
