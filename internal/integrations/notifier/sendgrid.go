package notifier

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailClient часть клиента SendGrid, которая нам нужна
type EmailClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridConfig настройки SendGrid
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// SendGridSender отправка подтверждения на email
type SendGridSender struct {
	client EmailClient
	from   *mail.Email
}

// NewSendGridSender создаёт отправителя с реальным клиентом
func NewSendGridSender(cfg SendGridConfig) *SendGridSender {
	return NewSendGridSenderWithClient(sendgrid.NewSendClient(cfg.APIKey), cfg.FromEmail, cfg.FromName)
}

// NewSendGridSenderWithClient создаёт отправителя поверх готового клиента
func NewSendGridSenderWithClient(client EmailClient, fromEmail, fromName string) *SendGridSender {
	return &SendGridSender{client: client, from: mail.NewEmail(fromName, fromEmail)}
}

// Channel email
func (s *SendGridSender) Channel() string {
	return ChannelEmail
}

// Send отправляет письмо с текстовой и html-версией
func (s *SendGridSender) Send(ctx context.Context, n Notification) error {
	if n.CustomerEmail == "" {
		return fmt.Errorf("%w: %s", ErrNoRecipient, ChannelEmail)
	}

	to := mail.NewEmail(n.CustomerName, n.CustomerEmail)
	message := mail.NewSingleEmail(s.from, EmailSubject(n), to, TextMessage(n), EmailHTML(n))

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("%w: email to=%s: %w", ErrSendFailed, n.CustomerEmail, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: email to=%s: status %d: %s", ErrSendFailed, n.CustomerEmail, resp.StatusCode, resp.Body)
	}

	return nil
}
