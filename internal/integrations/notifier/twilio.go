package notifier

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// MessageCreator часть клиента Twilio, которая нам нужна
type MessageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// TwilioConfig настройки Twilio
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	Channel    string // whatsapp или sms
}

// TwilioSender отправка через WhatsApp или SMS
type TwilioSender struct {
	client  MessageCreator
	from    string
	channel string
}

// NewTwilioSender создаёт отправителя с реальным REST-клиентом
func NewTwilioSender(cfg TwilioConfig) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   cfg.AccountSID,
		Password:   cfg.AuthToken,
		AccountSid: cfg.AccountSID,
	})
	return NewTwilioSenderWithClient(client.Api, cfg.FromNumber, cfg.Channel)
}

// NewTwilioSenderWithClient создаёт отправителя поверх готового клиента
func NewTwilioSenderWithClient(client MessageCreator, from, channel string) *TwilioSender {
	if channel != ChannelSMS {
		channel = ChannelWhatsApp
	}
	return &TwilioSender{client: client, from: from, channel: channel}
}

// Channel whatsapp или sms
func (s *TwilioSender) Channel() string {
	return s.channel
}

// Send отправляет подтверждение; клиент Twilio не принимает контекст,
// поэтому вызов выполняется в горутине и прерывается по ctx
func (s *TwilioSender) Send(ctx context.Context, n Notification) error {
	to := NormalizePhone(n.CustomerPhone)
	if to == "" {
		return fmt.Errorf("%w: %s", ErrNoRecipient, s.channel)
	}

	from := s.from
	if s.channel == ChannelWhatsApp {
		to = "whatsapp:" + to
		from = "whatsapp:" + from
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(TextMessage(n))

	done := make(chan error, 1)
	go func() {
		_, err := s.client.CreateMessage(params)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %s to=%s: %w", ErrSendFailed, s.channel, to, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %s to=%s: %w", ErrSendFailed, s.channel, to, ctx.Err())
	}
}
