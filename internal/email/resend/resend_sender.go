package resend

import (
	"context"
	"fmt"

	resendsdk "github.com/resend/resend-go/v2"
	"go.uber.org/zap"

	"holdops/internal/domain"
	"holdops/internal/port"
)

type resendSender struct {
	client      *resendsdk.Client
	fromAddress string
	fromName    string
	log         *zap.Logger
}

// NewResendSender creates a Resend-backed EmailSender.
func NewResendSender(apiKey, fromAddress, fromName string, log *zap.Logger) port.EmailSender {
	return NewResendSenderWithClient(resendsdk.NewClient(apiKey), fromAddress, fromName, log)
}

// NewResendSenderWithClient wraps an existing Resend client.
func NewResendSenderWithClient(client *resendsdk.Client, fromAddress, fromName string, log *zap.Logger) port.EmailSender {
	return &resendSender{client: client, fromAddress: fromAddress, fromName: fromName, log: log}
}

func (s *resendSender) Send(ctx context.Context, email domain.Email) error {
	if len(email.To) == 0 {
		return domain.ErrNoRecipients
	}
	params := &resendsdk.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		Tags:    convertTags(email.Tags),
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		s.log.Error("resend: send failed", zap.Error(err), zap.Strings("to", email.To), zap.String("subject", email.Subject))
		return fmt.Errorf("resend send: %w", err)
	}
	s.log.Info("resend: email sent", zap.String("email_id", sent.Id), zap.Strings("to", email.To))
	return nil
}

func convertTags(tags map[string]string) []resendsdk.Tag {
	var out []resendsdk.Tag
	for name, value := range tags {
		out = append(out, resendsdk.Tag{Name: name, Value: value})
	}
	return out
}
