package noop

import (
	"context"

	"go.uber.org/zap"

	"holdops/internal/domain"
	"holdops/internal/port"
)

type noopSender struct {
	log *zap.Logger
}

// NewNoopSender creates an EmailSender that logs emails instead of sending them.
// Useful for development and testing.
func NewNoopSender(log *zap.Logger) port.EmailSender {
	return &noopSender{log: log}
}

func (s *noopSender) Send(_ context.Context, email domain.Email) error {
	s.log.Info("[noop-email] email not sent",
		zap.Strings("to", email.To),
		zap.String("subject", email.Subject),
		zap.Int("text_bytes", len(email.Text)),
		zap.Int("html_bytes", len(email.HTML)))
	return nil
}
