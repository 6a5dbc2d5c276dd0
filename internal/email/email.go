// Package email selects the configured EmailSender.
package email

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"holdops/internal/config"
	"holdops/internal/email/noop"
	"holdops/internal/email/resend"
	"holdops/internal/email/ses"
	"holdops/internal/port"
)

// NewSender returns the sender named by cfg.Provider: ses, resend or noop.
func NewSender(ctx context.Context, cfg *config.EmailConfig, log *zap.Logger) (port.EmailSender, error) {
	switch cfg.Provider {
	case "ses":
		return ses.NewSESSender(ctx, cfg.Region, cfg.FromAddress, cfg.FromName)
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("email provider resend requires HOLDOPS_EMAIL_RESEND_API_KEY")
		}
		return resend.NewResendSender(cfg.ResendAPIKey, cfg.FromAddress, cfg.FromName, log), nil
	case "", "noop":
		return noop.NewNoopSender(log), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}
