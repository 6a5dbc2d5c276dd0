package port

import (
	"context"

	"holdops/internal/domain"
)

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	Send(ctx context.Context, email domain.Email) error
}
