package usecase

import (
	"context"
	"fmt"
	"html"

	"go.uber.org/zap"

	"github.com/Velroxe/Khatri-College/internal/core/port"
)

// ContactService forwards public contact-form submissions to the configured
// admin mailbox.
type ContactService struct {
	mailer port.Mailer
	inbox  string
	logger *zap.Logger
}

// NewContactService constructs the contact-form service.
func NewContactService(mailer port.Mailer, inbox string, log *zap.Logger) *ContactService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ContactService{mailer: mailer, inbox: inbox, logger: log}
}

// Submit delivers a contact-form message. Fields are HTML-escaped since they
// are attacker-controlled and rendered in a mail client.
func (s *ContactService) Submit(ctx context.Context, name, phone, message string) error {
	subject := "Contact Form Submission"
	body := fmt.Sprintf(
		"<p><strong>Name:</strong> %s</p><p><strong>Phone:</strong> %s</p><p>%s</p>",
		html.EscapeString(name),
		html.EscapeString(phone),
		html.EscapeString(message),
	)

	if err := s.mailer.Send(ctx, s.inbox, subject, body); err != nil {
		s.logger.Error("contact form dispatch failed",
			zap.String("name", name),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}

	return nil
}
