package port

import "context"

// Mailer delivers transactional HTML email. Implementations are injected so
// tests can substitute a fake instead of reaching the Gmail API.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
