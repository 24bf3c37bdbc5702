package subscription

import (
	"context"

	"github.com/ignite/newsletter/internal/domain"
)

// Repository defines the data access contract for subscribers.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Insert durably stores one subscriber as a single row write.
	Insert(ctx context.Context, sub domain.Subscriber) error
}

// Notifier sends a single transactional email. Implementations make one
// outbound request and do not retry.
type Notifier interface {
	Send(ctx context.Context, to domain.SubscriberEmail, subject, htmlBody, textBody string) error
}

// Renderer produces the welcome email for a newly registered subscriber.
type Renderer interface {
	RenderWelcome(name domain.SubscriberName) (subject, htmlBody, textBody string, err error)
}
