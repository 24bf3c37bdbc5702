package domain

import (
	"time"

	"github.com/google/uuid"
)

// NewSubscriber is a validated signup that has not been persisted yet.
type NewSubscriber struct {
	Name  SubscriberName
	Email SubscriberEmail
}

// Register assigns the server-side identity, producing the record that gets
// stored. The timestamp is normalised to UTC. A zero Name or Email, which
// only arises when the parsers were bypassed, yields ErrIncompleteSubscriber.
func (n NewSubscriber) Register(id uuid.UUID, at time.Time) (Subscriber, error) {
	if n.Name.value == "" || n.Email.value == "" {
		return Subscriber{}, ErrIncompleteSubscriber
	}
	return Subscriber{
		id:           id,
		name:         n.Name,
		email:        n.Email,
		subscribedAt: at.UTC(),
	}, nil
}

// Subscriber is a registered mailing-list member. It can only be built from a
// NewSubscriber holding parsed values, so its name and email are always valid.
type Subscriber struct {
	id           uuid.UUID
	name         SubscriberName
	email        SubscriberEmail
	subscribedAt time.Time
}

func (s Subscriber) ID() uuid.UUID {
	return s.id
}

func (s Subscriber) Name() SubscriberName {
	return s.name
}

func (s Subscriber) Email() SubscriberEmail {
	return s.email
}

func (s Subscriber) SubscribedAt() time.Time {
	return s.subscribedAt
}
