package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/ignite/newsletter/internal/domain"
)

// SubscriptionRepo implements subscription.Repository against PostgreSQL.
type SubscriptionRepo struct {
	db      *sql.DB
	timeout time.Duration
}

// NewSubscriptionRepo creates a Postgres-backed subscriber repository. A
// positive timeout bounds every query.
func NewSubscriptionRepo(db *sql.DB, timeout time.Duration) *SubscriptionRepo {
	return &SubscriptionRepo{db: db, timeout: timeout}
}

func (r *SubscriptionRepo) Insert(ctx context.Context, sub domain.Subscriber) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscriptions (id, email, name, subscribed_at)
		VALUES ($1, $2, $3, $4)
	`, sub.ID(), sub.Email().String(), sub.Name().String(), sub.SubscribedAt())
	if err != nil {
		return annotate("insert subscriber", err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SubscriptionRepo) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.PingContext(ctx)
}

func (r *SubscriptionRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

// annotate wraps err with op and, for server-side errors, the SQLSTATE code.
func annotate(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("%s (sqlstate %s %s): %w", op, pqErr.Code, pqErr.Code.Name(), err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
