package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/newsletter/internal/domain"
)

func testSubscriber(t *testing.T) domain.Subscriber {
	t.Helper()
	name, err := domain.ParseSubscriberName("le guin")
	require.NoError(t, err)
	email, err := domain.ParseSubscriberEmail("ursula_le_guin@gmail.com")
	require.NoError(t, err)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	sub, err := domain.NewSubscriber{Name: name, Email: email}.Register(uuid.New(), at)
	require.NoError(t, err)
	return sub
}

var insertQuery = regexp.QuoteMeta("INSERT INTO subscriptions (id, email, name, subscribed_at)")

func TestSubscriptionRepo_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sub := testSubscriber(t)
	mock.ExpectExec(insertQuery).
		WithArgs(sub.ID(), "ursula_le_guin@gmail.com", "le guin", sub.SubscribedAt()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewSubscriptionRepo(db, time.Second)
	require.NoError(t, repo.Insert(context.Background(), sub))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepo_InsertAnnotatesSQLState(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	pqErr := &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}
	mock.ExpectExec(insertQuery).WillReturnError(pqErr)

	repo := NewSubscriptionRepo(db, 0)
	err = repo.Insert(context.Background(), testSubscriber(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlstate 23505 unique_violation")

	var got *pq.Error
	require.True(t, errors.As(err, &got))
	assert.Equal(t, pq.ErrorCode("23505"), got.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepo_InsertConnectionError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(insertQuery).WillReturnError(errors.New("connection refused"))

	repo := NewSubscriptionRepo(db, time.Second)
	err = repo.Insert(context.Background(), testSubscriber(t))
	require.Error(t, err)
	assert.Equal(t, "insert subscriber: connection refused", err.Error())
}

func TestSubscriptionRepo_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("down"))

	repo := NewSubscriptionRepo(db, time.Second)
	assert.NoError(t, repo.Ping(context.Background()))
	assert.Error(t, repo.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
