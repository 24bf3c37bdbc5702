package emailclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/pkg/secret"
)

func mustEmail(t *testing.T, raw string) domain.SubscriberEmail {
	t.Helper()
	e, err := domain.ParseSubscriberEmail(raw)
	require.NoError(t, err)
	return e
}

func newTestClient(t *testing.T, url string, timeout time.Duration) *Client {
	t.Helper()
	return NewClient(url, mustEmail(t, "newsletter@example.com"), secret.New("server-token"), timeout)
}

func TestClient_SendFiresExpectedRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/email", r.URL.Path)
		assert.Equal(t, "server-token", r.Header.Get(TokenHeader))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "newsletter@example.com", body["from"])
		assert.Equal(t, "ursula_le_guin@gmail.com", body["to"])
		assert.Equal(t, "Welcome!", body["subject"])
		assert.Equal(t, "<p>Hi</p>", body["html_body"])
		assert.Equal(t, "Hi", body["text_body"])

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, time.Second)
	err := c.Send(context.Background(), mustEmail(t, "ursula_le_guin@gmail.com"), "Welcome!", "<p>Hi</p>", "Hi")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_SendFailsOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, time.Second)
	err := c.Send(context.Background(), mustEmail(t, "a@example.com"), "s", "h", "t")

	var derr *DeliveryError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, http.StatusInternalServerError, derr.StatusCode)
	assert.Equal(t, "http", derr.Provider)
	assert.NotContains(t, err.Error(), "server-token")
	assert.Equal(t, int32(1), calls.Load(), "no retry")
}

func TestClient_SendTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	defer close(release)

	c := newTestClient(t, srv.URL, 50*time.Millisecond)
	err := c.Send(context.Background(), mustEmail(t, "a@example.com"), "s", "h", "t")

	var derr *DeliveryError
	require.True(t, errors.As(err, &derr))
	assert.Zero(t, derr.StatusCode)
}

func TestClient_BaseURLWithTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/email", r.URL.Path)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/api/", time.Second)
	assert.NoError(t, c.Send(context.Background(), mustEmail(t, "a@example.com"), "s", "h", "t"))
}
