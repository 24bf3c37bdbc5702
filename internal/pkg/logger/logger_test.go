package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/newsletter/internal/config"
	"github.com/ignite/newsletter/internal/pkg/secret"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew_JSONWithRedaction(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.LogSettings{Level: "info", Format: "json", RedactPII: true}, &buf)

	log.WithFields(logrus.Fields{
		"subscriber_email": "ursula_le_guin@gmail.com",
		"subscriber_name":  "le guin",
		"token":            secret.New("super-secret"),
	}).WithError(errors.New("insert failed for bob@example.com")).Info("Adding a new subscriber")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "Adding a new subscriber", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "ur***@gmail.com", entry["subscriber_email"])
	assert.Equal(t, "le guin", entry["subscriber_name"])
	assert.Equal(t, secret.Redacted, entry["token"])
	assert.Equal(t, "insert failed for bo***@example.com", entry["error"])
	assert.Contains(t, entry, "time")
}

func TestNew_WithoutRedaction(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.LogSettings{Level: "debug", Format: "json"}, &buf)

	log.WithField("subscriber_email", "ursula_le_guin@gmail.com").Debug("visible")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "ursula_le_guin@gmail.com", entry["subscriber_email"])
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.LogSettings{Level: "warn", Format: "json"}, &buf)

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	log := New(config.LogSettings{Level: "chatty"}, &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.LogSettings{Level: "info", Format: "text", RedactPII: true}, &buf)

	log.Info("welcome sent to bob@example.com")
	assert.Contains(t, buf.String(), "bo***@example.com")
	assert.NotContains(t, buf.String(), "bob@example.com")
}

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"john.doe@example.com", "jo***@example.com"},
		{"ab@example.com", "***@example.com"},
		{"not-an-email", "***@***"},
		{"a@b@c", "***@***"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RedactEmail(tt.in), tt.in)
	}
}
