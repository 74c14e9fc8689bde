package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &rec))
	return rec
}

func TestNewDefault_InfoLevelSuppressesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewDefault(&buf, false)
	ctx := context.Background()

	log.Debug(ctx, "hidden")
	assert.Zero(t, buf.Len())

	log.Info(ctx, "shown", "path", "/tmp/vault.db")
	rec := lastRecord(t, &buf)
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "/tmp/vault.db", rec["path"])
}

func TestNewDefault_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewDefault(&buf, true)

	log.Debug(context.Background(), "verbose")
	rec := lastRecord(t, &buf)
	assert.Equal(t, "verbose", rec["msg"])
	assert.Equal(t, "DEBUG", rec["level"])
}

func TestSlogLogger_WithCarriesAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := NewDefault(&buf, false).With("component", "vault")

	log.Warn(context.Background(), "record unreadable")
	rec := lastRecord(t, &buf)
	assert.Equal(t, "vault", rec["component"])
	assert.Equal(t, "WARN", rec["level"])
}
