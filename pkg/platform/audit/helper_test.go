package audit

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coldchain/pkg/requestcontext"
)

type recordingEmitter struct {
	events []Event
	err    error
}

func (r *recordingEmitter) Emit(_ context.Context, e Event) error {
	r.events = append(r.events, e)
	return r.err
}

func TestLoggerLiftsKnownFields(t *testing.T) {
	var buf bytes.Buffer
	emitter := &recordingEmitter{}
	l := NewLogger(slog.New(slog.NewJSONHandler(&buf, nil)), emitter)

	userID := uuid.New()
	ctx := requestcontext.WithRequestID(context.Background(), "req-7")
	l.Log(ctx, EventInvitationCreated,
		"user_id", userID.String(),
		"organization_id", "org-1",
		"email", "driver@coldchain.io",
	)

	require.Len(t, emitter.events, 1)
	got := emitter.events[0]
	assert.Equal(t, string(EventInvitationCreated), got.Action)
	assert.Equal(t, userID, uuid.UUID(got.UserID))
	assert.Equal(t, "org-1", got.OrganizationID)
	assert.Equal(t, "d***@coldchain.io", got.Email)
	assert.Equal(t, "req-7", got.RequestID)
	assert.NotContains(t, buf.String(), "driver@coldchain.io")
	assert.Contains(t, buf.String(), `"log_type":"audit"`)
}

func TestLoggerReportsEmitFailure(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.New(slog.NewTextHandler(&buf, nil)), &recordingEmitter{err: errors.New("sink down")})

	l.Log(context.Background(), EventFleetSetEnded, "subject", "fs-1")

	assert.Contains(t, buf.String(), "failed to emit audit event")
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() { l.Log(context.Background(), EventAuthFailed) })
}
