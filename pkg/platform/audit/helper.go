package audit

import (
	"context"
	"log/slog"

	id "coldchain/pkg/domain"
	"coldchain/pkg/platform/privacy"
	"coldchain/pkg/requestcontext"
)

// Emitter is the interface for audit event emission.
// Satisfied by publisher.Publisher.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Logger provides structured audit logging with optional event emission.
type Logger struct {
	textLogger *slog.Logger
	emitter    Emitter
}

// NewLogger creates an audit logger. The emitter is optional.
func NewLogger(textLogger *slog.Logger, emitter Emitter) *Logger {
	return &Logger{
		textLogger: textLogger,
		emitter:    emitter,
	}
}

// Log writes an audit line and emits the matching Event. Known keys
// (user_id, organization_id, subject, reason, email) are lifted into the
// event; email is masked in both outputs.
//
// Usage:
//
//	logger.Log(ctx, audit.EventMemberSuspended, "user_id", userID.String(), "organization_id", orgID.String())
func (l *Logger) Log(ctx context.Context, event AuditEvent, attributes ...any) {
	if l == nil {
		return
	}
	attributes = maskEmail(attributes)
	requestID := requestcontext.RequestID(ctx)
	if requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}

	if l.textLogger != nil {
		args := append(attributes, "event", string(event), "log_type", "audit")
		l.textLogger.InfoContext(ctx, string(event), args...)
	}
	if l.emitter == nil {
		return
	}

	userIDStr := extractString(attributes, "user_id")
	userID, _ := id.ParseUserID(userIDStr) //nolint:errcheck // best-effort extraction for audit
	err := l.emitter.Emit(ctx, Event{
		UserID:         userID,
		OrganizationID: extractString(attributes, "organization_id"),
		Subject:        extractString(attributes, "subject"),
		Action:         string(event),
		Reason:         extractString(attributes, "reason"),
		Email:          extractString(attributes, "email"),
		RequestID:      requestID,
	})
	if err != nil && l.textLogger != nil {
		l.textLogger.ErrorContext(ctx, "failed to emit audit event",
			"error", err,
			"event", string(event),
		)
	}
}

func extractString(attributes []any, key string) string {
	for i := 0; i+1 < len(attributes); i += 2 {
		if k, ok := attributes[i].(string); ok && k == key {
			if v, ok := attributes[i+1].(string); ok {
				return v
			}
		}
	}
	return ""
}

func maskEmail(attributes []any) []any {
	out := make([]any, len(attributes))
	copy(out, attributes)
	for i := 0; i+1 < len(out); i += 2 {
		if k, ok := out[i].(string); ok && k == "email" {
			if v, ok := out[i+1].(string); ok {
				out[i+1] = privacy.MaskEmail(v)
			}
		}
	}
	return out
}
