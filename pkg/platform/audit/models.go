package audit

import (
	"context"
	"time"

	id "coldchain/pkg/domain"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp      time.Time `json:"timestamp"`
	UserID         id.UserID `json:"user_id"`
	OrganizationID string    `json:"organization_id,omitempty"`
	Subject        string    `json:"subject,omitempty"`
	Action         string    `json:"action"`
	Reason         string    `json:"reason,omitempty"`
	Email          string    `json:"email,omitempty"`
	RequestID      string    `json:"request_id,omitempty"`
}

type AuditEvent string

const (
	EventUserCreated          AuditEvent = "user_created"
	EventUserUpdated          AuditEvent = "user_updated"
	EventSessionCreated       AuditEvent = "session_created"
	EventSessionRevoked       AuditEvent = "session_revoked"
	EventSessionsRevoked      AuditEvent = "sessions_revoked"
	EventTokenRefreshed       AuditEvent = "token_refreshed"
	EventAuthFailed           AuditEvent = "auth_failed"
	EventOrganizationSwitched AuditEvent = "organization_switched"
	EventInvitationCreated    AuditEvent = "invitation_created"
	EventInvitationAccepted   AuditEvent = "invitation_accepted"
	EventMemberSuspended      AuditEvent = "member_suspended"
	EventFleetSetCreated      AuditEvent = "fleet_set_created"
	EventFleetSetUpdated      AuditEvent = "fleet_set_updated"
	EventFleetSetEnded        AuditEvent = "fleet_set_ended"
	EventDeviceProvisioned    AuditEvent = "device_provisioned"
	EventRateLimitExceeded    AuditEvent = "rate_limit_exceeded"
	EventSignInLocked         AuditEvent = "sign_in_locked"
)

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}
