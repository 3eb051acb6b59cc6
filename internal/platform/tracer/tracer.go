// Package tracer is a small tracing abstraction over OpenTelemetry.
//
// Services depend on the Tracer interface; production wiring uses OTelTracer
// and tests use NoopTracer.
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span. A non-nil err marks it failed. Call exactly once.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
//
// Example:
//
//	ctx, span := tr.Start(ctx, tracer.SpanFleetValidate,
//	    tracer.String(tracer.AttrOrganizationID, orgID.String()),
//	)
//	defer func() { span.End(err) }()
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// HashIdentifier returns a short SHA-256 prefix so emails and device idents
// can be correlated across traces without being recorded.
func HashIdentifier(v string) string {
	if v == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(v))
	return hex.EncodeToString(hash[:8])
}

const (
	SpanFleetValidate       = "fleet.validate"
	SpanFleetCreateSet      = "fleet.create_set"
	SpanOrgResolveSession   = "org.resolve_session"
	SpanFlespiCall          = "telematics.flespi.call"
	SpanTelematicsProvision = "telematics.provision_device"
	SpanTelematicsSync      = "telematics.catalog_sync"
	SpanTelematicsSearch    = "telematics.search_protocols"
)

const (
	AttrOrganizationID = "organization_id"
	AttrConflicts      = "conflicts"
	AttrDropAndHook    = "drop_and_hook"
	AttrCacheHit       = "cache.hit"
	AttrHTTPStatus     = "http.status_code"
	AttrFlespiPath     = "flespi.path"
	AttrDeviceIdent    = "device.ident_hash"
)
