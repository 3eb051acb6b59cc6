package models

import (
	"fmt"
	"strings"
	"time"
)

type EndpointClass string

const (
	// ClassAuth covers sign-up, sign-in and refresh.
	ClassAuth EndpointClass = "auth"
	// ClassRead covers authenticated GETs.
	ClassRead EndpointClass = "read"
	// ClassWrite covers authenticated mutations such as fleet set saves.
	ClassWrite EndpointClass = "write"
)

func (c EndpointClass) IsValid() bool {
	switch c {
	case ClassAuth, ClassRead, ClassWrite:
		return true
	}
	return false
}

type KeyPrefix string

const (
	KeyPrefixIP      KeyPrefix = "ip"
	KeyPrefixUser    KeyPrefix = "user"
	KeyPrefixLockout KeyPrefix = "lockout"
)

// Result is the outcome of one limit check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds, set only when denied
}

// Lockout tracks failed sign-ins for one email from one IP.
type Lockout struct {
	Key           string
	FailureCount  int
	LastFailureAt time.Time
	LockedUntil   *time.Time
}

func (l *Lockout) IsLocked(now time.Time) bool {
	return l != nil && l.LockedUntil != nil && now.Before(*l.LockedUntil)
}

// Key builds a bucket key. Segments are escaped so identifiers containing
// ':' cannot collide with a neighbouring bucket.
func Key(prefix KeyPrefix, identifier string, class EndpointClass) string {
	if class == "" {
		return fmt.Sprintf("%s:%s", prefix, escape(identifier))
	}
	return fmt.Sprintf("%s:%s:%s", prefix, escape(identifier), class)
}

// LockoutKey combines a normalized email with the caller IP.
func LockoutKey(email, ip string) string {
	return fmt.Sprintf("%s:%s:%s", KeyPrefixLockout, escape(strings.ToLower(strings.TrimSpace(email))), escape(ip))
}

// escape replaces '_' with "__" first, then ':' with "_c".
func escape(s string) string {
	s = strings.ReplaceAll(s, "_", "__")
	return strings.ReplaceAll(s, ":", "_c")
}

// RetryAfterSeconds rounds up the wait until resetAt.
func RetryAfterSeconds(now, resetAt time.Time) int {
	d := resetAt.Sub(now)
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
