package config

import (
	"time"

	"coldchain/internal/ratelimit/models"
)

// Limit is a sliding window allowance.
type Limit struct {
	Requests int
	Window   time.Duration
}

// LockoutConfig bounds failed sign-ins per email and IP.
type LockoutConfig struct {
	Attempts int           // failures tolerated inside Window
	Window   time.Duration // failures older than this are forgotten
	LockFor  time.Duration // hard lock once Attempts is reached
}

type Config struct {
	IPLimits   map[models.EndpointClass]Limit
	UserLimits map[models.EndpointClass]Limit
	Lockout    LockoutConfig
}

func DefaultConfig() *Config {
	return &Config{
		IPLimits: map[models.EndpointClass]Limit{
			models.ClassAuth: {Requests: 20, Window: time.Minute},
		},
		UserLimits: map[models.EndpointClass]Limit{
			models.ClassRead:  {Requests: 300, Window: time.Minute},
			models.ClassWrite: {Requests: 60, Window: time.Minute},
		},
		Lockout: LockoutConfig{
			Attempts: 5,
			Window:   15 * time.Minute,
			LockFor:  15 * time.Minute,
		},
	}
}

// IPLimit returns the per-IP limit for class. ok is false when the class is
// not limited per IP.
func (c *Config) IPLimit(class models.EndpointClass) (Limit, bool) {
	l, ok := c.IPLimits[class]
	return l, ok
}

func (c *Config) UserLimit(class models.EndpointClass) (Limit, bool) {
	l, ok := c.UserLimits[class]
	return l, ok
}
