package config

import (
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	Environment   string
	JWTSigningKey string
	JWTIssuer     string
	TokenTTL      time.Duration
	RefreshTTL    time.Duration

	// SeedDemo fills in-memory stores with a demo organization at boot.
	SeedDemo bool

	// TrustedProxies may set X-Forwarded-For. Empty means the peer address is
	// always the client.
	TrustedProxies []netip.Prefix

	DatabaseURL string
	Redis       RedisConfig
	Kafka       KafkaConfig
	Flespi      FlespiConfig
	Workers     WorkerConfig
	RateLimit   RateLimitConfig
}

// RedisConfig configures the shared redis client. An empty URL disables redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the audit producer. An empty broker list disables it.
type KafkaConfig struct {
	Brokers    string
	AuditTopic string
}

// FlespiConfig configures the telematics vendor client.
type FlespiConfig struct {
	BaseURL        string
	Token          string
	RequestsPerSec float64
	Burst          int
	Timeout        time.Duration
	ProtocolTTL    time.Duration
	SyncWorkers    int
}

// WorkerConfig configures background jobs.
type WorkerConfig struct {
	BanSyncInterval time.Duration
}

// RateLimitConfig bounds request rates and failed sign-ins. Zero values keep
// the rate limiter defaults.
type RateLimitConfig struct {
	AuthPerMinute   int
	ReadPerMinute   int
	WritePerMinute  int
	LockoutAttempts int
	LockoutWindow   time.Duration
	LockoutDuration time.Duration
	CleanupInterval time.Duration
}

// DevSigningKey is used when JWT_SIGNING_KEY is unset. Refused in production.
const DevSigningKey = "dev-secret-key-change-in-production"

var (
	TokenTTL   = 15 * time.Minute
	RefreshTTL = 30 * 24 * time.Hour
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = DevSigningKey
	}

	return Server{
		Addr:          envString("COLDCHAIN_ADDR", ":8080"),
		Environment:   envString("COLDCHAIN_ENV", "development"),
		JWTSigningKey: jwtSigningKey,
		JWTIssuer:     envString("JWT_ISSUER", "coldchain"),
		TokenTTL:      envDuration("TOKEN_TTL", TokenTTL),
		RefreshTTL:    envDuration("REFRESH_TTL", RefreshTTL),
		DatabaseURL:   os.Getenv("DATABASE_URL"),

		SeedDemo:       envBool("SEED_DEMO", false),
		TrustedProxies: envPrefixes("TRUSTED_PROXIES"),

		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:    os.Getenv("KAFKA_BROKERS"),
			AuditTopic: envString("KAFKA_AUDIT_TOPIC", "coldchain.audit"),
		},
		Flespi: FlespiConfig{
			BaseURL:        envString("FLESPI_BASE_URL", "https://flespi.io"),
			Token:          os.Getenv("FLESPI_TOKEN"),
			RequestsPerSec: envFloat("FLESPI_RPS", 5),
			Burst:          envInt("FLESPI_BURST", 10),
			Timeout:        envDuration("FLESPI_TIMEOUT", 10*time.Second),
			ProtocolTTL:    envDuration("FLESPI_PROTOCOL_TTL", time.Hour),
			SyncWorkers:    envInt("FLESPI_SYNC_WORKERS", 4),
		},
		Workers: WorkerConfig{
			BanSyncInterval: envDuration("BANSYNC_INTERVAL", time.Minute),
		},
		RateLimit: RateLimitConfig{
			AuthPerMinute:   envInt("RATELIMIT_AUTH_PER_MINUTE", 0),
			ReadPerMinute:   envInt("RATELIMIT_READ_PER_MINUTE", 0),
			WritePerMinute:  envInt("RATELIMIT_WRITE_PER_MINUTE", 0),
			LockoutAttempts: envInt("SIGNIN_LOCKOUT_ATTEMPTS", 0),
			LockoutWindow:   envDuration("SIGNIN_LOCKOUT_WINDOW", 0),
			LockoutDuration: envDuration("SIGNIN_LOCKOUT_DURATION", 0),
			CleanupInterval: envDuration("RATELIMIT_CLEANUP_INTERVAL", time.Minute),
		},
	}
}

// IsProduction reports whether insecure development defaults must be rejected.
func (s Server) IsProduction() bool {
	return strings.EqualFold(s.Environment, "production")
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// envPrefixes reads comma separated CIDRs or addresses. Invalid entries are
// skipped.
func envPrefixes(key string) []netip.Prefix {
	var out []netip.Prefix
	for _, raw := range strings.Split(os.Getenv(key), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if p, err := netip.ParsePrefix(raw); err == nil {
			out = append(out, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(raw); err == nil {
			out = append(out, netip.PrefixFrom(a, a.BitLen()))
		}
	}
	return out
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
