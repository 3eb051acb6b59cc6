package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	authmetrics "coldchain/internal/auth/metrics"
	authservice "coldchain/internal/auth/service"
	sessionstore "coldchain/internal/auth/store/session"
	userstore "coldchain/internal/auth/store/user"
	"coldchain/internal/auth/workers/cleanup"
	fleetmetrics "coldchain/internal/fleet/metrics"
	fleetservice "coldchain/internal/fleet/service"
	fleetmemory "coldchain/internal/fleet/store/memory"
	fleetpostgres "coldchain/internal/fleet/store/postgres"
	jwttoken "coldchain/internal/jwt_token"
	"coldchain/internal/org/adapters"
	orgmetrics "coldchain/internal/org/metrics"
	orgservice "coldchain/internal/org/service"
	membershipstore "coldchain/internal/org/store/membership"
	organizationstore "coldchain/internal/org/store/organization"
	"coldchain/internal/org/workers/bansync"
	"coldchain/internal/platform/config"
	ratelimitconfig "coldchain/internal/ratelimit/config"
	ratelimitmetrics "coldchain/internal/ratelimit/metrics"
	ratelimitmodels "coldchain/internal/ratelimit/models"
	"coldchain/internal/ratelimit/service/authlockout"
	"coldchain/internal/ratelimit/service/requestlimit"
	"coldchain/internal/ratelimit/store/bucket"
	"coldchain/internal/ratelimit/store/lockout"
	"coldchain/internal/seeder"
	ratelimitcleanup "coldchain/internal/ratelimit/workers/cleanup"
	"coldchain/internal/telematics/flespi"
	telematicsmetrics "coldchain/internal/telematics/metrics"
	telematicsservice "coldchain/internal/telematics/service"
	"coldchain/internal/telematics/store/catalog"
	"coldchain/internal/telematics/store/protocols"
	id "coldchain/pkg/domain"
	"coldchain/pkg/platform/circuit"
	"coldchain/pkg/platform/tx"
)

const catalogSyncTimeout = 2 * time.Minute

// refreshSessionStore is what both the auth service and the cleanup worker
// need from the refresh session backend.
type refreshSessionStore interface {
	authservice.SessionStore
	cleanup.SessionStore
}

// suspendableMemberships adds the bansync feed to the org membership store.
type suspendableMemberships interface {
	orgservice.MembershipStore
	bansync.SuspensionSource
}

// rateLimitBuckets serves request checks and the cleanup worker.
type rateLimitBuckets interface {
	requestlimit.BucketStore
	ratelimitcleanup.BucketStore
}

// fleetStore is the single fleet backend serving the service and validator.
type fleetStore interface {
	fleetservice.FleetSetStore
	fleetservice.ResourceStore
	fleetservice.ActiveSetFinder
	fleetservice.VehicleFinder
}

type modules struct {
	auth       *authservice.Service
	org        *orgservice.Service
	fleet      *fleetservice.Service
	validator  *fleetservice.Validator
	telematics *telematicsservice.Service
	limiter    *requestlimit.Service

	cleanup          *cleanup.CleanupService
	rateLimitCleanup *ratelimitcleanup.Service
	bansync     *bansync.Syncer
	syncCatalog bool
	infra       *infrastructure
}

func buildModules(cfg config.Server, infra *infrastructure, tokens *jwttoken.JWTService, reg prometheus.Registerer, log *slog.Logger) (*modules, error) {
	var (
		users       authservice.UserStore
		sessions    refreshSessionStore
		orgs        orgservice.OrganizationStore
		memberships suspendableMemberships
		fleetData   fleetStore
		runner      tx.Runner
		cache       telematicsservice.ProtocolCache
		buckets     rateLimitBuckets
	)
	if infra.pool != nil {
		db := infra.pool.DB()
		users = userstore.NewPostgres(db)
		orgs = organizationstore.NewPostgres(db)
		memberships = membershipstore.NewPostgres(db)
		fleetData = fleetpostgres.New(db)
		runner = infra.pool
	} else {
		users = userstore.New()
		orgs = organizationstore.NewInMemory()
		memberships = membershipstore.NewInMemory()
		fleetData = fleetmemory.New()
		runner = tx.NewMemoryRunner()
	}
	if infra.redis != nil {
		if err := reg.Register(infra.redis); err != nil {
			return nil, fmt.Errorf("register redis pool metrics: %w", err)
		}
		sessions = sessionstore.NewRedis(infra.redis.Client)
		cache = protocols.NewRedis(infra.redis.Client)
		buckets = bucket.NewRedis(infra.redis.Client)
	} else {
		sessions = sessionstore.New()
		cache = protocols.NewInMemory(clockwork.NewRealClock())
		buckets = bucket.NewInMemory(clockwork.NewRealClock())
	}

	limits := rateLimitConfig(cfg.RateLimit)
	rateLimitMetrics := ratelimitmetrics.New(reg)
	limiter, err := requestlimit.New(buckets,
		requestlimit.WithConfig(limits),
		requestlimit.WithMetrics(rateLimitMetrics),
		requestlimit.WithAuditLogger(infra.audit),
		requestlimit.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("create request limiter: %w", err)
	}
	lockouts := lockout.NewInMemory()
	guard, err := authlockout.New(lockouts,
		authlockout.WithConfig(limits.Lockout),
		authlockout.WithMetrics(rateLimitMetrics),
		authlockout.WithAuditLogger(infra.audit),
		authlockout.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("create sign-in lockout: %w", err)
	}

	// Sign-up accepts pending invitations, and org resolves identities through
	// auth, so the acceptor is bound once the org service exists.
	invitations := &invitationRelay{}
	authSvc := authservice.New(users, sessions, tokens,
		authservice.WithLogger(log),
		authservice.WithAuditLogger(infra.audit),
		authservice.WithMetrics(authmetrics.New(reg)),
		authservice.WithRefreshTTL(cfg.RefreshTTL),
		authservice.WithInvitationAcceptor(invitations),
		authservice.WithSignInGuard(guard),
	)
	orgSvc := orgservice.New(orgs, memberships, adapters.NewAuthUserDirectory(authSvc),
		orgservice.WithLogger(log),
		orgservice.WithAuditLogger(infra.audit),
		orgservice.WithMetrics(orgmetrics.New(reg)),
		orgservice.WithTx(runner),
	)
	invitations.bind(orgSvc)

	fleetMetrics := fleetmetrics.New(reg)
	fleetSvc := fleetservice.New(fleetData, fleetData,
		fleetservice.WithLogger(log),
		fleetservice.WithAuditLogger(infra.audit),
		fleetservice.WithMetrics(fleetMetrics),
		fleetservice.WithTx(runner),
	)
	validator := fleetservice.NewValidator(fleetData, fleetData,
		fleetservice.WithValidatorLogger(log),
		fleetservice.WithValidatorMetrics(fleetMetrics),
		fleetservice.WithValidatorTracer(infra.tracer),
	)

	telematicsMetrics := telematicsmetrics.New(reg)
	vendor := flespi.New(flespi.Config{
		BaseURL:        cfg.Flespi.BaseURL,
		Token:          cfg.Flespi.Token,
		RequestsPerSec: cfg.Flespi.RequestsPerSec,
		Burst:          cfg.Flespi.Burst,
		Timeout:        cfg.Flespi.Timeout,
	},
		flespi.WithBreaker(circuit.New("flespi",
			circuit.WithFailureThreshold(5),
			circuit.WithCooldown(30*time.Second),
		)),
		flespi.WithTracer(infra.tracer),
		flespi.WithMetrics(telematicsMetrics),
		flespi.WithLogger(log),
	)
	telematicsSvc := telematicsservice.New(vendor, cache, catalog.NewInMemory(), fleetSvc,
		telematicsservice.WithLogger(log),
		telematicsservice.WithAuditLogger(infra.audit),
		telematicsservice.WithMetrics(telematicsMetrics),
		telematicsservice.WithTracer(infra.tracer),
		telematicsservice.WithProtocolTTL(cfg.Flespi.ProtocolTTL),
		telematicsservice.WithSyncWorkers(cfg.Flespi.SyncWorkers),
	)

	cleanupSvc, err := cleanup.New(sessions, cleanup.WithCleanupLogger(log))
	if err != nil {
		return nil, fmt.Errorf("create session cleanup: %w", err)
	}
	rateLimitCleanup, err := ratelimitcleanup.New(buckets, lockouts,
		ratelimitcleanup.WithInterval(cfg.RateLimit.CleanupInterval),
		ratelimitcleanup.WithLockoutWindow(limits.Lockout.Window),
		ratelimitcleanup.WithMetrics(rateLimitMetrics),
		ratelimitcleanup.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("create rate limit cleanup: %w", err)
	}
	syncer, err := bansync.New(memberships, authSvc,
		bansync.WithInterval(cfg.Workers.BanSyncInterval),
		bansync.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("create banned member sync: %w", err)
	}

	return &modules{
		auth:        authSvc,
		org:         orgSvc,
		fleet:       fleetSvc,
		validator:   validator,
		telematics:       telematicsSvc,
		limiter:          limiter,
		cleanup:          cleanupSvc,
		rateLimitCleanup: rateLimitCleanup,
		bansync:          syncer,
		syncCatalog:      cfg.Flespi.Token != "",
		infra:            infra,
	}, nil
}

// rateLimitConfig overlays configured limits on the rate limiter defaults.
func rateLimitConfig(rl config.RateLimitConfig) *ratelimitconfig.Config {
	out := ratelimitconfig.DefaultConfig()
	perMinute := func(limits map[ratelimitmodels.EndpointClass]ratelimitconfig.Limit, class ratelimitmodels.EndpointClass, n int) {
		if n > 0 {
			limits[class] = ratelimitconfig.Limit{Requests: n, Window: time.Minute}
		}
	}
	perMinute(out.IPLimits, ratelimitmodels.ClassAuth, rl.AuthPerMinute)
	perMinute(out.UserLimits, ratelimitmodels.ClassRead, rl.ReadPerMinute)
	perMinute(out.UserLimits, ratelimitmodels.ClassWrite, rl.WritePerMinute)
	if rl.LockoutAttempts > 0 {
		out.Lockout.Attempts = rl.LockoutAttempts
	}
	if rl.LockoutWindow > 0 {
		out.Lockout.Window = rl.LockoutWindow
	}
	if rl.LockoutDuration > 0 {
		out.Lockout.LockFor = rl.LockoutDuration
	}
	return out
}

// seedDemo fills the in-memory stores with a demo organization. Persistent
// deployments are never seeded.
func (m *modules) seedDemo(ctx context.Context, log *slog.Logger) error {
	if m.infra.pool != nil {
		log.Warn("SEED_DEMO ignored with a database configured")
		return nil
	}
	if _, err := seeder.New(m.auth, m.org, m.fleet, log).SeedAll(ctx); err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}
	return nil
}

// startWorkers runs the background jobs until ctx is cancelled. The returned
// channel closes once every job has returned.
func (m *modules) startWorkers(ctx context.Context, log *slog.Logger) <-chan struct{} {
	var wg sync.WaitGroup
	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info("worker started", "worker", name)
			if err := fn(ctx); err != nil && ctx.Err() == nil {
				log.Error("worker stopped", "worker", name, "error", err)
			}
		}()
	}

	run("session_cleanup", m.cleanup.Start)
	run("banned_member_sync", m.bansync.Start)
	run("rate_limit_cleanup", m.rateLimitCleanup.Start)
	if m.syncCatalog {
		run("telematics_catalog_sync", m.initialCatalogSync)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	return done
}

// initialCatalogSync fills the hardware catalog at boot so device types can be
// listed before an operator triggers a sync.
func (m *modules) initialCatalogSync(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, catalogSyncTimeout)
	defer cancel()
	_, err := m.telematics.SyncCatalog(ctx)
	return err
}

// invitationRelay forwards sign-up invitation acceptance to the org service.
type invitationRelay struct {
	mu  sync.RWMutex
	org authservice.InvitationAcceptor
}

func (r *invitationRelay) bind(org authservice.InvitationAcceptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.org = org
}

func (r *invitationRelay) AcceptPendingInvitations(ctx context.Context, userID id.UserID, email string) (int, error) {
	r.mu.RLock()
	org := r.org
	r.mu.RUnlock()
	if org == nil {
		return 0, nil
	}
	return org.AcceptPendingInvitations(ctx, userID, email)
}
