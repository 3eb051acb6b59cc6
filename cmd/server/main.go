package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandler "coldchain/internal/auth/handler"
	fleethandler "coldchain/internal/fleet/handler"
	jwttoken "coldchain/internal/jwt_token"
	orghandler "coldchain/internal/org/handler"
	"coldchain/internal/platform/config"
	"coldchain/internal/platform/health"
	"coldchain/internal/platform/logger"
	ratelimitmiddleware "coldchain/internal/ratelimit/middleware"
	ratelimitmodels "coldchain/internal/ratelimit/models"
	telematicshandler "coldchain/internal/telematics/handler"
	"coldchain/pkg/platform/middleware/auth"
	"coldchain/pkg/platform/middleware/metadata"
	"coldchain/pkg/platform/middleware/request"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// main wires infrastructure, the four backend modules and their background
// workers, then serves until SIGINT or SIGTERM.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	if cfg.IsProduction() && cfg.JWTSigningKey == config.DevSigningKey {
		return errors.New("JWT_SIGNING_KEY must be set in production")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("initializing coldchain",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
	)

	infra, err := buildInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer infra.Close()

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, "coldchain-api", cfg.TokenTTL)
	jwtService.SetEnv(cfg.Environment)

	reg := prometheus.DefaultRegisterer
	mods, err := buildModules(cfg, infra, jwtService, reg, log)
	if err != nil {
		return err
	}
	if cfg.SeedDemo {
		if err := mods.seedDemo(ctx, log); err != nil {
			return err
		}
	}

	router := newRouter(cfg, infra, mods, jwttoken.NewJWTServiceAdapter(jwtService), reg, log)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	workersDone := mods.startWorkers(ctx, log)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			stop()
			<-workersDone
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-workersDone

	log.Info("server stopped")
	return nil
}

func newRouter(cfg config.Server, infra *infrastructure, mods *modules, validator auth.JWTValidator, reg prometheus.Registerer, log *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(request.Recovery(log))
	r.Use(request.RequestID)
	r.Use(metadata.New(metadata.WithTrustedProxies(cfg.TrustedProxies)).Handler)
	r.Use(request.Logger(log))
	r.Use(request.Instrument(request.NewMetrics(reg)))
	r.Use(request.Timeout(requestTimeout))

	healthHandler := health.New(cfg.Environment)
	for name, check := range infra.checks {
		healthHandler.RegisterCheck(name, check)
	}
	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	authH := authhandler.New(mods.auth, log)
	orgH := orghandler.New(mods.org, log)
	fleetH := fleethandler.New(mods.fleet, mods.validator, log)
	telematicsH := telematicshandler.New(mods.telematics, log)
	limits := ratelimitmiddleware.New(mods.limiter, log)

	r.Group(func(r chi.Router) {
		r.Use(request.ContentTypeJSON)
		r.Use(limits.RateLimitIP(ratelimitmodels.ClassAuth))
		authH.Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(request.ContentTypeJSON)
		r.Use(auth.RequireAuth(validator, mods.auth, log))
		r.Use(limits.RateLimitUserByMethod())
		authH.RegisterProtected(r)
		orgH.Register(r)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireMembership(mods.org, log))
			fleetH.Register(r)
			telematicsH.Register(r)
		})
	})

	return r
}
