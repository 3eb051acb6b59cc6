package main

import (
	"context"
	"fmt"
	"log/slog"

	"coldchain/internal/platform/config"
	"coldchain/internal/platform/database"
	"coldchain/internal/platform/health"
	"coldchain/internal/platform/kafka/producer"
	redisclient "coldchain/internal/platform/redis"
	"coldchain/internal/platform/tracer"
	"coldchain/migrations"
	"coldchain/pkg/platform/audit"
	"coldchain/pkg/platform/audit/publisher"
	kafkastore "coldchain/pkg/platform/audit/store/kafka"
	memorystore "coldchain/pkg/platform/audit/store/memory"
)

const auditBufferSize = 1024

// infrastructure holds the shared clients. Optional backends are nil when
// their configuration is empty and modules fall back to in-memory stores.
type infrastructure struct {
	pool      *database.Pool
	redis     *redisclient.Client
	producer  *producer.Producer
	publisher *publisher.Publisher
	audit     *audit.Logger
	tracer    tracer.Tracer
	checks    map[string]health.CheckFunc
	log       *slog.Logger
}

func buildInfra(ctx context.Context, cfg config.Server, log *slog.Logger) (*infrastructure, error) {
	infra := &infrastructure{
		tracer: tracer.NewOTel(),
		checks: make(map[string]health.CheckFunc),
		log:    log,
	}

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if pool != nil {
		infra.pool = pool
		if err := migrations.Up(ctx, pool.DB()); err != nil {
			infra.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		infra.checks["postgres"] = pool.Health
		log.Info("postgres connected")
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	rc, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		infra.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	if rc != nil {
		infra.redis = rc
		infra.checks["redis"] = rc.Health
		log.Info("redis connected")
	}

	var auditStore audit.Store
	if cfg.Kafka.Brokers != "" {
		p, err := producer.New(producer.DefaultConfig(cfg.Kafka.Brokers), log)
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("create kafka producer: %w", err)
		}
		infra.producer = p
		infra.checks["kafka"] = p.Health
		auditStore = kafkastore.New(p, cfg.Kafka.AuditTopic)
		log.Info("audit events published to kafka", "topic", cfg.Kafka.AuditTopic)
	} else {
		auditStore = memorystore.NewInMemoryStore()
	}
	infra.publisher = publisher.NewPublisher(auditStore,
		publisher.WithAsyncBuffer(auditBufferSize),
		publisher.WithPublisherLogger(log),
	)
	infra.audit = audit.NewLogger(log, infra.publisher)

	return infra, nil
}

// Close releases clients in reverse order of construction. The audit
// publisher drains before the producer closes.
func (i *infrastructure) Close() {
	if i.publisher != nil {
		i.publisher.Close()
	}
	if i.producer != nil {
		if err := i.producer.Close(); err != nil {
			i.log.Error("close kafka producer", "error", err)
		}
	}
	if i.redis != nil {
		if err := i.redis.Close(); err != nil {
			i.log.Error("close redis", "error", err)
		}
	}
	if i.pool != nil {
		if err := i.pool.Close(); err != nil {
			i.log.Error("close postgres", "error", err)
		}
	}
}
