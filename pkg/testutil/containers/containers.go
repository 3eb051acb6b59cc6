//go:build integration

// Package containers starts the backing services the integration suites run
// against. Each service is started once per test binary and shared.
package containers

import (
	"sync"
	"testing"
)

// Manager hands out the shared fixtures.
type Manager struct {
	mu       sync.Mutex
	postgres *PostgresContainer
	redis    *RedisContainer
	kafka    *KafkaContainer
}

var shared = sync.OnceValue(func() *Manager { return &Manager{} })

// GetManager returns the process-wide manager.
func GetManager() *Manager {
	return shared()
}

// lazy returns *slot, filling it with boot(t) the first time.
func lazy[T any](m *Manager, t *testing.T, slot **T, boot func(*testing.T) *T) *T {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if *slot == nil {
		*slot = boot(t)
	}
	return *slot
}

// GetPostgres returns Postgres with every migration applied.
func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	return lazy(m, t, &m.postgres, NewPostgresContainer)
}

// GetRedis returns the shared Redis. Suites flush it between tests.
func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	t.Helper()
	return lazy(m, t, &m.redis, NewRedisContainer)
}

// GetKafka returns the broker backing the audit sink tests.
func (m *Manager) GetKafka(t *testing.T) *KafkaContainer {
	t.Helper()
	return lazy(m, t, &m.kafka, NewKafkaContainer)
}
