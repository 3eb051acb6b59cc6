// Package redis opens the shared go-redis client and reports its pool to
// Prometheus.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"coldchain/internal/platform/config"
)

// Client is the shared connection pool. It implements prometheus.Collector,
// reading pool statistics at scrape time.
type Client struct {
	*redis.Client
}

// Options turns cfg into go-redis options. Zero values keep the defaults
// parsed from the URL.
func Options(cfg config.RedisConfig) (*redis.Options, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	positive(&opts.PoolSize, cfg.PoolSize)
	positive(&opts.MinIdleConns, cfg.MinIdleConns)
	positive(&opts.DialTimeout, cfg.DialTimeout)
	positive(&opts.ReadTimeout, cfg.ReadTimeout)
	positive(&opts.WriteTimeout, cfg.WriteTimeout)
	return opts, nil
}

func positive[T int | time.Duration](dst *T, v T) {
	if v > 0 {
		*dst = v
	}
}

// New connects and pings. It returns nil, nil when no URL is configured.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opts, err := Options(cfg)
	if err != nil {
		return nil, err
	}
	c := redis.NewClient(opts)
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Client{Client: c}, nil
}

func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

var (
	poolRequests = prometheus.NewDesc("coldchain_redis_pool_requests_total",
		"Connection requests served by the pool, by outcome.", []string{"outcome"}, nil)
	poolConns = prometheus.NewDesc("coldchain_redis_pool_conns",
		"Connections held by the pool, by state.", []string{"state"}, nil)
)

func (c *Client) Describe(ch chan<- *prometheus.Desc) {
	ch <- poolRequests
	ch <- poolConns
}

func (c *Client) Collect(ch chan<- prometheus.Metric) {
	s := c.PoolStats()
	ch <- prometheus.MustNewConstMetric(poolRequests, prometheus.CounterValue, float64(s.Hits), "hit")
	ch <- prometheus.MustNewConstMetric(poolRequests, prometheus.CounterValue, float64(s.Misses), "miss")
	ch <- prometheus.MustNewConstMetric(poolRequests, prometheus.CounterValue, float64(s.Timeouts), "timeout")
	ch <- prometheus.MustNewConstMetric(poolConns, prometheus.GaugeValue, float64(s.IdleConns), "idle")
	ch <- prometheus.MustNewConstMetric(poolConns, prometheus.GaugeValue, float64(s.TotalConns-s.IdleConns), "in_use")
}
