// Package flespi is a thin client for the Flespi gateway REST API.
//
// Requests are rate limited client side and guarded by a circuit breaker so a
// vendor outage fails fast instead of tying up request goroutines.
package flespi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"coldchain/internal/platform/tracer"
	telematicsmetrics "coldchain/internal/telematics/metrics"
	"coldchain/internal/telematics/models"
	"coldchain/pkg/platform/circuit"
	"coldchain/pkg/platform/sentinel"
)

// maxResponseBytes bounds vendor responses; the full protocol catalog is well
// under this.
const maxResponseBytes = 8 << 20

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIError is a non-2xx response that is the caller's fault or a missing
// resource. Outages surface as sentinel.ErrUnavailable instead.
type APIError struct {
	Status int
	Reason string
}

func (e *APIError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("flespi: status %d", e.Status)
	}
	return fmt.Sprintf("flespi: status %d: %s", e.Status, e.Reason)
}

type Config struct {
	BaseURL        string
	Token          string
	RequestsPerSec float64
	Burst          int
	Timeout        time.Duration
	HTTPClient     HTTPDoer
}

type Client struct {
	baseURL string
	token   string
	http    HTTPDoer
	limiter *rate.Limiter
	breaker *circuit.Breaker
	tracer  tracer.Tracer
	metrics *telematicsmetrics.Metrics
	logger  *slog.Logger
}

type Option func(*Client)

func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Client) {
		if b != nil {
			c.breaker = b
		}
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}

func WithMetrics(m *telematicsmetrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func New(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst),
		breaker: circuit.New("flespi"),
		tracer:  tracer.NewNoop(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// envelope is the Flespi response wrapper.
type envelope[T any] struct {
	Result []T `json:"result"`
	Errors []struct {
		Code   int    `json:"code"`
		Reason string `json:"reason"`
	} `json:"errors"`
}

// ListProtocols returns every channel protocol.
func (c *Client) ListProtocols(ctx context.Context) ([]models.Protocol, error) {
	var env envelope[models.Protocol]
	if err := c.do(ctx, "protocols", http.MethodGet, "/gw/channel-protocols/all?fields=id,name,title", nil, &env); err != nil {
		return nil, err
	}
	return env.Result, nil
}

// ListDeviceTypes returns the hardware models that speak protocolID.
func (c *Client) ListDeviceTypes(ctx context.Context, protocolID int64) ([]models.DeviceType, error) {
	var env envelope[models.DeviceType]
	path := "/gw/channel-protocols/" + strconv.FormatInt(protocolID, 10) + "/device-types/all?fields=id,name,title"
	if err := c.do(ctx, "device_types", http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	for i := range env.Result {
		env.Result[i].ProtocolID = protocolID
	}
	return env.Result, nil
}

type deviceBody struct {
	Name          string            `json:"name"`
	DeviceTypeID  int64             `json:"device_type_id"`
	Configuration map[string]string `json:"configuration"`
}

type deviceResult struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	DeviceTypeID  int64             `json:"device_type_id"`
	Configuration map[string]string `json:"configuration"`
}

// CreateDevice registers a device. The vendor rejects duplicate idents with a
// 400 whose reason names the conflict.
func (c *Client) CreateDevice(ctx context.Context, spec models.DeviceSpec) (*models.Device, error) {
	body := []deviceBody{{
		Name:          spec.Name,
		DeviceTypeID:  spec.DeviceTypeID,
		Configuration: map[string]string{"ident": spec.Ident},
	}}
	var env envelope[deviceResult]
	if err := c.do(ctx, "create_device", http.MethodPost, "/gw/devices?fields=id,name,device_type_id,configuration", body, &env); err != nil {
		return nil, err
	}
	if len(env.Result) == 0 {
		return nil, fmt.Errorf("flespi: create device returned no result")
	}
	r := env.Result[0]
	return &models.Device{
		ID:           r.ID,
		Name:         r.Name,
		Ident:        r.Configuration["ident"],
		DeviceTypeID: r.DeviceTypeID,
	}, nil
}

func (c *Client) do(ctx context.Context, endpoint, method, path string, in, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanFlespiCall,
		tracer.String(tracer.AttrFlespiPath, endpoint),
	)
	defer func() { span.End(err) }()

	start := time.Now()
	outcome := "error"
	defer func() { c.metrics.ObserveVendorRequest(endpoint, outcome, start) }()

	if !c.breaker.Allow() {
		outcome = "rejected"
		return fmt.Errorf("flespi circuit open: %w", sentinel.ErrUnavailable)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		outcome = "throttled"
		return fmt.Errorf("flespi rate limit: %w", err)
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode flespi request: %w", err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build flespi request: %w", err)
	}
	req.Header.Set("Authorization", "FlespiToken "+c.token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.recordFailure(ctx)
		return fmt.Errorf("flespi %s: %v: %w", endpoint, err, sentinel.ErrUnavailable)
	}
	defer resp.Body.Close()
	span.SetAttributes(tracer.Int64(tracer.AttrHTTPStatus, int64(resp.StatusCode)))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.recordFailure(ctx)
		return fmt.Errorf("read flespi response: %v: %w", err, sentinel.ErrUnavailable)
	}

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		c.recordFailure(ctx)
		return fmt.Errorf("flespi %s: status %d: %w", endpoint, resp.StatusCode, sentinel.ErrUnavailable)
	}
	c.recordSuccess(ctx)

	if resp.StatusCode >= 300 {
		outcome = "rejected_by_vendor"
		return apiError(resp.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode flespi response: %w", err)
	}
	outcome = "ok"
	return nil
}

func apiError(status int, raw []byte) error {
	var env envelope[json.RawMessage]
	apiErr := &APIError{Status: status}
	if json.Unmarshal(raw, &env) == nil && len(env.Errors) > 0 {
		reasons := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			reasons = append(reasons, e.Reason)
		}
		apiErr.Reason = strings.Join(reasons, "; ")
	}
	return apiErr
}

func (c *Client) recordFailure(ctx context.Context) {
	if c.breaker.RecordFailure().Opened {
		c.metrics.IncrementBreakerTransition("open")
		c.logger.WarnContext(ctx, "flespi circuit opened", "breaker", c.breaker.Name())
	}
}

func (c *Client) recordSuccess(ctx context.Context) {
	if c.breaker.RecordSuccess().Closed {
		c.metrics.IncrementBreakerTransition("closed")
		c.logger.InfoContext(ctx, "flespi circuit closed", "breaker", c.breaker.Name())
	}
}

// IsNotFound reports whether err is a vendor 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
