// Package client provides the HTTP transport for the seating API with
// authentication, retries, request listeners, and optional Redis-backed
// caching and rate limiting.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Sternrassler/seats-client/pkg/cache"
	"github.com/Sternrassler/seats-client/pkg/ratelimit"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for client operations.
var (
	seatsRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seats_requests_total",
		Help: "Total seating API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	seatsRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "seats_request_duration_seconds",
		Help:    "Seating API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	seatsErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seats_errors_total",
		Help: "Total seating API errors by class",
	}, []string{"class"})
)

// ErrorClass represents a classification of HTTP errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 Too Many Requests.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// DefaultUserAgent is sent when Config.UserAgent is empty.
const DefaultUserAgent = "seats-client-go"

// RequestListener observes every request the client performs.
// Both callbacks run synchronously on the calling goroutine.
type RequestListener interface {
	OnRequestStarted()
	OnRequestEnded()
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the API region, e.g. "https://api-eu.seatsio.net"
	BaseURL string

	// SecretKey authenticates the account (HTTP basic auth user name)
	SecretKey string

	// WorkspaceKey selects a workspace; sent as X-Workspace-Key when set
	WorkspaceKey string

	// UserAgent header
	UserAgent string

	// Timeout per HTTP attempt
	Timeout time.Duration

	// Retry
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// Redis enables the ETag cache and the shared rate limit gate. Optional.
	Redis *redis.Client

	// CacheRetention is how long cached GET responses stay revalidatable
	CacheRetention time.Duration

	// MaxRateLimitWait is the longest a request waits on the rate limit gate
	MaxRateLimitWait time.Duration

	// Listener is registered as if passed to SetRequestListener
	Listener RequestListener
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(baseURL, secretKey string) Config {
	return Config{
		BaseURL:          baseURL,
		SecretKey:        secretKey,
		UserAgent:        DefaultUserAgent,
		Timeout:          30 * time.Second,
		MaxRetries:       2,
		InitialBackoff:   400 * time.Millisecond,
		MaxBackoff:       10 * time.Second,
		CacheRetention:   cache.DefaultRetention,
		MaxRateLimitWait: ratelimit.DefaultMaxWait,
	}
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte

	// RequestID is the X-Request-Id sent with the request
	RequestID string

	// FromCache is true when a 304 was answered from the ETag cache
	FromCache bool

	method string
	path   string
}

// Err returns a *RequestError for non-2xx responses and nil otherwise.
func (r *Response) Err() error {
	if r.StatusCode >= 200 && r.StatusCode < 300 {
		return nil
	}
	return &RequestError{
		StatusCode: r.StatusCode,
		ErrorClass: ClassifyStatus(r.StatusCode),
		Method:     r.method,
		Path:       r.path,
		Body:       r.Body,
	}
}

// Client is the seating API transport.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	retry       RetryConfig
	rateLimiter *ratelimit.Tracker
	cache       *cache.Manager
	scope       string
	config      Config
	logger      zerolog.Logger

	mu       sync.RWMutex
	listener RequestListener
}

// New creates a new client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("secret key is required")
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("max_retries must be >= 0 (got %d)", cfg.MaxRetries)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	retry := DefaultRetryConfig()
	retry.MaxAttempts = cfg.MaxRetries + 1
	if cfg.InitialBackoff > 0 {
		retry.InitialBackoff = cfg.InitialBackoff
	}
	if cfg.MaxBackoff > 0 {
		retry.MaxBackoff = cfg.MaxBackoff
	}

	logger := log.With().Str("component", "seats-client").Logger()

	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		retry:    retry,
		scope:    cache.ScopeFor(cfg.SecretKey, cfg.WorkspaceKey),
		config:   cfg,
		logger:   logger,
		listener: cfg.Listener,
	}

	if cfg.Redis != nil {
		c.rateLimiter = ratelimit.NewTracker(cfg.Redis, logger, c.scope, cfg.MaxRateLimitWait)
		c.cache = cache.NewManager(cfg.Redis, cfg.CacheRetention)
	}

	return c, nil
}

// SetRequestListener registers the listener notified around every request.
// Passing nil removes it.
func (c *Client) SetRequestListener(l RequestListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listener = l
}

func (c *Client) currentListener() RequestListener {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.listener
}

// Do performs a request with rate limiting, caching, and retries.
// path is relative to the base URL and rawQuery is sent verbatim. A non-nil
// body is encoded as JSON. Non-2xx answers are returned as responses; use
// Response.Err to turn them into errors.
func (c *Client) Do(ctx context.Context, method, path, rawQuery string, body any) (*Response, error) {
	if l := c.currentListener(); l != nil {
		l.OnRequestStarted()
		defer l.OnRequestEnded()
	}

	requestID := uuid.NewString()
	logger := c.logger.With().
		Str("request_id", requestID).
		Str("method", method).
		Str("endpoint", path).
		Logger()

	startTime := time.Now()
	defer func() {
		seatsRequestDuration.WithLabelValues(path).Observe(time.Since(startTime).Seconds())
	}()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	// Conditional GET when a revalidatable entry exists
	var cacheKey cache.Key
	var cached *cache.Entry
	if c.cache != nil && method == http.MethodGet {
		query, _ := url.ParseQuery(rawQuery)
		cacheKey = cache.Key{Path: path, QueryParams: query, Scope: c.scope}

		entry, err := c.cache.Get(ctx, cacheKey)
		if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
			logger.Warn().Err(err).Msg("Cache get error")
		}
		cached = entry
	}

	logger.Debug().Msg("Executing seats request")

	var resp *Response
	retryErr := retryWithBackoff(ctx, c.retry, method, func() (ErrorClass, error) {
		resp = nil

		if c.rateLimiter != nil {
			if err := c.rateLimiter.Wait(ctx); err != nil {
				if errors.Is(err, ratelimit.ErrBlocked) {
					seatsRequestsTotal.WithLabelValues(path, "rate_limited").Inc()
					return "", fmt.Errorf("%w: %w", ErrRateLimited, err)
				}
				if ctx.Err() != nil {
					return "", err
				}
				logger.Warn().Err(err).Msg("Rate limit check failed - continuing")
			}
		}

		req, err := c.newRequest(ctx, method, path, rawQuery, payload, requestID)
		if err != nil {
			return "", err
		}
		if cached != nil {
			cache.AddConditionalHeaders(req, cached)
			cache.ConditionalRequestsSent.Inc()
		}

		httpResp, err := c.httpClient.Do(req)
		if err != nil {
			logger.Warn().Err(err).Msg("HTTP request failed")
			seatsErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			seatsRequestsTotal.WithLabelValues(path, "network_error").Inc()
			return ErrorClassNetwork, err
		}

		data, err := io.ReadAll(httpResp.Body)
		httpResp.Body.Close()
		if err != nil {
			seatsErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			return ErrorClassNetwork, fmt.Errorf("read response body: %w", err)
		}

		resp = &Response{
			StatusCode: httpResp.StatusCode,
			Header:     httpResp.Header,
			Body:       data,
			RequestID:  requestID,
			method:     method,
			path:       path,
		}
		seatsRequestsTotal.WithLabelValues(path, strconv.Itoa(resp.StatusCode)).Inc()

		if c.rateLimiter != nil {
			if err := c.rateLimiter.UpdateFromResponse(ctx, resp.StatusCode, resp.Header); err != nil {
				logger.Warn().Err(err).Msg("Failed to update rate limit state")
			}
		}

		if resp.StatusCode >= 400 {
			class := ClassifyStatus(resp.StatusCode)
			seatsErrorsTotal.WithLabelValues(string(class)).Inc()
			logger.Warn().
				Int("status", resp.StatusCode).
				Str("error_class", string(class)).
				Msg("Seats request error")
			return class, resp.Err()
		}
		return "", nil
	})

	if retryErr != nil {
		// A status error is handed back as the response itself
		if resp == nil || errors.Is(retryErr, ErrContextCancelled) {
			if errors.Is(retryErr, ErrRetryExhausted) {
				logger.Error().Err(retryErr).Msg("Seats request failed")
			}
			return nil, retryErr
		}
	}

	if resp.StatusCode == http.StatusNotModified && cached != nil {
		logger.Debug().Msg("304 Not Modified - using cache")
		cache.NotModifiedResponses.Inc()
		if err := c.cache.Touch(ctx, cacheKey); err != nil {
			logger.Warn().Err(err).Msg("Failed to extend cache entry")
		}
		return &Response{
			StatusCode: cached.StatusCode,
			Header:     cached.Headers,
			Body:       cached.Data,
			RequestID:  requestID,
			FromCache:  true,
			method:     method,
			path:       path,
		}, nil
	}

	if c.cache != nil && method == http.MethodGet {
		if entry := cache.NewEntry(resp.StatusCode, resp.Header, resp.Body, c.cache.Retention()); entry != nil {
			if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
				logger.Warn().Err(err).Msg("Failed to cache response")
			} else {
				logger.Debug().Str("etag", entry.ETag).Msg("Cached response")
			}
		}
	}

	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, method, path, rawQuery string, payload []byte, requestID string) (*http.Request, error) {
	target := c.baseURL + path
	if rawQuery != "" {
		target += "?" + rawQuery
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.SetBasicAuth(c.config.SecretKey, "")
	if c.config.WorkspaceKey != "" {
		req.Header.Set("X-Workspace-Key", c.config.WorkspaceKey)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// Get performs a GET request. It satisfies the pagination transport.
func (c *Client) Get(ctx context.Context, path, rawQuery string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, rawQuery, nil)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, "", body)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, "", nil)
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Cache returns the cache manager, or nil without Redis.
func (c *Client) Cache() *cache.Manager {
	return c.cache
}
