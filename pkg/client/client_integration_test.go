//go:build integration

package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedisContainer creates a Redis container for integration testing.
func setupRedisContainer(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := redisContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := redisContainer.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		client.Close()
		redisContainer.Terminate(ctx)
	}

	return client, cleanup
}

func TestIntegration_FullRequestFlow(t *testing.T) {
	redisClient, cleanup := setupRedisContainer(t)
	defer cleanup()

	var requestsMade, conditionalRequests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestsMade.Add(1)

		if r.Header.Get("If-None-Match") != "" {
			conditionalRequests.Add(1)
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("ETag", `"page-1"`)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"items":[{"id":1}],"nextPageStartsAfter":null,"previousPageEndsBefore":null}`))
	}))
	defer server.Close()

	cfg := DefaultConfig(server.URL, "secret-key")
	cfg.Redis = redisClient
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer c.Close()

	ctx := context.Background()

	for i := 0; i < 3; i++ {
		resp, err := c.Get(ctx, "/workspaces", "pageSize=1")
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("request %d status = %d, want 200", i, resp.StatusCode)
		}
		if wantCached := i > 0; resp.FromCache != wantCached {
			t.Errorf("request %d FromCache = %v, want %v", i, resp.FromCache, wantCached)
		}
	}

	if requestsMade.Load() != 3 {
		t.Errorf("requests = %d, want 3", requestsMade.Load())
	}
	if conditionalRequests.Load() != 2 {
		t.Errorf("conditional requests = %d, want 2", conditionalRequests.Load())
	}
}

func TestIntegration_CacheScopedByCredentials(t *testing.T) {
	redisClient, cleanup := setupRedisContainer(t)
	defer cleanup()

	var conditionalRequests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") != "" {
			conditionalRequests.Add(1)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx := context.Background()
	for _, key := range []string{"account-a", "account-b"} {
		cfg := DefaultConfig(server.URL, key)
		cfg.Redis = redisClient
		c, err := New(cfg)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if _, err := c.Get(ctx, "/subaccounts", ""); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
	}

	if conditionalRequests.Load() != 0 {
		t.Errorf("conditional requests = %d, entries must not leak across accounts", conditionalRequests.Load())
	}
}

func TestIntegration_RateLimitSharedBetweenClients(t *testing.T) {
	redisClient, cleanup := setupRedisContainer(t)
	defer cleanup()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	newClient := func() *Client {
		cfg := DefaultConfig(server.URL, "shared-key")
		cfg.Redis = redisClient
		cfg.MaxRetries = 0
		cfg.MaxRateLimitWait = time.Second
		c, err := New(cfg)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		return c
	}

	ctx := context.Background()
	first := newClient()
	resp, err := first.Get(ctx, "/workspaces", "")
	if err != nil {
		t.Fatalf("first Get() error = %v", err)
	}
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("first status = %d, want 429", resp.StatusCode)
	}

	second := newClient()
	if _, err := second.Get(ctx, "/workspaces", ""); !errors.Is(err, ErrRateLimited) {
		t.Errorf("second Get() error = %v, want ErrRateLimited", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, the second client must not reach the server", calls.Load())
	}
}
