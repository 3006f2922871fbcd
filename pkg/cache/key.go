package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cached GET response.
type Key struct {
	// Path is the API path (e.g., "/events/concert-1/status-changes")
	Path string

	// QueryParams are the query parameters (e.g., {"after": "123"})
	QueryParams url.Values

	// Scope separates accounts and workspaces sharing one Redis.
	// Use ScopeFor; empty means unscoped.
	Scope string
}

// ScopeFor derives a non-reversible scope from the credentials of a client.
func ScopeFor(secretKey, workspaceKey string) string {
	sum := sha256.Sum256([]byte(secretKey + "\x00" + workspaceKey))
	return hex.EncodeToString(sum[:8])
}

// String generates a deterministic key string.
// Format: seats:path:query1=val1:query2=val2:scope=abc
//
// Example:
//
//	seats:charts/archived:pageSize=20:scope=1f2e3d4c5b6a7988
func (k Key) String() string {
	parts := []string{"seats"}

	path := strings.Trim(k.Path, "/")
	if path != "" {
		parts = append(parts, path)
	}

	// Query params sorted for determinism
	if len(k.QueryParams) > 0 {
		queryKeys := make([]string, 0, len(k.QueryParams))
		for key := range k.QueryParams {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			for _, value := range k.QueryParams[key] {
				parts = append(parts, fmt.Sprintf("%s=%s", key, url.QueryEscape(value)))
			}
		}
	}

	if k.Scope != "" {
		parts = append(parts, "scope="+k.Scope)
	}

	return strings.Join(parts, ":")
}
