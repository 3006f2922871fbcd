// Package cache provides an ETag revalidation cache for GET responses of the
// seating API, backed by Redis.
//
// Entries are never served on their own. A stored entry only turns the next
// identical GET into a conditional request (If-None-Match or
// If-Modified-Since); when the server answers 304 Not Modified the stored body
// is returned instead. Repeated page fetches of an unchanged collection are
// therefore byte-identical and cheap.
//
// # Basic Usage
//
//	manager := cache.NewManager(redisClient, 10*time.Minute)
//
//	key := cache.Key{
//		Path:        "/charts/archived",
//		QueryParams: url.Values{"pageSize": []string{"20"}},
//		Scope:       cache.ScopeFor(secretKey, workspaceKey),
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// plain request
//	}
//	if cache.ShouldMakeConditionalRequest(entry) {
//		cache.AddConditionalHeaders(req, entry)
//	}
//
// # Metrics
//
//   - seats_cache_hits_total{layer="redis"} - Cache hits
//   - seats_cache_misses_total - Cache misses
//   - seats_cache_size_bytes{layer="redis"} - Bytes written to the cache
//   - seats_304_responses_total - Conditional request successes
//   - seats_conditional_requests_total - Conditional requests sent
//   - seats_cache_errors_total{operation} - Cache operation errors
package cache
