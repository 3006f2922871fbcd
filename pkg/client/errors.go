package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled")

	// ErrRequestFailed matches every *RequestError via errors.Is.
	ErrRequestFailed = errors.New("request failed")

	// ErrRateLimited is returned when the shared rate-limit gate rejects a request.
	ErrRateLimited = errors.New("request blocked by rate limiter")
)

// maxErrorBody bounds how much of a response body ends up in Error().
const maxErrorBody = 512

// RequestError is returned when the server answered with a non-2xx status.
type RequestError struct {
	StatusCode int
	ErrorClass ErrorClass
	Method     string
	Path       string
	Body       []byte
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	body := string(e.Body)
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody] + "..."
	}
	if e.Method != "" {
		return fmt.Sprintf("seats %s error (status %d) for %s %s: %s",
			e.ErrorClass, e.StatusCode, e.Method, e.Path, body)
	}
	return fmt.Sprintf("seats %s error (status %d): %s", e.ErrorClass, e.StatusCode, body)
}

// Is reports ErrRequestFailed as a match so callers need not type-assert.
func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

// ClassifyStatus maps an HTTP status code onto an ErrorClass.
// 2xx and 3xx codes have no class.
func ClassifyStatus(statusCode int) ErrorClass {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case statusCode >= 400 && statusCode < 500:
		return ErrorClassClient
	case statusCode >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// shouldRetry determines if an error should be retried based on its classification
// and the request method. Only 429 is retried for non-GET requests: the server
// rejected those before doing any work.
func shouldRetry(errorClass ErrorClass, method string) bool {
	switch errorClass {
	case ErrorClassClient:
		// 4xx errors will not succeed on a second attempt
		return false
	case ErrorClassRateLimit:
		return true
	case ErrorClassServer, ErrorClassNetwork:
		return method == http.MethodGet
	default:
		return false
	}
}
