package provider

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrMalformedResponse marks a 2xx reply without generated text.
var ErrMalformedResponse = errors.New("malformed response")

// ProviderError reports a failed upstream call. StatusCode is zero for
// transport failures and timeouts.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, truncate(e.Body, 500))
	}
	return fmt.Sprintf("%s API error: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// RateLimitError indicates a provider returned HTTP 429.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
	}
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}

// StatusError builds the error for a non-2xx upstream reply.
func StatusError(provider string, status int, body []byte, retryAfter string) error {
	pErr := &ProviderError{Provider: provider, StatusCode: status, Body: string(body)}
	if status == 429 {
		return NewRateLimitError(provider, pErr, ParseRetryAfterHeader(retryAfter))
	}
	return pErr
}

// TransportError wraps a request that never produced an HTTP reply.
func TransportError(provider string, err error) error {
	return &ProviderError{Provider: provider, Err: err}
}

// MalformedError wraps a 2xx reply that could not be interpreted.
func MalformedError(provider string, detail error) error {
	if detail == nil {
		return &ProviderError{Provider: provider, Err: ErrMalformedResponse}
	}
	return &ProviderError{Provider: provider, Err: fmt.Errorf("%w: %v", ErrMalformedResponse, detail)}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
