package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidReportKind   = errors.New("invalid report kind")
	ErrInvalidAgingSide    = errors.New("invalid aging side")
	ErrUnknownCompany      = errors.New("unknown company")
	ErrInvalidYear         = errors.New("invalid year")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidKey          = errors.New("invalid key")
	ErrInvalidValue        = errors.New("value must be valid JSON")
	ErrInvalidMonth        = errors.New("invalid month")
	ErrInvalidRange        = errors.New("invalid range")
	ErrExportFormat        = errors.New("unsupported export format")
	ErrMissingCredentials  = errors.New("accounting credentials missing")
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
	ErrUpstreamRateLimited = errors.New("upstream service rate limited")
	ErrNoRecipients        = errors.New("no digest recipients")
	ErrChatDisabled        = errors.New("chat is not configured")
	ErrSheetsDisabled      = errors.New("spreadsheet export is not configured")
	ErrStorageDisabled     = errors.New("export storage is not configured")
	ErrEmptyMessage        = errors.New("chat message is empty")
)

// UpstreamError describes a failed call to a third-party API.
type UpstreamError struct {
	Provider   string
	StatusCode int
	RetryAfter time.Duration
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s error (status %d, retry after %s): %s", e.Provider, e.StatusCode, e.RetryAfter, e.Body)
	}
	return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the call may succeed if repeated.
func (e *UpstreamError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// NewUpstreamError builds an UpstreamError for a non-2xx response. A 429
// without a usable Retry-After header waits 60s.
func NewUpstreamError(provider string, status int, body string, retryAfter string) *UpstreamError {
	e := &UpstreamError{Provider: provider, StatusCode: status, Body: truncate(body, 500), Err: ErrUpstreamUnavailable}
	if status == http.StatusTooManyRequests {
		e.Err = ErrUpstreamRateLimited
		secs := ParseRetryAfter(retryAfter)
		if secs <= 0 {
			secs = 60
		}
		e.RetryAfter = time.Duration(secs) * time.Second
	}
	return e
}

// ParseRetryAfter parses a Retry-After header value in seconds. Returns 0
// if the value is empty or not an integer.
func ParseRetryAfter(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
