package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"holdops/internal/domain"
	"holdops/internal/middleware"
	"holdops/internal/report"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta holds list metadata.
type Meta struct {
	Total int `json:"total"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondList sends a 200 success response with the item count.
func RespondList(c *gin.Context, data interface{}, total int) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &Meta{Total: total}})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrUnknownCompany):
		return http.StatusNotFound, "UNKNOWN_COMPANY", "unknown company"
	case errors.Is(err, domain.ErrInvalidReportKind),
		errors.Is(err, domain.ErrInvalidAgingSide),
		errors.Is(err, domain.ErrInvalidYear),
		errors.Is(err, domain.ErrInvalidMonth),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidKey),
		errors.Is(err, domain.ErrInvalidValue),
		errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrExportFormat),
		errors.Is(err, domain.ErrEmptyMessage):
		return http.StatusBadRequest, "INVALID_REQUEST", err.Error()
	case errors.Is(err, domain.ErrNoRecipients):
		return http.StatusBadRequest, "NO_RECIPIENTS", "no digest recipients configured or given"
	case errors.Is(err, domain.ErrMissingCredentials):
		return http.StatusFailedDependency, "ACCOUNTING_NOT_CONNECTED", "accounting credentials are missing or expired for this company"
	case errors.Is(err, domain.ErrChatDisabled):
		return http.StatusServiceUnavailable, "CHAT_DISABLED", "chat is not configured"
	case errors.Is(err, domain.ErrSheetsDisabled):
		return http.StatusServiceUnavailable, "SHEETS_DISABLED", "spreadsheet export is not configured"
	case errors.Is(err, domain.ErrStorageDisabled):
		return http.StatusServiceUnavailable, "EXPORT_DISABLED", "export storage is not configured"
	case errors.Is(err, domain.ErrUpstreamRateLimited):
		return http.StatusTooManyRequests, "UPSTREAM_RATE_LIMITED", "upstream service is rate limiting requests; retry later"
	case errors.Is(err, report.ErrMalformed):
		return http.StatusBadGateway, "UPSTREAM_MALFORMED", "upstream returned a malformed report"
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "upstream service unavailable"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)

	var upErr *domain.UpstreamError
	if errors.As(err, &upErr) && upErr.RetryAfter > 0 {
		c.Header("Retry-After", strconv.Itoa(int(upErr.RetryAfter.Seconds())))
	}

	if status >= 500 {
		middleware.LoggerFrom(c).Error("request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	RespondError(c, status, code, msg)
}
