package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/typegraph/internal/httputil"
	"github.com/persistorai/typegraph/internal/metrics"
	"github.com/persistorai/typegraph/internal/models"
	"github.com/persistorai/typegraph/internal/sparql"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeValidationError = "validation_error"
	ErrCodeNotFound        = "not_found"
	ErrCodeStorageDisabled = "storage_disabled"
	ErrCodeUpstream        = "upstream_error"
	ErrCodeUpstreamTimeout = "upstream_timeout"
	ErrCodeInternalError   = "internal_error"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// classifyError maps a service error to an HTTP status, error code, and client-safe message.
func classifyError(err error) (int, string, string) {
	switch {
	case errors.Is(err, models.ErrMissingName), errors.Is(err, models.ErrMissingNode),
		errors.Is(err, models.ErrTooLong):
		return http.StatusBadRequest, ErrCodeValidationError, err.Error()
	case errors.Is(err, models.ErrUnknownLookup):
		return http.StatusBadRequest, ErrCodeInvalidRequest, err.Error()
	case errors.Is(err, models.ErrRunNotFound):
		return http.StatusNotFound, ErrCodeNotFound, "run not found"
	case errors.Is(err, models.ErrStoreDisabled):
		return http.StatusNotImplemented, ErrCodeStorageDisabled, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeUpstreamTimeout, "knowledge graph query timed out"
	case errors.Is(err, sparql.ErrUpstream):
		return http.StatusBadGateway, ErrCodeUpstream, "knowledge graph endpoint failed"
	default:
		return http.StatusInternalServerError, ErrCodeInternalError, "internal server error"
	}
}

// respondServiceError logs err under action and writes the classified error response.
func respondServiceError(c *gin.Context, log *logrus.Logger, action string, err error) {
	status, code, message := classifyError(err)

	entry := log.WithError(err).WithField("request_id", c.GetString("request_id"))
	if status >= http.StatusInternalServerError {
		entry.Error(action)
	} else {
		entry.Debug(action)
	}

	respondError(c, status, code, message)
}
