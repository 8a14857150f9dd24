package dto

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/quotevault/quotevault/internal/domain"
	"github.com/quotevault/quotevault/internal/platform/logging"
)

// MapDomainError maps a domain error to an HTTP status and error envelope.
// fallback is the operation-specific message used for storage and unknown
// failures, so internals never leak to clients.
func MapDomainError(err error, fallback string) (int, *ErrorResponse) {
	switch {
	case domain.IsValidation(err):
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return http.StatusBadRequest, FailWithErrors("Validation failed", ve.Violations)
		}

		return http.StatusBadRequest, Fail("Validation failed")

	case domain.IsNotFound(err):
		return http.StatusNotFound, Fail(err.Error())

	case domain.IsConflict(err):
		return http.StatusConflict, Fail(err.Error())

	default:
		return http.StatusInternalServerError, Fail(fallback)
	}
}

// HandleError writes the mapped error envelope, attaching the trace id when a
// span is recording and logging internal failures with full detail.
func HandleError(c *gin.Context, err error, fallback string) {
	status, resp := MapDomainError(err, fallback)

	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		resp.TraceID = span.SpanContext().TraceID().String()
	}

	if status == http.StatusInternalServerError {
		logger := logging.FromContext(c.Request.Context())
		logger.Error("internal error",
			"error", err.Error(),
			"trace_id", resp.TraceID,
		)
	}

	c.JSON(status, resp)
}

// NotFound writes a 404 envelope with the given message. Used where absence
// is signaled by a nil result rather than an error.
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Fail(message))
}

// BadRequest writes a 400 envelope for malformed requests.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Fail(message))
}
