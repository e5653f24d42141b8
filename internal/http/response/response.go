package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/wedsite-backend/internal/domain/aggregates"
	apperr "github.com/yungbote/wedsite-backend/internal/pkg/errors"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// RespondServiceError maps service and aggregate errors onto HTTP statuses.
// Unclassified errors are logged by the request logger and reported as internal.
func RespondServiceError(c *gin.Context, err error) {
	status, code := Classify(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		RespondError(c, status, code, errors.New("internal error"))
		return
	}
	msg := err.Error()
	if domainagg.CodeOf(err) != "" {
		msg = domainagg.MessageOf(err)
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

// Classify returns the HTTP status and envelope code for err.
func Classify(err error) (int, string) {
	switch domainagg.CodeOf(err) {
	case domainagg.CodeValidation:
		return http.StatusBadRequest, "validation"
	case domainagg.CodeNotFound:
		return http.StatusNotFound, "not_found"
	case domainagg.CodeConflict:
		return http.StatusConflict, "conflict"
	case domainagg.CodeInvariantViolation:
		return http.StatusUnprocessableEntity, "invariant_violation"
	case domainagg.CodePreconditionFailed:
		return http.StatusPreconditionFailed, "precondition_failed"
	case domainagg.CodeRetryable:
		return http.StatusServiceUnavailable, "retryable"
	case domainagg.CodeInternal:
		return http.StatusInternalServerError, "internal"
	}
	switch {
	case errors.Is(err, apperr.ErrSiteLocked):
		return http.StatusUnauthorized, "site_locked"
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperr.ErrInvalidArgument):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict, "conflict"
	}
	return http.StatusInternalServerError, "internal"
}
