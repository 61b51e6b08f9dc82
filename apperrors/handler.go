package apperrors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ErrorResponse is the standard error response structure
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "requestId"

// Respond writes err as a JSON error body. Errors that are not AppErrors are
// logged and reported as a generic internal failure.
func Respond(c *gin.Context, err error) {
	requestID := c.GetString(RequestIDKey)

	appErr, ok := AsAppError(err)
	if !ok {
		appErr = NewInternal(ErrCodeUnexpectedError, "An unexpected error occurred", err)
	}

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.Error().
			Err(appErr).
			Str("request_id", requestID).
			Str("code", appErr.Code).
			Str("path", c.FullPath()).
			Msg("request failed")
	}

	c.AbortWithStatusJSON(appErr.HTTPStatus, ErrorResponse{
		Error:     appErr.Code,
		Message:   appErr.Message,
		Detail:    appErr.Detail,
		RequestID: requestID,
	})
}
