package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fee-server/internal/utils/platformerrors"
)

// ErrorResponse represents an error response with platform error details
type ErrorResponse struct {
	Code      string `json:"code,omitempty"`
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// HandleError maps domain errors onto HTTP responses.
func HandleError(reqCtx *gin.Context, err error, message string) {
	var domainErr *platformerrors.PlatformError
	if errors.As(err, &domainErr) {
		statusCode := platformerrors.ErrorTypeToHTTPStatus(domainErr.GetErrorType())

		errorMessage := domainErr.Message
		if errorMessage == "" {
			errorMessage = message
		}

		reqCtx.AbortWithStatusJSON(statusCode, ErrorResponse{
			Code:      domainErr.GetUUID(),
			Error:     message,
			Details:   errorMessage,
			RequestID: domainErr.GetRequestID(),
		})
		return
	}

	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error:   message,
		Details: err.Error(),
	})
}
