package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/weiwangfds/collegenotes/internal/errors"
	"github.com/weiwangfds/collegenotes/internal/i18n"
)

// RequestIDKey is the gin context key of the request id
const RequestIDKey = "request_id"

// ErrorBody error response body
// @Description error response body
type ErrorBody struct {
	// "fail" for client errors, "error" for server errors
	Status string `json:"status" example:"fail"`
	// localized message
	Message string `json:"message" example:"Note not found"`
	// offending fields of a validation error
	Fields []string `json:"fields,omitempty"`
	// request id for log correlation
	RequestID string `json:"request_id,omitempty" example:"0f8fad5b-d9cb-469f-a165-70867728950e"`
}

// MessageBody plain message body
// @Description message response body
type MessageBody struct {
	Message string `json:"message" example:"Note deleted successfully"`
}

// OK writes data as the raw JSON body with 200
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Message writes {"message": msg} with 200
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, MessageBody{Message: msg})
}

// WithTotal sets the X-Total-Count header and writes data with 200
func WithTotal(c *gin.Context, data interface{}, total int64) {
	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, data)
}

// Error writes the error body for err, localized by the Accept-Language header
func Error(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	lang := i18n.GetInstance().Negotiate(c.GetHeader("Accept-Language"))

	body := ErrorBody{
		Status:    appErr.Status(),
		Message:   appErr.LocalizedMessage(lang),
		RequestID: GetRequestID(c),
	}
	if appErr.Kind == apperrors.KindValidation {
		body.Fields = appErr.Fields
		if appErr.Details != "" {
			body.Message += ": " + appErr.Details
		}
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus(), body)
}

// GetRequestID returns the request id set by the request logger
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}
