package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	apperrors "github.com/weiwangfds/collegenotes/internal/errors"
	"github.com/weiwangfds/collegenotes/internal/logger"
	"github.com/weiwangfds/collegenotes/internal/response"
)

// ErrorHandler renders the last error a handler attached with c.Error.
// It is the only place that turns errors into HTTP responses.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		appErr := apperrors.From(err)

		entry := logger.WithFields(logrus.Fields{
			"request_id": response.GetRequestID(c),
			"kind":       appErr.Kind,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		})
		if appErr.HTTPStatus() >= http.StatusInternalServerError {
			entry.WithError(err).Error("request failed")
		} else {
			entry.WithError(err).Warn("request rejected")
		}

		if c.Writer.Written() {
			return
		}
		response.Error(c, appErr)
	}
}

// Recovery turns a panic into an UnhandledError response
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.WithFields(logrus.Fields{
			"request_id": response.GetRequestID(c),
			"path":       c.Request.URL.Path,
			"panic":      recovered,
		}).Error("panic recovered")
		response.Error(c, apperrors.Unhandled(fmt.Errorf("panic: %v", recovered)))
	})
}

// NoRoute answers unknown routes with the error body
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Error(c, apperrors.ErrRouteNotFound.WithDetails(c.Request.URL.Path))
	}
}
