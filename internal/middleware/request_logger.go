package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/weiwangfds/collegenotes/internal/logger"
	"github.com/weiwangfds/collegenotes/internal/response"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// RequestLoggerConfig request logging options
type RequestLoggerConfig struct {
	SkipPaths   []string // paths that are not logged
	MaxBodySize int      // bytes of a JSON request body included in the log
	IncludeBody bool
}

// DefaultRequestLoggerConfig returns the default options
func DefaultRequestLoggerConfig() *RequestLoggerConfig {
	return &RequestLoggerConfig{
		SkipPaths:   []string{"/health", "/favicon.ico"},
		MaxBodySize: 4 << 10,
		IncludeBody: true,
	}
}

// RequestLogger assigns every request an id and writes one structured log line per request.
// An incoming X-Request-ID header is reused.
func RequestLogger(config ...*RequestLoggerConfig) gin.HandlerFunc {
	cfg := DefaultRequestLoggerConfig()
	if len(config) > 0 && config[0] != nil {
		cfg = config[0]
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(response.RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		var body interface{}
		if cfg.IncludeBody {
			body = readJSONBody(c, cfg.MaxBodySize)
		}

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		fields := logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"query":      c.Request.URL.RawQuery,
			"status":     status,
			"latency_ms": latency.Milliseconds(),
			"client_ip":  c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
			"resp_size":  c.Writer.Size(),
		}
		if body != nil {
			fields["body"] = body
		}
		if len(c.Errors) > 0 {
			fields["error"] = c.Errors.String()
		}

		entry := logger.WithFields(fields)
		switch {
		case status >= 500:
			entry.Error("request completed")
		case status >= 400:
			entry.Warn("request completed")
		default:
			entry.Info("request completed")
		}
	}
}

// readCloser replays the logged prefix before the unread body
type readCloser struct {
	io.Reader
	io.Closer
}

// readJSONBody reads at most maxSize bytes of a JSON body and restores it for the handler.
// Multipart uploads are never buffered.
func readJSONBody(c *gin.Context, maxSize int) interface{} {
	if c.Request.Body == nil || !strings.HasPrefix(c.ContentType(), "application/json") {
		return nil
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, int64(maxSize)+1))
	if err != nil {
		return map[string]string{"error": "failed to read request body"}
	}
	c.Request.Body = readCloser{
		Reader: io.MultiReader(bytes.NewReader(raw), c.Request.Body),
		Closer: c.Request.Body,
	}
	if len(raw) == 0 {
		return nil
	}
	if len(raw) > maxSize {
		return string(raw[:maxSize]) + "..."
	}

	var parsed interface{}
	if err := json.Unmarshal(raw, &parsed); err == nil {
		return parsed
	}
	return string(raw)
}
