package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Logger middleware logs HTTP requests
func Logger(logger log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.Query()

		c.Next()

		// Session tokens stay out of the log.
		if query.Has("token") {
			query.Set("token", "redacted")
		}
		raw := query.Encode()

		if raw != "" {
			path = path + "?" + raw
		}

		status := c.Writer.Status()
		lvl := level.Info
		if status >= 500 {
			lvl = level.Error
		} else if status >= 400 {
			lvl = level.Warn
		}

		keyvals := []interface{}{
			"msg", "request",
			"method", c.Request.Method,
			"path", path,
			"client", c.ClientIP(),
			"status", status,
			"latency", time.Since(start),
		}
		if len(c.Errors) > 0 {
			keyvals = append(keyvals, "errors", c.Errors.String())
		}
		lvl(logger).Log(keyvals...)
	}
}
