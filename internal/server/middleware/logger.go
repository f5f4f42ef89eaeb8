package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"aurabox/internal/pkg/ctxutil"
)

// Logger 访问日志中间件
// 健康检查只在 debug 级别输出；query 不记录，避免 data URI 之类的大字段进入日志
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		event := accessEvent(c.FullPath(), status)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		identity := ctxutil.GetIdentity(c.Request.Context())
		event.
			Str("method", c.Request.Method).
			Str("route", route).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(requestIDKey)).
			Str("identity", string(identity.Kind)).
			Int("body_size", c.Writer.Size()).
			Msg("HTTP request")
	}
}

func accessEvent(route string, status int) *zerolog.Event {
	switch {
	case status >= 500:
		return log.Error()
	case status >= 400:
		return log.Warn()
	case route == "/health" || route == "/ready":
		return log.Debug()
	default:
		return log.Info()
	}
}
