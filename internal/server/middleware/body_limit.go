package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpx "aurabox/internal/pkg/http"
)

// BodyLimit 请求体大小上限
// 声明长度超限直接 413；长度未知（分块传输）时读取超过上限会返回 *http.MaxBytesError
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			httpx.Abort(c, http.StatusRequestEntityTooLarge, httpx.CodeBodyTooLarge, "Request body too large")
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
