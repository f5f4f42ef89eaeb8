package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"aurabox/internal/model"
	"aurabox/internal/pkg/ctxutil"
	httpx "aurabox/internal/pkg/http"
	"aurabox/internal/pkg/jwt"
)

// Identity 身份解析中间件
// 没有 Authorization header 时按未登录访客处理；令牌无效或过期返回 401
// 解析结果以 model.Identity 注入 context，下游显式读取
func Identity(jwtUtil *jwt.JWT) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Request = c.Request.WithContext(ctxutil.WithIdentity(c.Request.Context(), model.NoIdentity()))
			c.Next()
			return
		}

		// 提取 Token（Bearer {token}）
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httpx.Abort(c, http.StatusUnauthorized, httpx.CodeInvalidAuthHeader, "Invalid authorization header")
			return
		}

		claims, err := jwtUtil.ValidateToken(parts[1])
		if err != nil {
			errorCode := httpx.CodeInvalidToken
			if errors.Is(err, jwt.ErrExpiredToken) {
				errorCode = httpx.CodeTokenExpired
			}
			httpx.Abort(c, http.StatusUnauthorized, errorCode, "Token无效或已过期")
			return
		}

		identity := model.AuthenticatedIdentity(claims.UserID)
		if claims.Anonymous {
			identity = model.AnonymousIdentity(claims.UserID)
		}

		c.Request = c.Request.WithContext(ctxutil.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}
