package auth

import (
	"aurabox/internal/service"
)

// Handler 认证处理器
// 令牌只用于区分游客与已登录用户，组件额度据此判断
type Handler struct {
	authService *service.AuthService
}

// NewHandler 创建认证处理器
func NewHandler(authService *service.AuthService) *Handler {
	return &Handler{
		authService: authService,
	}
}

// tokenResponse 转换令牌签发结果，匿名令牌不带用户信息
func tokenResponse(res *service.TokenResult) TokenResponseData {
	data := TokenResponseData{
		AccessToken: res.AccessToken,
		ExpiresIn:   res.ExpiresIn,
		TokenType:   res.TokenType,
		Anonymous:   res.Identity.IsGuest(),
	}
	if res.User != nil {
		info := toUserInfo(res.User)
		data.User = &info
	}
	return data
}
