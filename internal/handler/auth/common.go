package auth

import (
	"time"

	"aurabox/internal/model/auth"
	httpx "aurabox/internal/pkg/http"
)

// ErrorResponse 错误响应（所有API共用）
type ErrorResponse = httpx.ErrorResponse

// UserInfo 用户信息（用于响应，所有API共用）
type UserInfo struct {
	ID          string       `json:"id"`                      // 用户ID
	Username    string       `json:"username"`                // 用户名
	DisplayName string       `json:"display_name"`            // 展示名称
	Email       string       `json:"email"`                   // 邮箱
	Status      string       `json:"status"`                  // 状态：active/banned
	Profile     *UserProfile `json:"profile,omitempty"`       // 用户资料
	LastLoginAt string       `json:"last_login_at,omitempty"` // 最后登录时间
	CreatedAt   string       `json:"created_at,omitempty"`    // 创建时间
}

// UserProfile 用户资料（所有API共用）
type UserProfile struct {
	Nickname string `json:"nickname,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// TokenResponseData 令牌响应数据
type TokenResponseData struct {
	AccessToken string    `json:"access_token"`   // Access Token
	ExpiresIn   int       `json:"expires_in"`     // 过期时间（秒）
	TokenType   string    `json:"token_type"`     // Token类型：Bearer
	Anonymous   bool      `json:"anonymous"`      // 是否匿名
	User        *UserInfo `json:"user,omitempty"` // 用户信息（匿名登录时为空）
}

// toUserInfo 将User实体转换为UserInfo（所有API共用）
func toUserInfo(user *auth.User) UserInfo {
	info := UserInfo{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName(),
		Email:       user.Email,
		Status:      string(user.Status),
	}

	if user.Profile != nil {
		info.Profile = &UserProfile{
			Nickname: user.Profile.Nickname,
			Phone:    user.Profile.Phone,
		}
	}

	if user.LastLoginAt != nil {
		info.LastLoginAt = user.LastLoginAt.Format(time.RFC3339)
	}
	info.CreatedAt = user.CreatedAt.Format(time.RFC3339)

	return info
}
