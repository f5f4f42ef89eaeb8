package ctxutil

import (
	"context"

	"aurabox/internal/model"
)

// identityKeyType 使用私有类型避免与其他 context key 冲突
type identityKeyType struct{}

var identityKey = identityKeyType{}

// WithIdentity 将访问者身份注入到 context 中
// 说明：由认证中间件在解析 JWT 后调用，例如：
//
//	ctx := ctxutil.WithIdentity(c.Request.Context(), model.AuthenticatedIdentity(claims.UserID))
//	c.Request = c.Request.WithContext(ctx)
func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity 从 context 中解析访问者身份
// 未注入时返回未登录身份
func GetIdentity(ctx context.Context) model.Identity {
	if ctx == nil {
		return model.NoIdentity()
	}
	identity, ok := ctx.Value(identityKey).(model.Identity)
	if !ok {
		return model.NoIdentity()
	}
	return identity
}

// GetUserID 从 context 中解析 userID
// 返回值：
//   - string: 解析到的 userID
//   - bool  : 是否存在有效的 userID（匿名用户同样返回 true）
func GetUserID(ctx context.Context) (string, bool) {
	identity := GetIdentity(ctx)
	if identity.UserID == "" {
		return "", false
	}
	return identity.UserID, true
}
