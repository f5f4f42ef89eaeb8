package model

// IdentityKind 身份类型
type IdentityKind string

const (
	IdentityAbsent        IdentityKind = "absent"
	IdentityAnonymous     IdentityKind = "anonymous"
	IdentityAuthenticated IdentityKind = "authenticated"
)

// Identity 当前访问者身份（值对象）
// 由认证中间件解析后显式传入组件，组件本身不读取任何全局状态
type Identity struct {
	Kind   IdentityKind `json:"kind"`
	UserID string       `json:"user_id,omitempty"`
}

// NoIdentity 未登录访问者
func NoIdentity() Identity {
	return Identity{Kind: IdentityAbsent}
}

// AnonymousIdentity 匿名登录访问者
func AnonymousIdentity(userID string) Identity {
	return Identity{Kind: IdentityAnonymous, UserID: userID}
}

// AuthenticatedIdentity 已登录（非匿名）用户
func AuthenticatedIdentity(userID string) Identity {
	return Identity{Kind: IdentityAuthenticated, UserID: userID}
}

// IsGuest 未登录或匿名均视为游客
func (i Identity) IsGuest() bool {
	return i.Kind != IdentityAuthenticated || i.UserID == ""
}
