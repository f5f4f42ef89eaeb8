package model

// ErrorResponse 错误响应
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// QuotaExceededResponse 游客额度用尽，前端据此打开登录界面
type QuotaExceededResponse struct {
	Code         int    `json:"code"`
	Message      string `json:"message"`
	AuthRequired bool   `json:"auth_required"`
	Limit        int    `json:"limit"`
}

// QuotaInfo 游客额度
// Remaining 为 -1 表示不限
type QuotaInfo struct {
	Limit     int `json:"limit"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

// LauncherInfo 悬浮按钮状态
type LauncherInfo struct {
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	State    string   `json:"state"`
	Visible  bool     `json:"visible"`
	Viewport Viewport `json:"viewport"`
}

// SessionResponse 组件会话快照
type SessionResponse struct {
	ID           string       `json:"id"`
	Identity     Identity     `json:"identity"`
	Language     string       `json:"language"`
	TurnState    string       `json:"turn_state"`
	Loading      bool         `json:"loading"`
	CurrentIndex int          `json:"current_index"`
	Messages     []Message    `json:"messages"`
	PendingImage bool         `json:"pending_image"`
	Quota        QuotaInfo    `json:"quota"`
	Launcher     LauncherInfo `json:"launcher"`
}

// SendMessageResponse 一轮对话结果
type SendMessageResponse struct {
	UserMessage      Message   `json:"user_message"`
	AssistantMessage Message   `json:"assistant_message"`
	Fallback         bool      `json:"fallback"`
	CurrentIndex     int       `json:"current_index"`
	Quota            QuotaInfo `json:"quota"`
}

// LauncherEventResponse 悬浮按钮事件结果
// gesture: none / tap / drag；tap 表示对话面板已打开
type LauncherEventResponse struct {
	Gesture  string       `json:"gesture"`
	Launcher LauncherInfo `json:"launcher"`
}

// IndexResponse 消息导航结果
type IndexResponse struct {
	CurrentIndex int `json:"current_index"`
}
