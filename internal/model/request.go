package model

// MountRequest 挂载组件请求
type MountRequest struct {
	Language string    `json:"language,omitempty"`
	Viewport *Viewport `json:"viewport,omitempty"`
}

// Viewport 视口尺寸
type Viewport struct {
	Width  float64 `json:"width" binding:"gte=0"`
	Height float64 `json:"height" binding:"gte=0"`
}

// SendMessageRequest 发送消息请求
// Image 为 data URI；未携带时使用已附加的待发送图片
type SendMessageRequest struct {
	Text    string `json:"text"`
	Image   string `json:"image,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// AttachImageRequest 附加图片请求（相机拍摄或文件选择）
type AttachImageRequest struct {
	Image string `json:"image" binding:"required"`
}

// SeekRequest 消息导航请求
type SeekRequest struct {
	Index *int `json:"index,omitempty"`
	Step  int  `json:"step,omitempty"`
}

// LanguageRequest 切换语言请求
type LanguageRequest struct {
	Language string `json:"language" binding:"required,oneof=en hi"`
}

// LauncherEventRequest 悬浮按钮指针事件
// type: down / move / up / resize
type LauncherEventRequest struct {
	Type     string    `json:"type" binding:"required,oneof=down move up resize"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Viewport *Viewport `json:"viewport,omitempty"`
}
