package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sender 消息发送方
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// IsValid 检查发送方是否有效
func (s Sender) IsValid() bool {
	return s == SenderUser || s == SenderAssistant
}

// Conversation 对话实体
// 每个已登录用户可以有多个文档，组件挂载时只加载 created_at 最新的一个
type Conversation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Messages  []Message          `bson:"messages" json:"messages"`
	Revision  int64              `bson:"revision" json:"revision"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// IsNew 是否尚未写入远端
func (c *Conversation) IsNew() bool {
	return c.ID.IsZero()
}

// Message 消息
// Image 为 data URI，仅用户消息携带
type Message struct {
	ID        string    `bson:"id" json:"id"`
	Text      string    `bson:"text" json:"text"`
	Sender    Sender    `bson:"sender" json:"sender"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Image     string    `bson:"image,omitempty" json:"image,omitempty"`
	Caption   string    `bson:"caption,omitempty" json:"caption,omitempty"`
}
