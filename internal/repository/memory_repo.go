package repository

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"aurabox/internal/model"
)

// MemoryConversationRepo 进程内对话仓库
// 未配置 MongoDB 时使用，进程重启后数据丢失
type MemoryConversationRepo struct {
	mu    sync.RWMutex
	convs map[primitive.ObjectID]*model.Conversation
	now   func() time.Time
}

// NewMemoryConversationRepo 创建进程内对话仓库
func NewMemoryConversationRepo() *MemoryConversationRepo {
	return &MemoryConversationRepo{
		convs: make(map[primitive.ObjectID]*model.Conversation),
		now:   time.Now,
	}
}

// LoadLatest 实现 ConversationStore
func (r *MemoryConversationRepo) LoadLatest(_ context.Context, userID string) (*model.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *model.Conversation
	for _, conv := range r.convs {
		if conv.UserID != userID {
			continue
		}
		if latest == nil || conv.CreatedAt.After(latest.CreatedAt) ||
			(conv.CreatedAt.Equal(latest.CreatedAt) && conv.ID.Hex() > latest.ID.Hex()) {
			latest = conv
		}
	}
	if latest == nil {
		return nil, nil
	}
	return cloneConversation(latest), nil
}

// Save 实现 ConversationStore
func (r *MemoryConversationRepo) Save(_ context.Context, conv *model.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()

	if conv.IsNew() {
		conv.ID = primitive.NewObjectID()
		conv.Revision = 1
		conv.CreatedAt = now
		conv.UpdatedAt = now
		r.convs[conv.ID] = cloneConversation(conv)
		return nil
	}

	stored, ok := r.convs[conv.ID]
	if !ok || stored.Revision != conv.Revision {
		return ErrRevisionConflict
	}

	stored.Messages = append([]model.Message(nil), conv.Messages...)
	stored.Revision++
	stored.UpdatedAt = now

	conv.Revision = stored.Revision
	conv.UpdatedAt = now
	return nil
}

// Count 返回用户的对话文档数量
func (r *MemoryConversationRepo) Count(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, conv := range r.convs {
		if conv.UserID == userID {
			n++
		}
	}
	return n
}

func cloneConversation(conv *model.Conversation) *model.Conversation {
	out := *conv
	out.Messages = append([]model.Message(nil), conv.Messages...)
	return &out
}
