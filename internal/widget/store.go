package widget

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"aurabox/internal/model"
	"aurabox/internal/pkg/id"
	"aurabox/internal/repository"
)

// Store 对话存储
// 本地消息列表是界面看到内容的唯一来源，远端读写失败只记日志
type Store struct {
	repo repository.ConversationStore
	loc  *time.Location
	now  func() time.Time

	mu       sync.RWMutex
	messages []model.Message
	index    int

	// 远端文档元数据，用于按修订号写回
	docID     primitive.ObjectID
	revision  int64
	createdAt time.Time

	persistMu sync.Mutex // 串行化同一会话的远端写入
}

// NewStore 创建对话存储
// repo 为 nil 时只保留本地对话
func NewStore(repo repository.ConversationStore, loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{
		repo:  repo,
		loc:   loc,
		now:   time.Now,
		index: -1,
	}
}

// Initialize 初始化对话
// 游客只放入欢迎语，不读远端；已登录用户加载最近一次创建的对话
func (s *Store) Initialize(ctx context.Context, identity model.Identity, greeting string) {
	s.mu.Lock()
	s.messages = []model.Message{s.newMessage(greeting, model.SenderAssistant)}
	s.index = 0
	s.docID = primitive.NilObjectID
	s.revision = 0
	s.createdAt = time.Time{}
	s.mu.Unlock()

	if identity.IsGuest() || s.repo == nil {
		return
	}

	logger := log.With().Str("user_id", identity.UserID).Logger()

	conv, err := s.repo.LoadLatest(ctx, identity.UserID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load conversation, starting from greeting")
		return
	}
	if conv == nil {
		logger.Debug().Msg("no previous conversation")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.docID = conv.ID
	s.revision = conv.Revision
	s.createdAt = conv.CreatedAt
	if len(conv.Messages) == 0 {
		return
	}

	messages := make([]model.Message, len(conv.Messages))
	for i, msg := range conv.Messages {
		msg.Timestamp = msg.Timestamp.In(s.loc)
		messages[i] = msg
	}
	s.messages = messages
	s.index = len(messages) - 1

	logger.Info().
		Str("conversation_id", conv.ID.Hex()).
		Int("messages", len(messages)).
		Msg("conversation restored")
}

// Append 追加消息，当前位置移到最后一条；唯一的修改操作
func (s *Store) Append(msg model.Message) model.Message {
	if msg.ID == "" {
		msg.ID = id.NewOrdered()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.now()
	}
	msg.Timestamp = msg.Timestamp.In(s.loc)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, msg)
	s.index = len(s.messages) - 1
	return msg
}

// Persist 把完整消息列表写回远端（仅已登录用户）
// 尽力而为：失败只记日志，不回滚本地追加
// 修订号冲突说明另一个会话已写过该文档，此时另起一个新文档，不覆盖对方
func (s *Store) Persist(ctx context.Context, identity model.Identity) {
	if identity.IsGuest() || s.repo == nil {
		return
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.RLock()
	conv := &model.Conversation{
		ID:        s.docID,
		UserID:    identity.UserID,
		Messages:  append([]model.Message(nil), s.messages...),
		Revision:  s.revision,
		CreatedAt: s.createdAt,
	}
	s.mu.RUnlock()

	logger := log.With().Str("user_id", identity.UserID).Logger()

	err := s.repo.Save(ctx, conv)
	if errors.Is(err, repository.ErrRevisionConflict) {
		logger.Warn().
			Str("conversation_id", conv.ID.Hex()).
			Int64("revision", conv.Revision).
			Msg("conversation changed remotely, forking into a new document")

		conv.ID = primitive.NilObjectID
		conv.Revision = 0
		conv.CreatedAt = time.Time{}
		err = s.repo.Save(ctx, conv)
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to persist conversation")
		return
	}

	s.mu.Lock()
	s.docID = conv.ID
	s.revision = conv.Revision
	s.createdAt = conv.CreatedAt
	s.mu.Unlock()
}

// Messages 消息列表副本
func (s *Store) Messages() []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Message(nil), s.messages...)
}

// Len 消息条数
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Index 当前消息位置
func (s *Store) Index() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Seek 跳到指定位置，越界时取最近的有效位置
func (s *Store) Seek(i int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = s.clampIndexLocked(i)
	return s.index
}

// Step 相对当前位置前后移动
func (s *Store) Step(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = s.clampIndexLocked(s.index + delta)
	return s.index
}

// DocumentID 远端文档 ID，尚未写入时为空
func (s *Store) DocumentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.docID.IsZero() {
		return ""
	}
	return s.docID.Hex()
}

func (s *Store) clampIndexLocked(i int) int {
	if len(s.messages) == 0 {
		return -1
	}
	return min(max(i, 0), len(s.messages)-1)
}

func (s *Store) newMessage(text string, sender model.Sender) model.Message {
	return model.Message{
		ID:        id.NewOrdered(),
		Text:      text,
		Sender:    sender,
		Timestamp: s.now().In(s.loc),
	}
}
