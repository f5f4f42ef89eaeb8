package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"aurabox/internal/ai"
	"aurabox/internal/model"
	"aurabox/internal/pkg/id"
	"aurabox/internal/repository"
	"aurabox/internal/widget"
)

var (
	ErrSessionNotFound     = errors.New("widget session not found")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// WidgetOptions 组件服务参数
type WidgetOptions struct {
	Session         widget.Config
	SessionTTL      time.Duration
	DefaultLanguage ai.Language
	Scheduler       widget.Scheduler
}

// WidgetService 组件会话服务
// 职责: 按挂载创建会话、按 ID 查找、卸载与过期清理
type WidgetService struct {
	completer widget.Completer
	repo      repository.ConversationStore
	opts      WidgetOptions

	mu       sync.RWMutex
	sessions map[string]*widget.Session
}

// NewWidgetService 创建组件会话服务
// repo 为 nil 时已登录用户也只保留本地对话
func NewWidgetService(completer widget.Completer, repo repository.ConversationStore, opts WidgetOptions) *WidgetService {
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = ai.DefaultLanguage
	}
	if repo != nil {
		repo = &sharedLoader{ConversationStore: repo}
	}
	return &WidgetService{
		completer: completer,
		repo:      repo,
		opts:      opts,
		sessions:  make(map[string]*widget.Session),
	}
}

// Mount 挂载组件：新会话、新额度、新悬浮按钮，已登录用户加载历史
func (s *WidgetService) Mount(ctx context.Context, identity model.Identity, req *model.MountRequest) (*widget.Session, error) {
	lang := s.opts.DefaultLanguage
	viewport := widget.DefaultViewport
	if req != nil {
		if req.Language != "" {
			parsed, ok := ai.ParseLanguage(req.Language)
			if !ok {
				return nil, ErrUnsupportedLanguage
			}
			lang = parsed
		}
		if req.Viewport != nil {
			viewport = widget.Viewport{Width: req.Viewport.Width, Height: req.Viewport.Height}
		}
	}

	params := widget.SessionParams{
		ID:        id.New(),
		Identity:  identity,
		Language:  lang,
		Viewport:  viewport,
		Config:    s.opts.Session,
		Completer: s.completer,
		Scheduler: s.opts.Scheduler,
	}
	if s.repo != nil {
		params.Repo = s.repo
	}

	session := widget.NewSession(params)
	session.Initialize(ctx)

	s.mu.Lock()
	s.sessions[session.ID()] = session
	count := len(s.sessions)
	s.mu.Unlock()

	log.Info().
		Str("session_id", session.ID()).
		Str("identity", string(identity.Kind)).
		Str("language", string(lang)).
		Int("active_sessions", count).
		Msg("widget mounted")

	return session, nil
}

// Get 查找会话；身份不一致视为不存在
func (s *WidgetService) Get(sessionID string, identity model.Identity) (*widget.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok || session.Identity() != identity {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Unmount 卸载会话，等待后台写入完成
func (s *WidgetService) Unmount(sessionID string, identity model.Identity) error {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok || session.Identity() != identity {
		s.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	session.Close()
	log.Info().Str("session_id", sessionID).Msg("widget unmounted")
	return nil
}

// Sweep 清理空闲超过 TTL 的会话，返回清理数量
func (s *WidgetService) Sweep(now time.Time) int {
	if s.opts.SessionTTL <= 0 {
		return 0
	}

	var expired []*widget.Session
	s.mu.Lock()
	for sid, session := range s.sessions {
		if now.Sub(session.LastActive()) > s.opts.SessionTTL {
			expired = append(expired, session)
			delete(s.sessions, sid)
		}
	}
	s.mu.Unlock()

	for _, session := range expired {
		session.Close()
	}
	if len(expired) > 0 {
		log.Info().Int("expired", len(expired)).Msg("idle widget sessions swept")
	}
	return len(expired)
}

// RunJanitor 定期清理空闲会话，直到 ctx 取消
func (s *WidgetService) RunJanitor(ctx context.Context) {
	if s.opts.SessionTTL <= 0 {
		return
	}

	interval := max(s.opts.SessionTTL/2, time.Second)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Sweep(now)
		}
	}
}

// Count 活跃会话数量
func (s *WidgetService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Shutdown 关闭所有会话
func (s *WidgetService) Shutdown() {
	s.mu.Lock()
	sessions := make([]*widget.Session, 0, len(s.sessions))
	for sid, session := range s.sessions {
		sessions = append(sessions, session)
		delete(s.sessions, sid)
	}
	s.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
	log.Info().Int("sessions", len(sessions)).Msg("widget sessions closed")
}

// sharedLoadTimeout 合并读取的上限，与单个挂载请求的生命周期无关
const sharedLoadTimeout = 15 * time.Second

// sharedLoader 同一用户并发挂载时只读一次远端
// 读取运行在脱离调用方的 ctx 上，某个挂载放弃等待不会让其他挂载失败
type sharedLoader struct {
	repository.ConversationStore
	group   singleflight.Group
	timeout time.Duration
}

func (l *sharedLoader) LoadLatest(ctx context.Context, userID string) (*model.Conversation, error) {
	timeout := l.timeout
	if timeout <= 0 {
		timeout = sharedLoadTimeout
	}

	ch := l.group.DoChan(userID, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		return l.ConversationStore.LoadLatest(loadCtx, userID)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	conv, _ := res.Val.(*model.Conversation)
	if conv == nil {
		return nil, nil
	}
	out := *conv
	out.Messages = append([]model.Message(nil), conv.Messages...)
	return &out, nil
}
