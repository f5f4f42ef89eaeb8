package widget

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"aurabox/internal/ai"
	"aurabox/internal/model"
	"aurabox/internal/pkg/datauri"
	"aurabox/internal/pkg/logger"
	"aurabox/internal/repository"
)

var (
	// ErrEmptyTurn 既没有文字也没有图片，发送是空操作
	ErrEmptyTurn = errors.New("empty turn")
	// ErrTurnInFlight 上一轮请求尚未结束
	ErrTurnInFlight = errors.New("a turn is already in flight")
	// ErrSessionClosed 会话已卸载
	ErrSessionClosed = errors.New("widget session closed")
	// ErrInvalidImage 图片不是合法的 data URI
	ErrInvalidImage = errors.New("invalid image")
	// ErrUnknownEvent 未知的悬浮按钮事件
	ErrUnknownEvent = errors.New("unknown launcher event")
)

// Completer 对话补全，ai.Client 实现该接口
type Completer interface {
	Greeting(lang ai.Language) string
	Reply(ctx context.Context, req *ai.CompletionRequest, lang ai.Language) ai.Reply
}

// Config 会话参数
type Config struct {
	GuestTurnLimit int
	Launcher       LauncherOptions
	PersistTimeout time.Duration
	Location       *time.Location
}

// SessionParams 创建会话所需的依赖
type SessionParams struct {
	ID        string
	Identity  model.Identity
	Language  ai.Language
	Viewport  Viewport
	Config    Config
	Completer Completer
	Repo      repository.ConversationStore
	Scheduler Scheduler
}

// SendInput 一次发送
// Image 为 data URI；为空时使用已附加的待发送图片
type SendInput struct {
	Text    string
	Image   string
	Caption string
}

// LauncherEvent 悬浮按钮事件
type LauncherEvent struct {
	Type     string // down / move / up / resize
	Point    Point
	Viewport *Viewport
}

// Session 一次组件挂载
// 身份在创建时注入，会话期间不变
type Session struct {
	id        string
	identity  model.Identity
	cfg       Config
	completer Completer

	launcher *Launcher
	store    *Store
	quota    *QuotaGate
	logger   zerolog.Logger

	lifetime context.Context
	cancel   context.CancelFunc

	mu         sync.Mutex
	lang       ai.Language
	turn       TurnState
	pending    *datauri.Image
	closed     bool
	lastActive time.Time

	persistWG sync.WaitGroup
}

// NewSession 创建会话，需随后调用 Initialize
func NewSession(p SessionParams) *Session {
	lang := p.Language
	if lang == "" {
		lang = ai.DefaultLanguage
	}
	if p.Config.Launcher == (LauncherOptions{}) {
		p.Config.Launcher = DefaultLauncherOptions
	}
	if p.Config.PersistTimeout <= 0 {
		p.Config.PersistTimeout = 10 * time.Second
	}

	lifetime, cancel := context.WithCancel(context.Background())

	return &Session{
		id:         p.ID,
		identity:   p.Identity,
		cfg:        p.Config,
		completer:  p.Completer,
		launcher:   NewLauncher(p.Config.Launcher, p.Viewport, p.Scheduler),
		store:      NewStore(p.Repo, p.Config.Location),
		quota:      NewQuotaGate(p.Config.GuestTurnLimit),
		logger:     logger.Component("widget").With().Str("session_id", p.ID).Str("identity", string(p.Identity.Kind)).Logger(),
		lifetime:   lifetime,
		cancel:     cancel,
		lang:       lang,
		lastActive: time.Now(),
	}
}

// Initialize 初始化对话存储（已登录用户加载远端历史）
func (s *Session) Initialize(ctx context.Context) {
	s.store.Initialize(ctx, s.identity, s.completer.Greeting(s.Language()))
}

// ID 会话 ID
func (s *Session) ID() string {
	return s.id
}

// Identity 会话身份
func (s *Session) Identity() model.Identity {
	return s.identity
}

// Language 当前语言
func (s *Session) Language() ai.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

// Store 对话存储
func (s *Session) Store() *Store {
	return s.store
}

// Launcher 悬浮按钮
func (s *Session) Launcher() *Launcher {
	return s.launcher
}

// TurnState 当前轮状态
func (s *Session) TurnState() TurnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turn
}

// LastActive 最近一次操作时间
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Send 发送一轮对话
// 流程: 校验 -> 额度检查 -> 追加用户消息 -> 请求补全 -> 追加回复 -> 异步写回远端
// 补全请求在会话生命周期内进行，不随调用方请求取消；会话关闭后到达的回复被丢弃
func (s *Session) Send(in SendInput) (*model.SendMessageResponse, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if s.turn == TurnDispatching {
		s.mu.Unlock()
		return nil, ErrTurnInFlight
	}
	s.lastActive = time.Now()

	text := strings.TrimSpace(in.Text)
	image := s.pending
	if in.Image != "" {
		parsed, err := datauri.Parse(in.Image)
		if err != nil {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
		image = &parsed
	}
	if text == "" && image == nil {
		s.mu.Unlock()
		return nil, ErrEmptyTurn
	}

	if err := s.quota.Admit(s.identity); err != nil {
		s.mu.Unlock()
		s.logger.Info().Int("limit", s.quota.Ceiling()).Msg("guest turn refused, authentication required")
		return nil, err
	}

	caption := strings.TrimSpace(in.Caption)
	userMsg := model.Message{Text: text, Sender: model.SenderUser}
	req := &ai.CompletionRequest{Text: text}
	if image != nil {
		userMsg.Image = image.URI()
		userMsg.Caption = caption
		req.Image = &ai.InlineImage{MIMEType: image.MIMEType, Data: image.Data}
		req.Caption = caption
	}
	userMsg = s.store.Append(userMsg)

	s.turn = TurnDispatching
	s.pending = nil
	lang := s.lang
	s.mu.Unlock()

	reply := s.completer.Reply(s.lifetime, req, lang)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.turn = TurnIdle
	if s.closed {
		s.logger.Debug().Msg("session closed before reply settled, dropping reply")
		return nil, ErrSessionClosed
	}
	s.lastActive = time.Now()

	assistantMsg := s.store.Append(model.Message{Text: reply.Text, Sender: model.SenderAssistant})
	s.persistLocked()

	s.logger.Info().
		Bool("fallback", reply.Fallback).
		Bool("has_image", image != nil).
		Int("messages", s.store.Len()).
		Msg("turn completed")

	return &model.SendMessageResponse{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
		Fallback:         reply.Fallback,
		CurrentIndex:     s.store.Index(),
		Quota:            s.quota.Info(s.identity),
	}, nil
}

// persistLocked 在后台写回远端，调用方持有 s.mu
func (s *Session) persistLocked() {
	if s.identity.IsGuest() {
		return
	}

	s.persistWG.Add(1)
	go func() {
		defer s.persistWG.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.PersistTimeout)
		defer cancel()
		s.store.Persist(ctx, s.identity)
	}()
}

// AttachImage 附加图片，进入等待说明状态
func (s *Session) AttachImage(uri string) error {
	img, err := datauri.Parse(uri)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.turn == TurnDispatching {
		return ErrTurnInFlight
	}
	s.lastActive = time.Now()
	s.pending = &img
	s.turn = TurnAwaitingCaption
	return nil
}

// DiscardImage 丢弃待发送图片
func (s *Session) DiscardImage() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	s.lastActive = time.Now()
	s.pending = nil
	if s.turn == TurnAwaitingCaption {
		s.turn = TurnIdle
	}
	return nil
}

// SetLanguage 切换语言，只影响文案模板
func (s *Session) SetLanguage(lang ai.Language) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	s.lastActive = time.Now()
	s.lang = lang
	return nil
}

// Seek 跳到指定消息；index 为 nil 时按 step 相对移动
func (s *Session) Seek(index *int, step int) (int, error) {
	if err := s.touch(); err != nil {
		return 0, err
	}
	if index != nil {
		return s.store.Seek(*index), nil
	}
	return s.store.Step(step), nil
}

// HandleLauncherEvent 处理悬浮按钮事件
func (s *Session) HandleLauncherEvent(ev LauncherEvent) (Gesture, error) {
	if err := s.touch(); err != nil {
		return GestureNone, err
	}

	switch ev.Type {
	case "down":
		s.launcher.PointerDown(ev.Point)
	case "move":
		s.launcher.PointerMove(ev.Point)
	case "up":
		return s.launcher.PointerUp(), nil
	case "resize":
		if ev.Viewport == nil {
			return GestureNone, fmt.Errorf("%w: resize without viewport", ErrUnknownEvent)
		}
		s.launcher.Resize(*ev.Viewport)
	default:
		return GestureNone, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	return GestureNone, nil
}

// ClosePanel 关闭对话面板，进行中的请求照常完成
func (s *Session) ClosePanel() error {
	if err := s.touch(); err != nil {
		return err
	}
	s.launcher.Close()
	return nil
}

func (s *Session) touch() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.lastActive = time.Now()
	return nil
}

// Snapshot 会话快照
func (s *Session) Snapshot() *model.SessionResponse {
	s.mu.Lock()
	lang := s.lang
	turn := s.turn
	pending := s.pending != nil
	s.mu.Unlock()

	ls := s.launcher.Snapshot()

	return &model.SessionResponse{
		ID:           s.id,
		Identity:     s.identity,
		Language:     string(lang),
		TurnState:    turn.String(),
		Loading:      turn.Loading(),
		CurrentIndex: s.store.Index(),
		Messages:     s.store.Messages(),
		PendingImage: pending,
		Quota:        s.quota.Info(s.identity),
		Launcher: model.LauncherInfo{
			X:        ls.Position.X,
			Y:        ls.Position.Y,
			State:    ls.State.String(),
			Visible:  ls.Visible,
			Viewport: model.Viewport{Width: ls.Viewport.Width, Height: ls.Viewport.Height},
		},
	}
}

// Close 卸载会话：取消进行中的请求，等待后台写入结束
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cancel()
	s.mu.Unlock()

	s.launcher.Stop()
	s.persistWG.Wait()
	s.logger.Debug().Msg("session closed")
}

// Closed 是否已卸载
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// WaitPersisted 等待已发起的远端写入完成
func (s *Session) WaitPersisted() {
	s.persistWG.Wait()
}
