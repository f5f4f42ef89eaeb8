package widget

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"aurabox/internal/ai"
	"aurabox/internal/model"
)

const testPhone = "+91 80 4718 2200"

const testImage = "data:image/png;base64,iVBORw0KGgo="

// countingProvider 记录请求次数的补全 Provider
type countingProvider struct {
	mu      sync.Mutex
	calls   int
	prompts []*ai.Prompt
	text    string
	err     error

	block   chan struct{} // 非 nil 时阻塞到关闭或 ctx 取消
	started chan struct{}
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) Generate(ctx context.Context, prompt *ai.Prompt) (string, error) {
	p.mu.Lock()
	p.calls++
	p.prompts = append(p.prompts, prompt)
	p.mu.Unlock()

	if p.started != nil {
		p.started <- struct{}{}
	}
	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return p.text, p.err
}

func (p *countingProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func newTestSession(identity model.Identity, provider ai.Provider, repo *spyRepo) *Session {
	client := ai.NewClient(provider, ai.NewPromptBuilder("Aura", nil), testPhone)
	params := SessionParams{
		ID:        "s-1",
		Identity:  identity,
		Language:  ai.LanguageEnglish,
		Viewport:  Viewport{Width: 400, Height: 800},
		Config:    Config{GuestTurnLimit: 2, Launcher: DefaultLauncherOptions, Location: time.UTC},
		Completer: client,
		Scheduler: &fakeScheduler{},
	}
	if repo != nil {
		params.Repo = repo
	}
	s := NewSession(params)
	s.Initialize(context.Background())
	return s
}

func TestSession_GuestCeiling(t *testing.T) {
	Convey("游客只能发送 N 轮，第 N+1 轮不请求补全", t, func() {
		provider := &countingProvider{text: "Please rest."}
		s := newTestSession(model.NoIdentity(), provider, nil)
		defer s.Close()

		for i := 0; i < 2; i++ {
			resp, err := s.Send(SendInput{Text: "I have a fever"})
			So(err, ShouldBeNil)
			So(resp.AssistantMessage.Text, ShouldEqual, "Please rest.")
		}
		So(provider.callCount(), ShouldEqual, 2)

		_, err := s.Send(SendInput{Text: "one more"})
		So(err, ShouldEqual, ErrQuotaExceeded)
		So(provider.callCount(), ShouldEqual, 2)
		So(s.Store().Len(), ShouldEqual, 1+2*2)

		snap := s.Snapshot()
		So(snap.Quota.Remaining, ShouldEqual, 0)
		So(snap.TurnState, ShouldEqual, "idle")
	})

	Convey("新挂载重置游客额度", t, func() {
		provider := &countingProvider{text: "ok"}
		first := newTestSession(model.AnonymousIdentity("anon-1"), provider, nil)
		first.Send(SendInput{Text: "a"})
		first.Send(SendInput{Text: "b"})
		first.Close()

		second := newTestSession(model.AnonymousIdentity("anon-1"), provider, nil)
		defer second.Close()
		_, err := second.Send(SendInput{Text: "c"})
		So(err, ShouldBeNil)
	})
}

func TestSession_AuthenticatedBypass(t *testing.T) {
	Convey("已登录用户不受额度限制，并写回远端", t, func() {
		provider := &countingProvider{text: "Sure."}
		repo := newSpyRepo()
		s := newTestSession(model.AuthenticatedIdentity("u-1"), provider, repo)
		defer s.Close()

		for i := 0; i < 5; i++ {
			_, err := s.Send(SendInput{Text: "question"})
			So(err, ShouldBeNil)
		}
		So(provider.callCount(), ShouldEqual, 5)
		So(s.Snapshot().Quota.Remaining, ShouldEqual, -1)

		s.WaitPersisted()
		So(s.Closed(), ShouldBeFalse)

		latest, err := repo.MemoryConversationRepo.LoadLatest(context.Background(), "u-1")
		So(err, ShouldBeNil)
		So(len(latest.Messages), ShouldEqual, 1+2*5)
		So(repo.Count("u-1"), ShouldEqual, 1)

		Convey("再次挂载恢复上次的对话", func() {
			again := newTestSession(model.AuthenticatedIdentity("u-1"), provider, repo)
			defer again.Close()
			So(again.Store().Len(), ShouldEqual, 11)
		})
	})
}

func TestSession_Fallback(t *testing.T) {
	Convey("补全失败时追加一条本地化兜底回复", t, func() {
		cases := []struct {
			name     string
			provider *countingProvider
		}{
			{"rejected", &countingProvider{err: errors.New("connection reset")}},
			{"missing candidates", &countingProvider{err: ai.ErrMalformedResponse}},
			{"empty text", &countingProvider{text: ""}},
		}

		for _, tc := range cases {
			for _, lang := range []ai.Language{ai.LanguageEnglish, ai.LanguageHindi} {
				s := newTestSession(model.NoIdentity(), tc.provider, nil)
				So(s.SetLanguage(lang), ShouldBeNil)

				before := s.Store().Len()
				resp, err := s.Send(SendInput{Text: "hello"})
				So(err, ShouldBeNil)
				So(resp.Fallback, ShouldBeTrue)

				msgs := s.Store().Messages()
				So(len(msgs), ShouldEqual, before+2)
				last := msgs[len(msgs)-1]
				So(last.Sender, ShouldEqual, model.SenderAssistant)
				So(last.Text, ShouldEqual, ai.NewClient(tc.provider, ai.NewPromptBuilder("Aura", nil), testPhone).FallbackText(lang))
				So(last.Text, ShouldContainSubstring, testPhone)
				So(s.Snapshot().Loading, ShouldBeFalse)
				s.Close()
			}
		}
	})
}

func TestSession_Validation(t *testing.T) {
	Convey("Send 校验", t, func() {
		provider := &countingProvider{text: "ok"}
		s := newTestSession(model.NoIdentity(), provider, nil)
		defer s.Close()

		Convey("空消息是空操作，不消耗额度", func() {
			_, err := s.Send(SendInput{Text: "   "})
			So(err, ShouldEqual, ErrEmptyTurn)
			So(s.Store().Len(), ShouldEqual, 1)
			So(s.Snapshot().Quota.Used, ShouldEqual, 0)
			So(provider.callCount(), ShouldEqual, 0)
		})

		Convey("非法图片被拒绝", func() {
			_, err := s.Send(SendInput{Image: "data:text/plain;base64,aGk="})
			So(errors.Is(err, ErrInvalidImage), ShouldBeTrue)
			So(s.AttachImage("not a uri"), ShouldNotBeNil)
		})

		Convey("只有图片也可以发送，说明作为备注", func() {
			So(s.AttachImage(testImage), ShouldBeNil)
			So(s.TurnState(), ShouldEqual, TurnAwaitingCaption)
			So(s.Snapshot().PendingImage, ShouldBeTrue)

			resp, err := s.Send(SendInput{Caption: "rash on my arm"})
			So(err, ShouldBeNil)
			So(resp.UserMessage.Image, ShouldEqual, testImage)
			So(resp.UserMessage.Caption, ShouldEqual, "rash on my arm")
			So(s.TurnState(), ShouldEqual, TurnIdle)
			So(s.Snapshot().PendingImage, ShouldBeFalse)

			prompt := provider.prompts[0]
			So(prompt.Image, ShouldNotBeNil)
			So(prompt.Image.MIMEType, ShouldEqual, "image/png")
			So(prompt.CaptionNote, ShouldContainSubstring, "rash on my arm")
		})

		Convey("丢弃待发送图片", func() {
			So(s.AttachImage(testImage), ShouldBeNil)
			So(s.DiscardImage(), ShouldBeNil)
			So(s.TurnState(), ShouldEqual, TurnIdle)

			_, err := s.Send(SendInput{})
			So(err, ShouldEqual, ErrEmptyTurn)
		})
	})
}

func TestSession_Concurrency(t *testing.T) {
	Convey("请求进行中", t, func() {
		provider := &countingProvider{
			text:    "done",
			block:   make(chan struct{}),
			started: make(chan struct{}, 1),
		}
		s := newTestSession(model.AuthenticatedIdentity("u-2"), provider, newSpyRepo())

		type result struct {
			resp *model.SendMessageResponse
			err  error
		}
		done := make(chan result, 1)
		go func() {
			resp, err := s.Send(SendInput{Text: "first"})
			done <- result{resp, err}
		}()
		<-provider.started

		So(s.TurnState(), ShouldEqual, TurnDispatching)
		So(s.Snapshot().Loading, ShouldBeTrue)

		Convey("第二轮被拒绝", func() {
			_, err := s.Send(SendInput{Text: "second"})
			So(err, ShouldEqual, ErrTurnInFlight)

			Convey("关闭面板、拖动不受影响", func() {
				So(s.ClosePanel(), ShouldBeNil)
				_, err := s.HandleLauncherEvent(LauncherEvent{Type: "resize", Viewport: &Viewport{Width: 300, Height: 300}})
				So(err, ShouldBeNil)

				close(provider.block)
				r := <-done
				So(r.err, ShouldBeNil)
				So(r.resp.AssistantMessage.Text, ShouldEqual, "done")
				s.Close()
			})
		})

		Convey("卸载后到达的回复不修改对话", func() {
			s.Close()
			r := <-done
			So(r.err, ShouldEqual, ErrSessionClosed)
			So(s.Store().Len(), ShouldEqual, 2)

			_, err := s.Send(SendInput{Text: "after close"})
			So(err, ShouldEqual, ErrSessionClosed)
		})
	})
}

func TestSession_LauncherEvents(t *testing.T) {
	Convey("悬浮按钮事件", t, func() {
		s := newTestSession(model.NoIdentity(), &countingProvider{text: "ok"}, nil)
		defer s.Close()

		_, err := s.HandleLauncherEvent(LauncherEvent{Type: "down", Point: Point{X: 350, Y: 750}})
		So(err, ShouldBeNil)
		gesture, err := s.HandleLauncherEvent(LauncherEvent{Type: "up"})
		So(err, ShouldBeNil)
		So(gesture, ShouldEqual, GestureTap)
		So(s.Snapshot().Launcher.Visible, ShouldBeTrue)

		So(s.ClosePanel(), ShouldBeNil)
		So(s.Snapshot().Launcher.Visible, ShouldBeFalse)

		_, err = s.HandleLauncherEvent(LauncherEvent{Type: "pinch"})
		So(errors.Is(err, ErrUnknownEvent), ShouldBeTrue)

		_, err = s.HandleLauncherEvent(LauncherEvent{Type: "resize"})
		So(errors.Is(err, ErrUnknownEvent), ShouldBeTrue)
	})
}

func TestSession_Seek(t *testing.T) {
	Convey("消息导航", t, func() {
		s := newTestSession(model.NoIdentity(), &countingProvider{text: "ok"}, nil)
		defer s.Close()
		s.Send(SendInput{Text: "hi"})

		idx, err := s.Seek(nil, -1)
		So(err, ShouldBeNil)
		So(idx, ShouldEqual, 1)

		zero := 0
		idx, _ = s.Seek(&zero, 0)
		So(idx, ShouldEqual, 0)

		far := 100
		idx, _ = s.Seek(&far, 0)
		So(idx, ShouldEqual, 2)
	})
}
