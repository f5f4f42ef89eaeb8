package widget

import (
	"sync"
	"time"
)

// Point 屏幕坐标（像素）
type Point struct {
	X float64
	Y float64
}

// Viewport 视口尺寸（像素）
type Viewport struct {
	Width  float64
	Height float64
}

// DefaultViewport 前端未上报视口时使用
var DefaultViewport = Viewport{Width: 1280, Height: 720}

// Clamp 把按钮位置限制在视口内
// padding <= x <= width-(size+padding)，y 同理；视口放不下按钮时固定在 padding
func Clamp(p Point, vp Viewport, size, padding float64) Point {
	return Point{
		X: clampAxis(p.X, vp.Width, size, padding),
		Y: clampAxis(p.Y, vp.Height, size, padding),
	}
}

func clampAxis(v, extent, size, padding float64) float64 {
	upper := extent - (size + padding)
	if upper < padding {
		return padding
	}
	return min(max(v, padding), upper)
}

// Timer 可取消的定时器，*time.Timer 满足该接口
type Timer interface {
	Stop() bool
}

// Scheduler 长按定时器的调度器
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemScheduler struct{}

func (systemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemScheduler 基于 time.AfterFunc 的调度器
var SystemScheduler Scheduler = systemScheduler{}

// LauncherState 悬浮按钮手势状态
type LauncherState int

const (
	LauncherIdle LauncherState = iota
	LauncherPressed
	LauncherDragging
)

func (s LauncherState) String() string {
	switch s {
	case LauncherIdle:
		return "idle"
	case LauncherPressed:
		return "pressed"
	case LauncherDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Gesture 一次按下到抬起的识别结果
type Gesture int

const (
	GestureNone Gesture = iota
	GestureTap
	GestureDrag
)

func (g Gesture) String() string {
	switch g {
	case GestureTap:
		return "tap"
	case GestureDrag:
		return "drag"
	default:
		return "none"
	}
}

// LauncherOptions 悬浮按钮参数
type LauncherOptions struct {
	Size      float64
	Padding   float64
	LongPress time.Duration
}

// DefaultLauncherOptions 默认参数
var DefaultLauncherOptions = LauncherOptions{
	Size:      56,
	Padding:   16,
	LongPress: 400 * time.Millisecond,
}

// LauncherSnapshot 悬浮按钮状态快照
type LauncherSnapshot struct {
	Position Point
	Viewport Viewport
	State    LauncherState
	Visible  bool
}

// Launcher 悬浮按钮
// 轻点打开对话面板，长按超过阈值后进入拖动；位置只在会话内有效
type Launcher struct {
	mu        sync.Mutex
	opts      LauncherOptions
	scheduler Scheduler

	state    LauncherState
	position Point
	viewport Viewport
	visible  bool

	last       Point // 最近一次指针位置
	dragStart  Point
	dragOrigin Point

	timer Timer
	gen   uint64 // 每次按下/抬起递增，过期的定时器回调据此丢弃
}

// NewLauncher 创建悬浮按钮，初始位置在视口右下角
func NewLauncher(opts LauncherOptions, vp Viewport, scheduler Scheduler) *Launcher {
	if scheduler == nil {
		scheduler = SystemScheduler
	}
	corner := Point{X: vp.Width - opts.Size - opts.Padding, Y: vp.Height - opts.Size - opts.Padding}
	return &Launcher{
		opts:      opts,
		scheduler: scheduler,
		viewport:  vp,
		position:  Clamp(corner, vp, opts.Size, opts.Padding),
	}
}

// PointerDown 按下：清掉未触发的定时器，重新计时
func (l *Launcher) PointerDown(p Point) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stopTimerLocked()
	l.gen++
	gen := l.gen

	l.state = LauncherPressed
	l.last = p
	l.timer = l.scheduler.AfterFunc(l.opts.LongPress, func() {
		l.onLongPress(gen)
	})
}

func (l *Launcher) onLongPress(gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.gen || l.state != LauncherPressed {
		return
	}
	l.timer = nil
	l.state = LauncherDragging
	l.dragStart = l.last
	l.dragOrigin = l.position
}

// PointerMove 移动：只在拖动状态下改变位置
func (l *Launcher) PointerMove(p Point) Point {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case LauncherPressed:
		l.last = p
	case LauncherDragging:
		l.last = p
		next := Point{
			X: l.dragOrigin.X + (p.X - l.dragStart.X),
			Y: l.dragOrigin.Y + (p.Y - l.dragStart.Y),
		}
		l.position = Clamp(next, l.viewport, l.opts.Size, l.opts.Padding)
	}
	return l.position
}

// PointerUp 抬起：未进入拖动即为轻点，打开面板且不改变位置
func (l *Launcher) PointerUp() Gesture {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stopTimerLocked()
	l.gen++

	gesture := GestureNone
	switch l.state {
	case LauncherPressed:
		l.visible = true
		gesture = GestureTap
	case LauncherDragging:
		gesture = GestureDrag
	}
	l.state = LauncherIdle
	return gesture
}

// Resize 视口变化（含横竖屏切换）后重新限制位置
func (l *Launcher) Resize(vp Viewport) Point {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.viewport = vp
	l.position = Clamp(l.position, vp, l.opts.Size, l.opts.Padding)
	return l.position
}

// Close 关闭对话面板
func (l *Launcher) Close() {
	l.mu.Lock()
	l.visible = false
	l.mu.Unlock()
}

// Visible 对话面板是否打开
func (l *Launcher) Visible() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.visible
}

// Stop 取消未触发的定时器并回到空闲状态
func (l *Launcher) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stopTimerLocked()
	l.gen++
	l.state = LauncherIdle
}

// Snapshot 状态快照
func (l *Launcher) Snapshot() LauncherSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return LauncherSnapshot{
		Position: l.position,
		Viewport: l.viewport,
		State:    l.state,
		Visible:  l.visible,
	}
}

func (l *Launcher) stopTimerLocked() {
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}
