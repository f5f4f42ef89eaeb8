package widget

// TurnState 一轮对话的状态
// Idle 既是起点也是终点；附图后等待说明为 AwaitingCaption；请求进行中为 Dispatching
type TurnState int

const (
	TurnIdle TurnState = iota
	TurnAwaitingCaption
	TurnDispatching
)

func (s TurnState) String() string {
	switch s {
	case TurnIdle:
		return "idle"
	case TurnAwaitingCaption:
		return "awaiting_caption"
	case TurnDispatching:
		return "dispatching"
	default:
		return "unknown"
	}
}

// Loading 是否显示输入中提示（发送按钮禁用）
func (s TurnState) Loading() bool {
	return s == TurnDispatching
}
