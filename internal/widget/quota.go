package widget

import (
	"errors"
	"sync"

	"aurabox/internal/model"
)

// ErrQuotaExceeded 游客额度用尽，需要登录
var ErrQuotaExceeded = errors.New("guest turn limit reached, authentication required")

// DefaultGuestTurnLimit 游客每次挂载可发送的轮数
const DefaultGuestTurnLimit = 2

// QuotaGate 游客额度
// 计数只在内存中，每次挂载重新开始；已登录用户不计数
type QuotaGate struct {
	mu      sync.Mutex
	ceiling int
	used    int
}

// NewQuotaGate 创建额度检查
func NewQuotaGate(ceiling int) *QuotaGate {
	if ceiling < 0 {
		ceiling = 0
	}
	return &QuotaGate{ceiling: ceiling}
}

// Admit 发送前检查：游客未用尽则计数加一，否则拒绝
func (q *QuotaGate) Admit(identity model.Identity) error {
	if !identity.IsGuest() {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.used >= q.ceiling {
		return ErrQuotaExceeded
	}
	q.used++
	return nil
}

// Remaining 剩余轮数，-1 表示不限
func (q *QuotaGate) Remaining(identity model.Identity) int {
	if !identity.IsGuest() {
		return -1
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ceiling - q.used
}

// Used 已用轮数
func (q *QuotaGate) Used() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.used
}

// Ceiling 额度上限
func (q *QuotaGate) Ceiling() int {
	return q.ceiling
}

// Info 额度信息
func (q *QuotaGate) Info(identity model.Identity) model.QuotaInfo {
	return model.QuotaInfo{
		Limit:     q.ceiling,
		Used:      q.Used(),
		Remaining: q.Remaining(identity),
	}
}
