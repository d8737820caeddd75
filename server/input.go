package server

import (
	"fmt"
	"sync"

	"brickduel/world"
)

// DefaultIntakeCapacity 两个 Tick 之间最多积压的意图数
const DefaultIntakeCapacity = 1024

// Intake 多生产者（各会话读协程）单消费者（Tick 循环）的输入队列。
// Push 与 Drain 都不阻塞；Drain 一次取走自上次 Drain 以来的全部意图
type Intake struct {
	mu       sync.Mutex
	pending  []world.Intent
	capacity int
	metrics  *RoomMetrics
}

func NewIntake(capacity int, metrics *RoomMetrics) *Intake {
	if capacity < 1 {
		capacity = DefaultIntakeCapacity
	}
	if metrics == nil {
		metrics = &RoomMetrics{}
	}
	return &Intake{
		pending:  make([]world.Intent, 0, 64),
		capacity: capacity,
		metrics:  metrics,
	}
}

// Push 入队一个意图。玩家编号在这里校验，非法编号返回 ErrUnknownPlayer；
// 队列满时丢弃该意图并返回 ErrIntakeFull，保证 Tick 不受背压影响
func (q *Intake) Push(in world.Intent) error {
	if !in.PlayerID.Valid() {
		q.metrics.IncUnknown()
		return fmt.Errorf("%w: %d", ErrUnknownPlayer, in.PlayerID)
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) >= q.capacity {
		q.metrics.IncDroppedFull()
		return ErrIntakeFull
	}
	q.pending = append(q.pending, in)
	q.metrics.IncAccepted()
	return nil
}

// Drain 按到达顺序返回当前积压的全部意图并清空队列，返回的切片归调用方所有
func (q *Intake) Drain() []world.Intent {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	out := q.pending
	q.pending = make([]world.Intent, 0, cap(out))
	return out
}

func (q *Intake) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
