package server

import (
	"context"
	"sync"

	"brickduel/world"
)

// Slot 单槽“最新值”邮箱：Publish 覆盖旧值且从不阻塞，版本号单调递增。
// 每个读者自己记住已看到的版本，用 Wait/Changed 判断是否有更新的值。
// 不是队列：被覆盖的中间快照不会再投递
type Slot struct {
	mu      sync.Mutex
	snap    world.Snapshot
	version uint64
	changed chan struct{} // 下一次 Publish 时关闭
	read    bool          // 当前版本是否已被读取过
	metrics *RoomMetrics
}

func NewSlot(metrics *RoomMetrics) *Slot {
	if metrics == nil {
		metrics = &RoomMetrics{}
	}
	return &Slot{changed: make(chan struct{}), metrics: metrics}
}

// Publish 发布新快照。调用方之后不得再修改该快照
func (s *Slot) Publish(snap world.Snapshot) uint64 {
	s.mu.Lock()
	if s.version > 0 && !s.read {
		s.metrics.IncCoalesced()
	}
	s.snap = snap
	s.version++
	s.read = false
	ch := s.changed
	s.changed = make(chan struct{})
	v := s.version
	s.mu.Unlock()

	close(ch)
	return v
}

// Latest 返回最新快照及其版本号；版本为 0 表示尚未发布
func (s *Slot) Latest() (world.Snapshot, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version > 0 {
		s.read = true
	}
	return s.snap, s.version
}

// Changed 返回一个通道：若已有比 seen 更新的版本则立即可读，否则在下一次 Publish 时关闭
func (s *Slot) Changed(seen uint64) <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version > seen {
		return closedChan
	}
	return s.changed
}

// Wait 阻塞直到出现比 seen 更新的版本，或 ctx 结束
func (s *Slot) Wait(ctx context.Context, seen uint64) (world.Snapshot, uint64, error) {
	for {
		select {
		case <-s.Changed(seen):
		case <-ctx.Done():
			return world.Snapshot{}, seen, ctx.Err()
		}
		if snap, v := s.Latest(); v > seen {
			return snap, v, nil
		}
	}
}

var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()
