package server

import (
	"sync/atomic"
)

// RoomMetrics 记录房间运行期的关键指标（用于监控与调试）
type RoomMetrics struct {
	TickCount          int64 // 统计的 Tick 次数
	TotalTickNs        int64 // Tick 累计耗时（纳秒）
	IntentsAccepted    int64 // 进入输入队列的意图数
	IntentsUnknown     int64 // 玩家编号非法被拒绝的意图数
	IntentsDroppedFull int64 // 因队列满被丢弃的意图数
	SnapshotsSent      int64 // 写出到客户端的快照帧数
	SnapshotsCoalesced int64 // 未被读取即被覆盖的快照数
	SessionsOpened     int64
	SessionsClosed     int64
}

func (m *RoomMetrics) IncAccepted() { atomic.AddInt64(&m.IntentsAccepted, 1) }
func (m *RoomMetrics) IncUnknown() { atomic.AddInt64(&m.IntentsUnknown, 1) }
func (m *RoomMetrics) IncDroppedFull() { atomic.AddInt64(&m.IntentsDroppedFull, 1) }
func (m *RoomMetrics) IncSent() { atomic.AddInt64(&m.SnapshotsSent, 1) }
func (m *RoomMetrics) IncCoalesced() { atomic.AddInt64(&m.SnapshotsCoalesced, 1) }
func (m *RoomMetrics) IncSessionOpened() { atomic.AddInt64(&m.SessionsOpened, 1) }
func (m *RoomMetrics) IncSessionClosed() { atomic.AddInt64(&m.SessionsClosed, 1) }
func (m *RoomMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *RoomMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":               tick,
		"avg_tick_ms":              avgMs,
		"intents_accepted":         atomic.LoadInt64(&m.IntentsAccepted),
		"intents_rejected_unknown": atomic.LoadInt64(&m.IntentsUnknown),
		"intents_dropped_full":     atomic.LoadInt64(&m.IntentsDroppedFull),
		"snapshots_sent":           atomic.LoadInt64(&m.SnapshotsSent),
		"snapshots_coalesced":      atomic.LoadInt64(&m.SnapshotsCoalesced),
		"sessions_opened":          atomic.LoadInt64(&m.SessionsOpened),
		"sessions_closed":          atomic.LoadInt64(&m.SessionsClosed),
	}
}
