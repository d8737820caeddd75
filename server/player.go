package server

import "sync/atomic"

// SessionState 会话状态机：Connecting → IDAssigned → Streaming → Closed，
// 任何一侧 I/O 出错都直接进入 Closed，没有重连
type SessionState int32

const (
	StateConnecting SessionState = iota
	StateIDAssigned
	StateStreaming
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateIDAssigned:
		return "id_assigned"
	case StateStreaming:
		return "streaming"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

type sessionState struct {
	v atomic.Int32
}

func (s *sessionState) Load() SessionState { return SessionState(s.v.Load()) }

// advance 只允许向前迁移，已关闭后不再变化；返回是否发生了迁移
func (s *sessionState) advance(to SessionState) bool {
	for {
		cur := s.v.Load()
		if SessionState(cur) >= to {
			return false
		}
		if s.v.CompareAndSwap(cur, int32(to)) {
			return true
		}
	}
}
