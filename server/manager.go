package server

import (
	"sync"

	"brickduel/world"
)

// SeatManager 分配玩家编号：先 0 后 1。座位不回收（没有断线重连）
type SeatManager struct {
	mu   sync.Mutex
	next int
}

// Claim 占用下一个空座位，两个都已分配时返回 ErrRoomFull
func (m *SeatManager) Claim() (world.PlayerID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.next >= world.PlayerCount {
		return 0, ErrRoomFull
	}
	id := world.PlayerID(m.next)
	m.next++
	return id, nil
}

// Taken 已分配的座位数
func (m *SeatManager) Taken() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.next
}
