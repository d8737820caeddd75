package server

import (
	"context"

	"brickduel/world"
)

// Broadcaster 把 Tick 循环产出的快照分发到每位玩家各自的最新值槽。
// 慢客户端只会错过中间快照，不会阻塞生产者
type Broadcaster struct {
	slots [world.PlayerCount]*Slot
}

func NewBroadcaster(metrics *RoomMetrics) *Broadcaster {
	b := &Broadcaster{}
	for i := range b.slots {
		b.slots[i] = NewSlot(metrics)
	}
	return b
}

// For 返回玩家对应的槽；编号非法时返回 nil
func (b *Broadcaster) For(id world.PlayerID) *Slot {
	if !id.Valid() {
		return nil
	}
	return b.slots[id]
}

// Publish 直接写入所有玩家槽
func (b *Broadcaster) Publish(snap world.Snapshot) {
	for _, s := range b.slots {
		s.Publish(snap)
	}
}

// Run 中继协程：等待 source 出现新快照并复制到每个玩家槽，直到 ctx 结束
func (b *Broadcaster) Run(ctx context.Context, source *Slot) {
	var seen uint64
	for {
		snap, v, err := source.Wait(ctx, seen)
		if err != nil {
			return
		}
		seen = v
		b.Publish(snap)
	}
}
