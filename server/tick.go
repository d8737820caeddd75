package server

import (
	"context"
	"time"

	"brickduel/world"
)

// TuningSource 提供当前生效的物理参数（支持热更新）
type TuningSource interface {
	Tuning() world.Tuning
}

// Loop 固定步长的 Tick 循环，是世界状态唯一的写入方
type Loop struct {
	state   world.Snapshot
	intake  *Intake
	out     *Slot
	tuning  TuningSource
	metrics *RoomMetrics
}

func NewLoop(initial world.Snapshot, intake *Intake, out *Slot, tuning TuningSource, metrics *RoomMetrics) *Loop {
	if metrics == nil {
		metrics = &RoomMetrics{}
	}
	return &Loop{state: initial, intake: intake, out: out, tuning: tuning, metrics: metrics}
}

// Tick 执行一次：取出输入 → 物理推进 → 发布新快照
func (l *Loop) Tick() world.Snapshot {
	start := time.Now()
	intents := l.intake.Drain()
	l.state = world.Step(l.state, intents, l.tuning.Tuning())
	l.out.Publish(l.state)
	l.metrics.AddTick(time.Since(start).Nanoseconds())
	return l.state
}

// Run 先发布初始快照，然后循环 Tick。每次 Tick 后完整睡眠一个步长（固定延迟，
// 不做漂移补偿，实际频率略低于名义频率）。位移只乘固定步长，与实际耗时无关
func (l *Loop) Run(ctx context.Context) {
	l.out.Publish(l.state)
	Log.Infow("game loop started", "timestep", l.tuning.Tuning().Timestep)

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C
	for {
		l.Tick()

		timer.Reset(l.tuning.Tuning().Timestep)
		select {
		case <-ctx.Done():
			Log.Infow("game loop stopped", "tick", l.state.Tick)
			return
		case <-timer.C:
		}
	}
}
