package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"brickduel/world"
)

// RoomConfig 房间配置
type RoomConfig struct {
	Layout         world.Layout
	Tuning         world.Tuning
	IntakeCapacity int
}

func DefaultRoomConfig() RoomConfig {
	return RoomConfig{
		Layout:         world.DefaultLayout(),
		Tuning:         world.DefaultTuning(),
		IntakeCapacity: DefaultIntakeCapacity,
	}
}

// Room 一局两人对战：权威状态只由 Tick 循环推进，
// 会话之间只通过 Intake 和各自的最新值槽交互
type Room struct {
	seats       SeatManager
	intake      *Intake
	loop        *Loop
	source      *Slot
	broadcaster *Broadcaster
	tuning      atomic.Pointer[world.Tuning]
	metrics     *RoomMetrics
	started     atomic.Bool
}

// NewRoom 校验配置并生成初始世界，尚未开始 Tick
func NewRoom(cfg RoomConfig) (*Room, error) {
	if err := cfg.Layout.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Tuning.Validate(); err != nil {
		return nil, err
	}

	metrics := &RoomMetrics{}
	r := &Room{
		intake:      NewIntake(cfg.IntakeCapacity, metrics),
		source:      NewSlot(nil),
		broadcaster: NewBroadcaster(metrics),
		metrics:     metrics,
	}
	t := cfg.Tuning
	r.tuning.Store(&t)
	r.loop = NewLoop(world.NewWorld(cfg.Layout), r.intake, r.source, r, metrics)
	return r, nil
}

// Start 启动 Tick 循环与广播中继，重复调用无效
func (r *Room) Start(ctx context.Context) {
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	go r.broadcaster.Run(ctx, r.source)
	go r.loop.Run(ctx)
}

// Join 为新连接分配座位并服务该会话，阻塞直到会话结束。房间已满时关闭连接
func (r *Room) Join(ctx context.Context, stream Stream) error {
	id, err := r.seats.Claim()
	if err != nil {
		_ = stream.Close()
		Log.Warnw("connection rejected", "remote", stream.RemoteAddr(), "err", err)
		return err
	}

	sess := NewSession(id, stream, r.intake, r.broadcaster.For(id), r.metrics)
	Log.Infow("player connected", "session", sess.ID, "player", id, "remote", stream.RemoteAddr())

	err = sess.Serve(ctx)
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		Log.Infow("player disconnected", "session", sess.ID, "player", id)
	} else {
		Log.Infow("session closed", "session", sess.ID, "player", id, "err", err)
	}
	return err
}

// Tuning 当前物理参数
func (r *Room) Tuning() world.Tuning { return *r.tuning.Load() }

// SetTuning 热更新物理参数，下一个 Tick 生效
func (r *Room) SetTuning(t world.Tuning) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("set tuning: %w", err)
	}
	r.tuning.Store(&t)
	Log.Infow("tuning updated", "paddleSpeed", t.PaddleSpeed, "ballSpeed", t.BallSpeed, "timestep", t.Timestep)
	return nil
}

// Latest 最近一次发布的快照
func (r *Room) Latest() (world.Snapshot, uint64) { return r.source.Latest() }

func (r *Room) Metrics() *RoomMetrics { return r.metrics }

// Seats 已分配的座位数
func (r *Room) Seats() int { return r.seats.Taken() }
