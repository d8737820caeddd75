package world

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTuning 调参值非法
var ErrInvalidTuning = errors.New("world: invalid tuning")

// DefaultTimestep 固定步长 1/60 秒
const DefaultTimestep = time.Second / 60

// Tuning 可热更新的物理参数。作为 Step 的入参传入，保证 Step 是纯函数
type Tuning struct {
	PaddleSpeed float64       // 每秒移动单位
	BallSpeed   float64       // 每秒移动单位（乘以速度向量）
	Timestep    time.Duration // 每个 Tick 的固定时长
}

func DefaultTuning() Tuning {
	return Tuning{PaddleSpeed: 300, BallSpeed: 300, Timestep: DefaultTimestep}
}

// Dt 固定步长（秒）
func (t Tuning) Dt() float64 { return t.Timestep.Seconds() }

func (t Tuning) Validate() error {
	switch {
	case t.PaddleSpeed < 0:
		return fmt.Errorf("%w: paddle speed %.2f", ErrInvalidTuning, t.PaddleSpeed)
	case t.BallSpeed < 0:
		return fmt.Errorf("%w: ball speed %.2f", ErrInvalidTuning, t.BallSpeed)
	case t.Timestep <= 0 || t.Timestep > time.Second:
		return fmt.Errorf("%w: timestep %s", ErrInvalidTuning, t.Timestep)
	}
	return nil
}
