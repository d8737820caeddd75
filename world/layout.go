package world

import (
	"errors"
	"fmt"
)

// ErrInvalidLayout 布局参数非法
var ErrInvalidLayout = errors.New("world: invalid layout")

// Layout 初始砖块布局
type Layout struct {
	Rows         int
	Columns      int
	HitsPerBlock int
}

// DefaultLayout 默认 5 行铺满整行，每块 1 次命中销毁
func DefaultLayout() Layout {
	return Layout{Rows: 5, Columns: BlocksInRow, HitsPerBlock: 1}
}

func (l Layout) Validate() error {
	if l.Rows < 0 {
		return fmt.Errorf("%w: rows=%d", ErrInvalidLayout, l.Rows)
	}
	if l.Columns < 1 || l.Columns > BlocksInRow {
		return fmt.Errorf("%w: columns=%d (want 1..%d)", ErrInvalidLayout, l.Columns, BlocksInRow)
	}
	if l.HitsPerBlock < 1 {
		return fmt.Errorf("%w: hits=%d", ErrInvalidLayout, l.HitsPerBlock)
	}
	return nil
}

// NewWorld 生成初始快照：砖块网格水平居中，0 号挡板在底部，1 号在顶部，
// 每个挡板上挂一个未发射的球
func NewWorld(l Layout) Snapshot {
	const pitch = BlockSize + BlockGap

	gridWidth := float64(l.Columns)*pitch - BlockGap
	left := (WorldWidth-gridWidth)/2 + BlockSize/2
	top := BlockSize/2 + WorldHeight/2 - 2.5*BlockSize

	blocks := make([]Block, 0, l.Rows*l.Columns)
	for row := 0; row < l.Rows; row++ {
		for col := 0; col < l.Columns; col++ {
			blocks = append(blocks, Block{
				Position: Vec2{X: left + float64(col)*pitch, Y: top + float64(row)*pitch},
				HitsLeft: l.HitsPerBlock,
			})
		}
	}

	var paddles [PlayerCount]Paddle
	paddles[PlayerBottom] = Paddle{PlayerID: PlayerBottom, Position: Vec2{X: WorldWidth / 2, Y: WorldHeight - PaddleHeight}}
	paddles[PlayerTop] = Paddle{PlayerID: PlayerTop, Position: Vec2{X: WorldWidth / 2, Y: PaddleHeight}}

	balls := make([]Ball, 0, PlayerCount)
	for _, p := range paddles {
		balls = append(balls, Ball{OwnerID: p.PlayerID, Position: anchor(p)})
	}

	return Snapshot{Blocks: blocks, Paddles: paddles, Balls: balls}
}

// anchor 未发射球相对挡板的位置：居中，朝场地内侧偏移半个挡板高度加球半径
func anchor(p Paddle) Vec2 {
	offset := PaddleHeight/2 + BallRadius
	if p.PlayerID == PlayerBottom {
		offset = -offset
	}
	return Vec2{X: p.Position.X, Y: p.Position.Y + offset}
}
