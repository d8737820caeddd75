package world

import "math"

// launchVelocity 发射时的固定单位速度（向上）
var launchVelocity = Vec2{X: 0, Y: -1}

// Step 以固定步长推进一个 Tick：prev 与 intents 相同则结果相同，不修改 prev。
// 各阶段顺序固定，后面的阶段能看到前面阶段在同一 Tick 内的结果
func Step(prev Snapshot, intents []Intent, t Tuning) Snapshot {
	dt := t.Dt()
	next := prev.Clone()
	next.Tick = prev.Tick + 1

	applyIntents(&next, intents, t.PaddleSpeed*dt)
	clampPaddles(&next.Paddles)
	anchorBalls(&next)
	reflectWalls(next.Balls)
	next.Balls = dropOutOfBounds(next.Balls)
	collidePaddles(next.Balls, &next.Paddles)
	collideBlocks(next.Balls, next.Blocks)
	next.Blocks = pruneBlocks(next.Blocks)
	integrate(next.Balls, t.BallSpeed*dt)

	return next
}

func applyIntents(s *Snapshot, intents []Intent, move float64) {
	for _, in := range intents {
		if !in.PlayerID.Valid() {
			continue
		}
		switch in.Key {
		case KeyLeft:
			s.Paddles[in.PlayerID].Position.X -= move
		case KeyRight:
			s.Paddles[in.PlayerID].Position.X += move
		case KeyLaunch:
			for i := range s.Balls {
				b := &s.Balls[i]
				if b.OwnerID == in.PlayerID && !b.Launched {
					b.Velocity = launchVelocity
					b.Launched = true
					break
				}
			}
		default:
			// 未知按键直接忽略
		}
	}
}

func clampPaddles(paddles *[PlayerCount]Paddle) {
	const half = PaddleWidth / 2
	for i := range paddles {
		p := &paddles[i].Position
		if p.X-half <= 0 {
			p.X = half
		}
		if p.X+half >= WorldWidth {
			p.X = WorldWidth - half
		}
	}
}

// anchorBalls 未发射的球每个 Tick 重新贴回自己的挡板
func anchorBalls(s *Snapshot) {
	for i := range s.Balls {
		b := &s.Balls[i]
		if b.Launched || !b.OwnerID.Valid() {
			continue
		}
		b.Position = anchor(s.Paddles[b.OwnerID])
	}
}

func reflectWalls(balls []Ball) {
	for i := range balls {
		b := &balls[i]
		left := b.Position.X - BallRadius
		right := b.Position.X + BallRadius
		switch {
		case left < 0 || nearlyEqual(left, 0):
			b.Velocity.X = math.Abs(b.Velocity.X)
			b.Position.X = BallRadius
		case right > WorldWidth || nearlyEqual(right, WorldWidth):
			b.Velocity.X = -math.Abs(b.Velocity.X)
			b.Position.X = WorldWidth - BallRadius
		}
	}
}

// dropOutOfBounds 移除越过上下边界的球（失球），不是错误
func dropOutOfBounds(balls []Ball) []Ball {
	kept := balls[:0]
	for _, b := range balls {
		if b.Position.Y-BallRadius <= 0 || b.Position.Y+BallRadius >= WorldHeight {
			continue
		}
		kept = append(kept, b)
	}
	return kept
}

func collidePaddles(balls []Ball, paddles *[PlayerCount]Paddle) {
	for i := range balls {
		b := &balls[i]
		for _, p := range paddles {
			if !overlaps(b.Position, p.Position, PaddleWidth, PaddleHeight) {
				continue
			}
			offset := b.Position.X - p.Position.X
			if !nearlyEqual(offset, 0) {
				b.Velocity.X = offset / (PaddleWidth / 2)
			}
			b.Velocity.Y = -b.Velocity.Y
		}
	}
}

// collideBlocks 每个球每 Tick 至多击中一块砖：按序列顺序第一个重叠的命中，不按距离
func collideBlocks(balls []Ball, blocks []Block) {
	for i := range balls {
		b := &balls[i]
		for j := range blocks {
			blk := &blocks[j]
			if blk.HitsLeft <= 0 || !overlaps(b.Position, blk.Position, BlockSize, BlockSize) {
				continue
			}
			d := b.Position.Sub(blk.Position)
			if math.Abs(d.Y) > math.Abs(d.X) {
				b.Velocity.Y = -b.Velocity.Y
			} else {
				b.Velocity.X = -b.Velocity.X
			}
			blk.HitsLeft--
			break
		}
	}
}

func pruneBlocks(blocks []Block) []Block {
	kept := blocks[:0]
	for _, blk := range blocks {
		if blk.HitsLeft > 0 {
			kept = append(kept, blk)
		}
	}
	return kept
}

func integrate(balls []Ball, speed float64) {
	for i := range balls {
		b := &balls[i]
		if b.Launched {
			b.Position = b.Position.Add(b.Velocity.Scale(speed))
		}
	}
}

// overlaps 轴对齐包围盒重叠判断，球近似为边长 2R 的正方形（严格不等）
func overlaps(ball, center Vec2, width, height float64) bool {
	return ball.X-BallRadius < center.X+width/2 &&
		ball.X+BallRadius > center.X-width/2 &&
		ball.Y-BallRadius < center.Y+height/2 &&
		ball.Y+BallRadius > center.Y-height/2
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}
