// Package world 描述共享的对战世界：几何常量、实体数据与固定步长物理推进
package world

// Vec2 二维浮点向量
type Vec2 struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }

// PlayerID 玩家编号，只有 0（下方）和 1（上方）两个合法值
type PlayerID uint8

const (
	PlayerBottom PlayerID = 0
	PlayerTop    PlayerID = 1

	// PlayerCount 一局固定两名玩家
	PlayerCount = 2
)

// Valid 是否为合法玩家编号
func (p PlayerID) Valid() bool { return p < PlayerCount }

// KeyCode 客户端上报的按键码（与参考客户端的键值一致）
type KeyCode uint32

const (
	KeyLaunch KeyCode = 32
	KeyRight  KeyCode = 262
	KeyLeft   KeyCode = 263
)

// Intent 单个离散输入事件，只被消费一次
type Intent struct {
	PlayerID PlayerID
	Key      KeyCode
}

// Block 砖块，HitsLeft 归零即从世界移除
type Block struct {
	Position Vec2 `msgpack:"position"`
	HitsLeft int  `msgpack:"hitsLeft"`
}

// Paddle 挡板，每位玩家一个，以 PlayerID 为下标
type Paddle struct {
	PlayerID PlayerID `msgpack:"playerId"`
	Position Vec2     `msgpack:"position"`
}

// Ball 球，未发射时速度为零
type Ball struct {
	OwnerID  PlayerID `msgpack:"ownerId"`
	Position Vec2     `msgpack:"position"`
	Velocity Vec2     `msgpack:"velocity"`
	Launched bool     `msgpack:"launched"`
}

// Snapshot 某一 Tick 的完整世界状态。一经发布不可修改，每个 Tick 构造新的快照
type Snapshot struct {
	Tick    uint64              `msgpack:"tick"`
	Blocks  []Block             `msgpack:"blocks"`
	Paddles [PlayerCount]Paddle `msgpack:"paddles"`
	Balls   []Ball              `msgpack:"balls"`
}

// Clone 深拷贝，返回的切片与原快照互不共享
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Blocks = append(make([]Block, 0, len(s.Blocks)), s.Blocks...)
	out.Balls = append(make([]Ball, 0, len(s.Balls)), s.Balls...)
	return out
}
