package world

// 场地几何常量：服务端与客户端共享，必须保持一致
const (
	WorldWidth  = 1920.0
	WorldHeight = 1080.0

	BlockSize = 50.0
	// BlockGap 相邻砖块之间的间隔
	BlockGap = 1.0
	// BlocksInRow 一整行能放下的砖块数
	BlocksInRow = int(WorldWidth) / int(BlockSize)

	PaddleWidth  = 200.0
	PaddleHeight = 20.0

	BallRadius = 10.0

	// Epsilon 浮点比较容差（贴墙、居中判断）
	Epsilon = 1e-6
)
