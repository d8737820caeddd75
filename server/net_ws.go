package server

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// 客户端每帧最多上报几个按键码，单条消息不会很大
const wsReadLimit = 64 << 10

// wsStream 把 WebSocket 二进制消息适配成连续字节流：
// 读时按顺序拼接各条消息的内容，写时每次 Write 发送一条二进制消息。
// gorilla 允许一个读协程与一个写协程并发，正好对应会话的两侧
type wsStream struct {
	conn   *websocket.Conn
	cur    io.Reader
	closed atomic.Bool
}

func newWSStream(conn *websocket.Conn) *wsStream {
	conn.SetReadLimit(wsReadLimit)
	return &wsStream{conn: conn}
}

func (s *wsStream) Read(p []byte) (int, error) {
	for {
		if s.cur == nil {
			mt, r, err := s.conn.NextReader()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return 0, io.EOF
				}
				return 0, err
			}
			if mt != websocket.BinaryMessage {
				// 文本消息不属于协议，忽略
				continue
			}
			s.cur = r
		}
		n, err := s.cur.Read(p)
		if err == io.EOF {
			s.cur = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (s *wsStream) Write(p []byte) (int, error) {
	if err := s.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *wsStream) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrSessionClosed
	}
	return s.conn.Close()
}

func (s *wsStream) RemoteAddr() string { return s.conn.RemoteAddr().String() }

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 64 << 10,
	CheckOrigin: func(r *http.Request) bool {
		// 演示环境：允许所有来源（生产环境需严格限制）
		return true
	},
}

// HandleWS WebSocket 接入：升级后按二进制字节流服务一个玩家会话。
// ctx 为服务器生命周期，不使用请求自身的 Context
func HandleWS(ctx context.Context, room *Room) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			Log.Warnw("upgrade error", "remote", r.RemoteAddr, "err", err)
			return
		}
		_ = room.Join(ctx, newWSStream(ws))
	}
}
