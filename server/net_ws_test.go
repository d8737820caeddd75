package server

import (
	"context"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"brickduel/protocol"
	"brickduel/world"
)

func TestWebSocketSession(t *testing.T) {
	room, ctx := newTestRoom(t)
	ts := httptest.NewServer(NewMux(ctx, room))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	stream := newWSStream(conn)
	defer stream.Close()

	id, err := protocol.ReadPlayerID(stream)
	if err != nil || id != world.PlayerBottom {
		t.Fatalf("read id=%d err=%v", id, err)
	}

	first, err := protocol.ReadSnapshot(stream)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	startX := first.Paddles[world.PlayerBottom].Position.X

	for i := 0; i < 3; i++ {
		if err := protocol.WriteKeyCode(stream, world.KeyRight); err != nil {
			t.Fatalf("write key: %v", err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap, err := protocol.ReadSnapshot(stream)
		if err != nil {
			t.Fatalf("read snapshot: %v", err)
		}
		if snap.Paddles[world.PlayerBottom].Position.X > startX {
			return
		}
	}
	t.Fatalf("paddle did not move over websocket")
}

func TestWebSocketIgnoresTextMessages(t *testing.T) {
	room, ctx := newTestRoom(t)
	ts := httptest.NewServer(NewMux(ctx, room))
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	stream := newWSStream(conn)
	defer stream.Close()

	if _, err := protocol.ReadPlayerID(stream); err != nil {
		t.Fatalf("read id: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte("hello")); err != nil {
		t.Fatalf("write text: %v", err)
	}
	if err := protocol.WriteKeyCode(stream, world.KeyLaunch); err != nil {
		t.Fatalf("write key: %v", err)
	}
	eventually(t, "ball launched", func() bool {
		snap, _ := room.Latest()
		for _, b := range snap.Balls {
			if b.OwnerID == world.PlayerBottom && b.Launched {
				return true
			}
		}
		return false
	})
}

func TestServeTCP(t *testing.T) {
	room, ctx := newTestRoom(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srvCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- ServeTCP(srvCtx, ln, room) }()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if id, err := protocol.ReadPlayerID(conn); err != nil || id != world.PlayerBottom {
		t.Fatalf("read id=%d err=%v", id, err)
	}
	if _, err := protocol.ReadSnapshot(conn); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}

	stop()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("ServeTCP did not return after cancel")
	}
}
