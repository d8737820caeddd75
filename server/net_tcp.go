package server

import (
	"context"
	"errors"
	"net"
	"time"
)

// ServeTCP 接受 TCP 连接，每个连接在独立协程中加入房间。ctx 结束时关闭监听并返回 nil
func ServeTCP(ctx context.Context, ln net.Listener, room *Room) error {
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	Log.Infow("tcp listening", "addr", ln.Addr().String())
	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				backoff = nextBackoff(backoff)
				Log.Warnw("accept error, retrying", "err", err, "backoff", backoff)
				time.Sleep(backoff)
				continue
			}
			return err
		}
		backoff = 0
		go func() {
			_ = room.Join(ctx, NewConnStream(conn))
		}()
	}
}

func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return 5 * time.Millisecond
	}
	if d *= 2; d > time.Second {
		d = time.Second
	}
	return d
}
