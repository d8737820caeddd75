package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"brickduel/server"
	"brickduel/world"
)

// BrickDuel 入口：启动 TCP 与 HTTP（WebSocket + 管理接口）服务，两名玩家连入后即可对战
func main() {
	var (
		addr     string
		wsAddr   string
		logFile  string
		logLevel string
		cfg      = server.DefaultRoomConfig()
	)
	flag.StringVar(&addr, "addr", ":4433", "tcp listen address for game clients")
	flag.StringVar(&wsAddr, "ws-addr", ":8080", "http listen address for /ws, /admin and /metrics (empty disables)")
	flag.StringVar(&logFile, "log", "app.log", "log file path")
	flag.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.IntVar(&cfg.Layout.Rows, "rows", cfg.Layout.Rows, "block rows")
	flag.IntVar(&cfg.Layout.Columns, "columns", cfg.Layout.Columns, "blocks per row")
	flag.IntVar(&cfg.Layout.HitsPerBlock, "hits", cfg.Layout.HitsPerBlock, "hits needed to destroy a block")
	flag.Float64Var(&cfg.Tuning.PaddleSpeed, "paddle-speed", cfg.Tuning.PaddleSpeed, "paddle speed (units/s)")
	flag.Float64Var(&cfg.Tuning.BallSpeed, "ball-speed", cfg.Tuning.BallSpeed, "ball speed (units/s)")
	flag.DurationVar(&cfg.Tuning.Timestep, "timestep", world.DefaultTimestep, "fixed simulation timestep")
	flag.Parse()

	// 使用第三方 zap 日志库写入日志文件（带滚动）
	if err := server.InitLogger(logFile, logLevel); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	room, err := server.NewRoom(cfg)
	if err != nil {
		server.Log.Fatalf("room config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	room.Start(ctx)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		server.Log.Fatalf("listen: %v", err)
	}
	go func() {
		if err := server.ServeTCP(ctx, ln, room); err != nil {
			server.Log.Errorf("tcp server: %v", err)
			stop()
		}
	}()

	var srv *http.Server
	if wsAddr != "" {
		srv = &http.Server{Addr: wsAddr, Handler: server.NewMux(ctx, room)}
		go func() {
			server.Log.Infof("BrickDuel http listening on %s", wsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				server.Log.Fatalf("listen: %v", err)
			}
		}()
	}

	// 优雅退出（Ctrl+C）
	<-ctx.Done()
	server.Log.Info("Shutting down...")
	if srv != nil {
		_ = srv.Close()
	}
}
