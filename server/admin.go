package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"brickduel/world"
)

type tuningPayload struct {
	PaddleSpeed *float64 `json:"paddleSpeed,omitempty"`
	BallSpeed   *float64 `json:"ballSpeed,omitempty"`
	TimestepMs  *float64 `json:"timestepMs,omitempty"`
}

func toPayload(t world.Tuning) tuningPayload {
	ms := float64(t.Timestep) / float64(time.Millisecond)
	return tuningPayload{PaddleSpeed: &t.PaddleSpeed, BallSpeed: &t.BallSpeed, TimestepMs: &ms}
}

// HandleAdminConfig 提供物理参数的读取与热更新
// GET  /admin/config  返回当前配置
// POST /admin/config  以 JSON 载荷更新部分字段
func HandleAdminConfig(room *Room) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, toPayload(room.Tuning()))
		case http.MethodPost:
			var body tuningPayload
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
			t := room.Tuning()
			if body.PaddleSpeed != nil {
				t.PaddleSpeed = *body.PaddleSpeed
			}
			if body.BallSpeed != nil {
				t.BallSpeed = *body.BallSpeed
			}
			if body.TimestepMs != nil {
				t.Timestep = time.Duration(*body.TimestepMs * float64(time.Millisecond))
			}
			if err := room.SetTuning(t); err != nil {
				if errors.Is(err, world.ErrInvalidTuning) {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleMetrics 输出房间运行指标
// GET /metrics
func HandleMetrics(room *Room) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, _ := room.Latest()
		writeJSON(w, http.StatusOK, map[string]any{
			"tick":    snap.Tick,
			"seats":   room.Seats(),
			"metrics": room.Metrics().Snapshot(),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// NewMux 汇总 HTTP 路由：WebSocket 接入、管理与监控接口
func NewMux(ctx context.Context, room *Room) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", HandleWS(ctx, room))
	mux.HandleFunc("/admin/config", HandleAdminConfig(room))
	mux.HandleFunc("/metrics", HandleMetrics(room))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
