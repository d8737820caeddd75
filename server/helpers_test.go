package server

import (
	"testing"
	"time"

	"brickduel/world"
)

type fixedTuning struct{ t world.Tuning }

func (f fixedTuning) Tuning() world.Tuning { return f.t }

func fastTuning() world.Tuning {
	t := world.DefaultTuning()
	t.Timestep = time.Millisecond
	return t
}

// eventually 轮询直到 cond 成立或超时
func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
