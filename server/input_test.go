package server

import (
	"errors"
	"sync"
	"testing"

	"brickduel/world"
)

func TestIntakeDrainReturnsArrivalOrder(t *testing.T) {
	q := NewIntake(8, nil)
	keys := []world.KeyCode{world.KeyLeft, world.KeyRight, world.KeyLaunch}
	for _, k := range keys {
		if err := q.Push(world.Intent{PlayerID: world.PlayerBottom, Key: k}); err != nil {
			t.Fatalf("push: %v", err)
		}
	}

	got := q.Drain()
	if len(got) != len(keys) {
		t.Fatalf("expected %d intents, got %d", len(keys), len(got))
	}
	for i, in := range got {
		if in.Key != keys[i] {
			t.Fatalf("intent %d: expected key %d, got %d", i, keys[i], in.Key)
		}
	}
	if again := q.Drain(); len(again) != 0 {
		t.Fatalf("second drain should be empty, got %d", len(again))
	}
}

func TestIntakeRejectsUnknownPlayer(t *testing.T) {
	metrics := &RoomMetrics{}
	q := NewIntake(8, metrics)

	err := q.Push(world.Intent{PlayerID: world.PlayerID(2), Key: world.KeyLeft})
	if !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("expected ErrUnknownPlayer, got %v", err)
	}
	if q.Pending() != 0 || metrics.IntentsUnknown != 1 {
		t.Fatalf("unknown intent should be dropped and counted")
	}
}

func TestIntakeDropsWhenFull(t *testing.T) {
	metrics := &RoomMetrics{}
	q := NewIntake(2, metrics)
	for i := 0; i < 2; i++ {
		if err := q.Push(world.Intent{PlayerID: world.PlayerTop, Key: world.KeyRight}); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	if err := q.Push(world.Intent{PlayerID: world.PlayerTop, Key: world.KeyRight}); !errors.Is(err, ErrIntakeFull) {
		t.Fatalf("expected ErrIntakeFull, got %v", err)
	}
	if metrics.IntentsDroppedFull != 1 || metrics.IntentsAccepted != 2 {
		t.Fatalf("unexpected metrics %+v", metrics.Snapshot())
	}

	q.Drain()
	if err := q.Push(world.Intent{PlayerID: world.PlayerTop, Key: world.KeyRight}); err != nil {
		t.Fatalf("push after drain: %v", err)
	}
}

func TestIntakeConcurrentPushLosesNothing(t *testing.T) {
	const perProducer = 500
	q := NewIntake(4*perProducer, nil)

	var wg sync.WaitGroup
	for p := 0; p < world.PlayerCount; p++ {
		wg.Add(1)
		go func(id world.PlayerID) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				_ = q.Push(world.Intent{PlayerID: id, Key: world.KeyCode(i)})
			}
		}(world.PlayerID(p))
	}

	done := make(chan struct{})
	var drained []world.Intent
	go func() {
		defer close(done)
		for len(drained) < world.PlayerCount*perProducer {
			drained = append(drained, q.Drain()...)
		}
	}()
	wg.Wait()
	<-done

	// 同一玩家的意图保持到达顺序
	next := [world.PlayerCount]world.KeyCode{}
	for _, in := range drained {
		if in.Key != next[in.PlayerID] {
			t.Fatalf("player %d: expected key %d, got %d", in.PlayerID, next[in.PlayerID], in.Key)
		}
		next[in.PlayerID]++
	}
}
