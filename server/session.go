package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"brickduel/protocol"
	"brickduel/world"
)

const sessionWriteBuffer = 64 << 10

// Session 一个客户端从连接建立到断开的完整生命周期。
// 读协程把按键码转成意图送入 Intake，写协程把最新快照编码成帧写回客户端，
// 两者并发运行、互不阻塞；任意一侧出错即关闭整个会话
type Session struct {
	ID     string
	Player world.PlayerID

	stream  Stream
	intake  *Intake
	slot    *Slot
	metrics *RoomMetrics
	log     *zap.SugaredLogger

	state     sessionState
	closeOnce sync.Once
	closeErr  error
}

func NewSession(id world.PlayerID, stream Stream, intake *Intake, slot *Slot, metrics *RoomMetrics) *Session {
	if metrics == nil {
		metrics = &RoomMetrics{}
	}
	sid := uuid.NewString()
	return &Session{
		ID:      sid,
		Player:  id,
		stream:  stream,
		intake:  intake,
		slot:    slot,
		metrics: metrics,
		log:     Log.With("session", sid, "player", id, "remote", stream.RemoteAddr()),
	}
}

// State 当前状态
func (s *Session) State() SessionState { return s.state.Load() }

// Serve 发送玩家编号后进入收发阶段，阻塞直到会话结束。
// 返回导致会话结束的错误（对端关闭时为 io.EOF）
func (s *Session) Serve(ctx context.Context) error {
	s.metrics.IncSessionOpened()
	defer s.metrics.IncSessionClosed()

	if err := protocol.WritePlayerID(s.stream, s.Player); err != nil {
		return multierr.Append(fmt.Errorf("send player id: %w", err), s.close())
	}
	s.transition(StateIDAssigned)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make(chan error, 2)
	s.transition(StateStreaming)
	go func() { errs <- s.readPump() }()
	go func() { errs <- s.writePump(ctx) }()

	pending := 2
	var cause error
	select {
	case cause = <-errs:
		pending--
	case <-ctx.Done():
		cause = ctx.Err()
	}

	// 关闭流以打断另一侧仍在阻塞的读写
	cancel()
	closeErr := s.close()
	for ; pending > 0; pending-- {
		<-errs
	}
	return multierr.Append(cause, closeErr)
}

func (s *Session) readPump() error {
	r := bufio.NewReader(s.stream)
	for {
		key, err := protocol.ReadKeyCode(r)
		if err != nil {
			return fmt.Errorf("read key: %w", err)
		}
		if err := s.intake.Push(world.Intent{PlayerID: s.Player, Key: key}); err != nil {
			// 丢弃该意图，会话继续
			s.log.Debugw("intent dropped", "key", key, "err", err)
		}
	}
}

func (s *Session) writePump(ctx context.Context) error {
	w := bufio.NewWriterSize(s.stream, sessionWriteBuffer)
	var seen uint64
	for {
		snap, v, err := s.slot.Wait(ctx, seen)
		if err != nil {
			return err
		}
		seen = v
		if err := protocol.WriteSnapshot(w, snap); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("flush snapshot: %w", err)
		}
		s.metrics.IncSent()
	}
}

func (s *Session) close() error {
	s.closeOnce.Do(func() {
		s.transition(StateClosed)
		if err := s.stream.Close(); err != nil && !errors.Is(err, ErrSessionClosed) {
			s.closeErr = fmt.Errorf("close stream: %w", err)
		}
	})
	return s.closeErr
}

func (s *Session) transition(to SessionState) {
	from := s.state.Load()
	if s.state.advance(to) {
		s.log.Debugw("session state", "from", from, "to", to)
	}
}
