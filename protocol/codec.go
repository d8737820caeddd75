// Package protocol 定义服务端与客户端之间的线上格式：
//
//	S→C 一次：uint8 玩家编号
//	S→C 多次：uint32 大端长度 + msgpack 编码的世界快照
//	C→S 多次：uint32 大端按键码
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"brickduel/world"
)

// MaxFrameSize 单帧快照上限，超出视为异常数据
const MaxFrameSize = 1 << 20

var (
	ErrMalformed     = errors.New("protocol: malformed payload")
	ErrFrameTooLarge = errors.New("protocol: frame too large")
	ErrBadPlayerID   = errors.New("protocol: bad player id")
)

func WritePlayerID(w io.Writer, id world.PlayerID) error {
	if !id.Valid() {
		return fmt.Errorf("%w: %d", ErrBadPlayerID, id)
	}
	_, err := w.Write([]byte{byte(id)})
	return err
}

func ReadPlayerID(r io.Reader) (world.PlayerID, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	id := world.PlayerID(b[0])
	if !id.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrBadPlayerID, id)
	}
	return id, nil
}

func WriteKeyCode(w io.Writer, key world.KeyCode) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(key))
	_, err := w.Write(b[:])
	return err
}

// ReadKeyCode 读取一个定长按键码，允许底层分多次返回
func ReadKeyCode(r io.Reader) (world.KeyCode, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return world.KeyCode(binary.BigEndian.Uint32(b[:])), nil
}

// EncodeSnapshot 将快照编码为一帧（含长度前缀）
func EncodeSnapshot(s world.Snapshot) ([]byte, error) {
	body, err := msgpack.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	if len(body) > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(body))
	}
	frame := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(frame, uint32(len(body)))
	copy(frame[4:], body)
	return frame, nil
}

// WriteSnapshot 写出一帧快照；调用方负责 flush
func WriteSnapshot(w io.Writer, s world.Snapshot) error {
	frame, err := EncodeSnapshot(s)
	if err != nil {
		return err
	}
	_, err = w.Write(frame)
	return err
}

// ReadSnapshot 读取一帧快照。长度不足或内容损坏时返回错误，不做部分恢复
func ReadSnapshot(r io.Reader) (world.Snapshot, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return world.Snapshot{}, err
	}
	n := binary.BigEndian.Uint32(hdr[:])
	if n > MaxFrameSize {
		return world.Snapshot{}, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, n)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return world.Snapshot{}, err
	}
	return DecodeSnapshot(body)
}

// DecodeSnapshot 解码不含长度前缀的快照内容
func DecodeSnapshot(body []byte) (world.Snapshot, error) {
	var s world.Snapshot
	if err := msgpack.Unmarshal(body, &s); err != nil {
		return world.Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for i, p := range s.Paddles {
		if p.PlayerID != world.PlayerID(i) {
			return world.Snapshot{}, fmt.Errorf("%w: paddle %d has player id %d", ErrMalformed, i, p.PlayerID)
		}
	}
	return s, nil
}
