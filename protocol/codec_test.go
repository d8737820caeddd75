package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"reflect"
	"testing"
	"testing/iotest"

	"brickduel/world"
)

func TestSnapshotFrameSurvivesPartialReads(t *testing.T) {
	snap := world.Step(world.NewWorld(world.DefaultLayout()), []world.Intent{{PlayerID: world.PlayerBottom, Key: world.KeyLaunch}}, world.DefaultTuning())

	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, snap); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	if err := WriteSnapshot(&buf, snap); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	r := iotest.OneByteReader(&buf)
	for i := 0; i < 2; i++ {
		got, err := ReadSnapshot(r)
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if !reflect.DeepEqual(got, snap) {
			t.Fatalf("frame %d mismatch:\n got=%+v\nwant=%+v", i, got, snap)
		}
	}
	if _, err := ReadSnapshot(r); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF at stream end, got %v", err)
	}
}

func TestFrameLengthPrefix(t *testing.T) {
	frame, err := EncodeSnapshot(world.NewWorld(world.DefaultLayout()))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if n := binary.BigEndian.Uint32(frame); int(n) != len(frame)-4 {
		t.Fatalf("prefix %d does not match body %d", n, len(frame)-4)
	}
}

func TestReadSnapshotErrors(t *testing.T) {
	valid, err := EncodeSnapshot(world.NewWorld(world.DefaultLayout()))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	swapped := world.NewWorld(world.DefaultLayout())
	swapped.Paddles[0], swapped.Paddles[1] = swapped.Paddles[1], swapped.Paddles[0]
	swappedFrame, err := EncodeSnapshot(swapped)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	huge := make([]byte, 4)
	binary.BigEndian.PutUint32(huge, MaxFrameSize+1)

	tests := []struct {
		name string
		in   []byte
		want error
	}{
		{"short header", []byte{0, 0}, io.ErrUnexpectedEOF},
		{"truncated body", valid[:len(valid)-3], io.ErrUnexpectedEOF},
		{"header only", valid[:4], io.ErrUnexpectedEOF},
		{"garbage body", []byte{0, 0, 0, 1, 0xc1}, ErrMalformed},
		{"paddle ids out of order", swappedFrame, ErrMalformed},
		{"oversized", huge, ErrFrameTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSnapshot(bytes.NewReader(tt.in))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestPlayerIDByte(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePlayerID(&buf, world.PlayerTop); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.Len() != 1 || buf.Bytes()[0] != 1 {
		t.Fatalf("expected single byte 0x01, got %v", buf.Bytes())
	}
	id, err := ReadPlayerID(&buf)
	if err != nil || id != world.PlayerTop {
		t.Fatalf("read id=%d err=%v", id, err)
	}

	if err := WritePlayerID(&buf, world.PlayerID(2)); !errors.Is(err, ErrBadPlayerID) {
		t.Fatalf("expected ErrBadPlayerID on write, got %v", err)
	}
	if _, err := ReadPlayerID(bytes.NewReader([]byte{9})); !errors.Is(err, ErrBadPlayerID) {
		t.Fatalf("expected ErrBadPlayerID on read, got %v", err)
	}
}

func TestKeyCodeIsBigEndian(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteKeyCode(&buf, world.KeyLeft); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), []byte{0, 0, 0x01, 0x07}) {
		t.Fatalf("unexpected bytes %v", buf.Bytes())
	}

	key, err := ReadKeyCode(iotest.HalfReader(&buf))
	if err != nil || key != world.KeyLeft {
		t.Fatalf("read key=%d err=%v", key, err)
	}
	if _, err := ReadKeyCode(bytes.NewReader([]byte{0, 1})); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}
