package server

import "errors"

var (
	ErrUnknownPlayer = errors.New("server: unknown player id")
	ErrIntakeFull    = errors.New("server: intake full")
	ErrRoomFull      = errors.New("server: room full")
	ErrSessionClosed = errors.New("server: session closed")
)
