package server

import (
	"io"
	"net"
)

// Stream 一个客户端的双向字节流。读写方向互不相干，可分别由两个协程并发使用；
// Close 需能打断正在阻塞的 Read/Write
type Stream interface {
	io.Reader
	io.Writer
	io.Closer
	RemoteAddr() string
}

// tcpStream 直接使用 TCP 连接
type tcpStream struct {
	net.Conn
}

func NewConnStream(c net.Conn) Stream { return tcpStream{c} }

func (s tcpStream) RemoteAddr() string {
	if addr := s.Conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
