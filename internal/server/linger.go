package server

import (
	"io"
	"net"
	"sync"
	"time"
)

// maxDrain は接続を閉じる前に読み捨てる受信データの上限
const maxDrain = 256 << 10

type closeWriter interface {
	CloseWrite() error
}

// lingeringClose は送信側を閉じ、クライアントの残りのデータを読み捨ててから接続を閉じる
// 未読データを残して閉じるとRSTが送られ、送信済みのレスポンスをクライアントが受け取れないことがある
func lingeringClose(conn net.Conn, timeout time.Duration) error {
	cw, ok := conn.(closeWriter)
	if !ok || timeout <= 0 {
		return conn.Close()
	}

	if err := cw.CloseWrite(); err == nil {
		if err := conn.SetReadDeadline(time.Now().Add(timeout)); err == nil {
			_, _ = io.Copy(io.Discard, io.LimitReader(conn, maxDrain))
		}
	}
	return conn.Close()
}

// lingerListener は受け付けたTCP接続の Close を lingeringClose に差し替える
// netutil.LimitListener の内側に置くことで、制限付きの接続でも CloseWrite が使える
type lingerListener struct {
	net.Listener
	timeout time.Duration
}

func (l *lingerListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	if tc, ok := conn.(*net.TCPConn); ok && l.timeout > 0 {
		return &lingerConn{TCPConn: tc, timeout: l.timeout}, nil
	}
	return conn, nil
}

// lingerConn は Close で lingeringClose を行うTCP接続
type lingerConn struct {
	*net.TCPConn
	timeout time.Duration

	once sync.Once
	err  error
}

func (c *lingerConn) Close() error {
	c.once.Do(func() {
		c.err = lingeringClose(c.TCPConn, c.timeout)
	})
	return c.err
}
