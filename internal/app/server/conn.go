// internal/app/server/conn.go
package server

import (
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/groupdrop/groupdrop/internal/app/policy/cmdpolicy"
	"github.com/groupdrop/groupdrop/internal/app/protocol"
	"github.com/groupdrop/groupdrop/internal/domain/models"
)

// conn is the per-connection worker state. It is owned exclusively by
// one goroutine; commands on a connection run strictly sequentially and
// the next command is not read until the previous response went out.
type conn struct {
	srv  *Server
	nc   net.Conn
	fr   *protocol.Framer
	sess cmdpolicy.Session
	log  *zap.Logger
	addr string

	// werr is the first transport write failure; once set the worker
	// stops processing and tears the connection down.
	werr error
}

func newConn(s *Server, nc net.Conn, log *zap.Logger) *conn {
	return &conn{
		srv:  s,
		nc:   nc,
		fr:   protocol.NewFramer(),
		sess: cmdpolicy.Session{GroupID: models.NoGroup},
		log:  log,
		addr: nc.RemoteAddr().String(),
	}
}

func (c *conn) run() {
	defer c.nc.Close()

	c.log.Info("connected")
	c.reply(protocol.CodeGreeting, "")

	for c.werr == nil {
		if c.srv.cfg.IdleTimeout > 0 {
			_ = c.nc.SetReadDeadline(time.Now().Add(c.srv.cfg.IdleTimeout))
		}
		line, err := c.fr.ReadLine(c.nc)
		if err != nil {
			c.log.Info("disconnected", zap.Error(err))
			break
		}
		code := c.dispatch(line)
		c.srv.audit.Record(c.addr, c.sess.Username, line, code.String())
	}

	// Implicit logout: the account's single live session is released
	// whenever its connection dies, however it dies.
	if c.sess.LoggedIn {
		c.srv.dir.Logout(c.sess.Username)
		c.log.Info("auto logout", zap.String("user", c.sess.Username))
	}
}

// reply sends one \r\n-terminated response line. net.Conn.Write returns
// only after the full buffer is accepted or the socket errors, so no
// partial-write loop is needed on top of it.
func (c *conn) reply(code protocol.Code, text string) {
	if c.werr != nil {
		return
	}
	line := code.String()
	if text != "" {
		line += " " + text
	}
	if _, err := c.nc.Write([]byte(line + "\r\n")); err != nil {
		c.werr = err
	}
}

// sendRaw writes undelimited payload bytes.
func (c *conn) sendRaw(p []byte) {
	if c.werr != nil {
		return
	}
	if _, err := c.nc.Write(p); err != nil {
		c.werr = err
	}
}
