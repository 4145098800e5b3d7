// internal/testutil/fixtures.go

// Package testutil provides fixtures shared by package tests: temp-dir
// backed directories, a running protocol server, and a minimal test
// client speaking the wire format.
package testutil

import (
	"bufio"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/groupdrop/groupdrop/internal/app/server"
	"github.com/groupdrop/groupdrop/internal/app/store/directory"
	"github.com/groupdrop/groupdrop/internal/app/store/persist"
	"github.com/groupdrop/groupdrop/internal/app/system/auditlog"
)

// NewDirectory builds a Directory over temp data and storage dirs that
// vanish with the test.
func NewDirectory(t *testing.T) *directory.Directory {
	t.Helper()
	files := persist.New(t.TempDir())
	dir := directory.New(files, t.TempDir(), zap.NewNop())
	if err := dir.Load(); err != nil {
		t.Fatalf("load empty directory: %v", err)
	}
	return dir
}

// SeedAccount registers an account or fails the test.
func SeedAccount(t *testing.T, dir *directory.Directory, user, pass string) {
	t.Helper()
	if err := dir.Register(user, pass); err != nil {
		t.Fatalf("seed account %s: %v", user, err)
	}
}

// StartServer runs a protocol server on a loopback port and returns it
// with its dial address. The server is closed with the test.
func StartServer(t *testing.T, dir *directory.Directory) (*server.Server, string) {
	t.Helper()
	return StartServerConfig(t, dir, server.Config{})
}

// StartServerConfig is StartServer with explicit server knobs.
func StartServerConfig(t *testing.T, dir *directory.Directory, cfg server.Config) (*server.Server, string) {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := server.New(dir, auditlog.New(zap.NewNop(), auditlog.ModeOff), zap.NewNop(), cfg)
	go srv.Serve(lis)
	t.Cleanup(func() { srv.Close() })
	return srv, lis.Addr().String()
}

// Client is a minimal protocol client for tests.
type Client struct {
	t  *testing.T
	nc net.Conn
	br *bufio.Reader
}

// Dial connects to addr and consumes the 100 greeting.
func Dial(t *testing.T, addr string) *Client {
	t.Helper()
	nc, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		t.Fatalf("dial %s: %v", addr, err)
	}
	c := &Client{t: t, nc: nc, br: bufio.NewReader(nc)}
	t.Cleanup(func() { nc.Close() })
	if got := c.ReadLine(); got != "100" {
		t.Fatalf("greeting: got %q, want %q", got, "100")
	}
	return c
}

// Send writes one command line.
func (c *Client) Send(line string) {
	c.t.Helper()
	if _, err := c.nc.Write([]byte(line + "\r\n")); err != nil {
		c.t.Fatalf("send %q: %v", line, err)
	}
}

// SendRaw writes payload bytes with no delimiter.
func (c *Client) SendRaw(p []byte) {
	c.t.Helper()
	if _, err := c.nc.Write(p); err != nil {
		c.t.Fatalf("send %d payload bytes: %v", len(p), err)
	}
}

// ReadLine reads one \r\n-terminated response line, without the
// delimiter.
func (c *Client) ReadLine() string {
	c.t.Helper()
	line, err := c.br.ReadString('\n')
	if err != nil {
		c.t.Fatalf("read line: %v", err)
	}
	return strings.TrimSuffix(line, "\r\n")
}

// ReadN reads exactly n raw payload bytes.
func (c *Client) ReadN(n int) []byte {
	c.t.Helper()
	buf := make([]byte, n)
	if _, err := io.ReadFull(c.br, buf); err != nil {
		c.t.Fatalf("read %d payload bytes: %v", n, err)
	}
	return buf
}

// Exchange sends a command and returns the single response line.
func (c *Client) Exchange(line string) string {
	c.t.Helper()
	c.Send(line)
	return c.ReadLine()
}

// Close closes the underlying connection.
func (c *Client) Close() { c.nc.Close() }
