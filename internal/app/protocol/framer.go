// internal/app/protocol/framer.go
package protocol

import (
	"bytes"
	"errors"
	"io"

	"github.com/groupdrop/groupdrop/internal/app/system/limits"
)

// ErrBufferOverflow is returned when the receive buffer fills up without
// a \r\n delimiter appearing. The connection is unrecoverable at that
// point: there is no way to tell where the oversized line ends.
var ErrBufferOverflow = errors.New("protocol: receive buffer full without delimiter")

var crlf = []byte("\r\n")

// Framer accumulates raw bytes from one connection and yields
// \r\n-delimited control lines. Bytes past a line's delimiter stay
// buffered; during a transfer they are the first chunk of the binary
// payload and are recovered with TakeLeftover rather than re-read from
// the socket.
//
// The framer makes no assumption about read boundaries: a line may
// arrive byte-by-byte or glued to the next message, and the result is
// identical.
type Framer struct {
	buf []byte
	n   int
}

// NewFramer returns a framer with the standard fixed-capacity buffer.
func NewFramer() *Framer {
	return &Framer{buf: make([]byte, limits.RecvBuffer)}
}

// Feed appends raw bytes to the buffer. It fails with ErrBufferOverflow
// if the bytes do not fit.
func (f *Framer) Feed(p []byte) error {
	if f.n+len(p) > len(f.buf) {
		return ErrBufferOverflow
	}
	copy(f.buf[f.n:], p)
	f.n += len(p)
	return nil
}

// NextLine scans buffered bytes for the first \r\n. If found, it returns
// the line before the delimiter and compacts the buffer so that any
// remainder (possibly binary payload) moves to the front.
func (f *Framer) NextLine() (string, bool) {
	i := bytes.Index(f.buf[:f.n], crlf)
	if i < 0 {
		return "", false
	}
	line := string(f.buf[:i])
	rest := f.n - (i + len(crlf))
	copy(f.buf, f.buf[i+len(crlf):f.n])
	f.n = rest
	return line, true
}

// TakeLeftover removes and returns up to n already-buffered bytes. It is
// used by the transfer engine to consume payload bytes that arrived in
// the same read as the command line.
func (f *Framer) TakeLeftover(n int) []byte {
	if n > f.n {
		n = f.n
	}
	if n <= 0 {
		return nil
	}
	out := make([]byte, n)
	copy(out, f.buf[:n])
	copy(f.buf, f.buf[n:f.n])
	f.n -= n
	return out
}

// Buffered reports how many bytes are currently held.
func (f *Framer) Buffered() int { return f.n }

// ReadLine blocks on r until a full control line is available, feeding
// reads of arbitrary size into the buffer. It returns ErrBufferOverflow
// if the buffer fills without a delimiter, or the read error (io.EOF on
// clean disconnect).
func (f *Framer) ReadLine(r io.Reader) (string, error) {
	for {
		if line, ok := f.NextLine(); ok {
			return line, nil
		}
		if f.n >= len(f.buf) {
			return "", ErrBufferOverflow
		}
		m, err := r.Read(f.buf[f.n:])
		if m > 0 {
			f.n += m
			continue
		}
		if err == nil {
			err = io.ErrNoProgress
		}
		return "", err
	}
}
