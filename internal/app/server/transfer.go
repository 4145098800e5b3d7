// internal/app/server/transfer.go
package server

import (
	"errors"
	"io"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/groupdrop/groupdrop/internal/app/protocol"
	"github.com/groupdrop/groupdrop/internal/app/storagefs"
	"github.com/groupdrop/groupdrop/internal/app/system/limits"
	"github.com/groupdrop/groupdrop/internal/app/system/validators"
)

// UPLOAD <path> <size>
//
// After 141 the client sends exactly size raw bytes on the same socket.
// Bytes the framer buffered past the command line are the start of the
// payload and are consumed before any further socket read. The size
// announcement is the only boundary: payload bytes are never scanned
// for delimiters.
func (c *conn) handleUpload(args []string) protocol.Code {
	if len(args) != 2 || !validators.ValidPath(args[0]) {
		return c.syntax()
	}
	size, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || size < 0 {
		return c.syntax()
	}
	sp, ok := c.space()
	if !ok {
		return c.send(protocol.CodeWriteFailed)
	}
	f, release, err := sp.OpenUpload(args[0])
	if err != nil {
		return c.send(protocol.CodeWriteFailed)
	}
	defer release()

	c.reply(protocol.CodeUploadReady, "")
	if c.werr != nil {
		return protocol.CodeUploadReady
	}

	// On a local write failure the remaining payload is still drained
	// so the byte stream stays framed; the client learns via 502.
	var writeErr error
	buf := make([]byte, limits.RecvChunk)
	remaining := size
	for remaining > 0 {
		var chunk []byte
		if c.fr.Buffered() > 0 {
			want := remaining
			if want > int64(limits.RecvChunk) {
				want = int64(limits.RecvChunk)
			}
			chunk = c.fr.TakeLeftover(int(want))
		} else {
			want := remaining
			if want > int64(len(buf)) {
				want = int64(len(buf))
			}
			// The idle deadline gauges idleness, not total transfer
			// time; each payload read gets a fresh window.
			if c.srv.cfg.IdleTimeout > 0 {
				_ = c.nc.SetReadDeadline(time.Now().Add(c.srv.cfg.IdleTimeout))
			}
			n, rerr := c.nc.Read(buf[:want])
			if n > 0 {
				chunk = buf[:n]
			} else if rerr != nil {
				// Connection died mid-transfer: abort silently, no
				// response; the worker tears down.
				c.werr = rerr
				c.log.Warn("upload aborted", zap.String("path", args[0]),
					zap.Int64("missing", remaining), zap.Error(rerr))
				return protocol.CodeUploadReady
			}
		}
		if len(chunk) == 0 {
			continue
		}
		remaining -= int64(len(chunk))
		if writeErr == nil {
			if _, werr := f.Write(chunk); werr != nil {
				writeErr = werr
			}
		}
	}

	if writeErr != nil {
		c.log.Error("upload write failed", zap.String("path", args[0]), zap.Error(writeErr))
		return c.send(protocol.CodeWriteFailed)
	}
	c.log.Info("upload complete", zap.String("path", args[0]), zap.Int64("bytes", size))
	return c.send(protocol.CodeUploadDone)
}

// DOWNLOAD <path>
//
// Replies "151 <size>", streams exactly size raw bytes, then "150".
// A non-blocking shared-lock probe answers 505 while the file is
// mid-upload.
func (c *conn) handleDownload(args []string) protocol.Code {
	if len(args) != 1 || !validators.ValidPath(args[0]) {
		return c.syntax()
	}
	sp, ok := c.space()
	if !ok {
		return c.send(protocol.CodeNotFound)
	}
	f, size, release, err := sp.OpenDownload(args[0])
	switch {
	case errors.Is(err, storagefs.ErrBusy):
		return c.send(protocol.CodeBusy)
	case errors.Is(err, storagefs.ErrIsDir):
		return c.send(protocol.CodeWrongResource)
	case err != nil:
		return c.send(protocol.CodeNotFound)
	}
	defer release()

	c.reply(protocol.CodeDownloadReady, strconv.FormatInt(size, 10))

	buf := make([]byte, limits.SendChunk)
	sent := int64(0)
	for sent < size && c.werr == nil {
		n, rerr := f.Read(buf)
		if n > 0 {
			if sent+int64(n) > size {
				// The announced size is the contract; never ship more.
				n = int(size - sent)
			}
			c.sendRaw(buf[:n])
			sent += int64(n)
		}
		if rerr != nil {
			if rerr != io.EOF {
				c.log.Error("download read failed", zap.String("path", args[0]), zap.Error(rerr))
			}
			break
		}
	}
	if sent < size && c.werr == nil {
		// Short file read: the byte count promised to the client can no
		// longer be honored, so the stream is unrecoverable.
		c.werr = io.ErrUnexpectedEOF
		return protocol.CodeDownloadReady
	}
	c.log.Info("download complete", zap.String("path", args[0]), zap.Int64("bytes", sent))
	return c.send(protocol.CodeDownloadDone)
}
