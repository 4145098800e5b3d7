// internal/app/server/handlers_file.go
package server

import (
	"errors"

	"go.uber.org/zap"

	"github.com/groupdrop/groupdrop/internal/app/protocol"
	"github.com/groupdrop/groupdrop/internal/app/storagefs"
	"github.com/groupdrop/groupdrop/internal/app/system/validators"
)

// space returns the sandboxed storage space of the session's group.
// The guard has already resynced and verified membership.
func (c *conn) space() (storagefs.Space, bool) {
	root, err := c.srv.dir.GroupFolder(c.sess.GroupID)
	if err != nil {
		c.log.Error("group folder unavailable", zap.Int("group_id", c.sess.GroupID), zap.Error(err))
		return storagefs.Space{}, false
	}
	return storagefs.NewSpace(root), true
}

// fileCode maps a storagefs outcome to the wire code, with okCode for
// success. Type mismatches answer 506 per the canonical catalog.
func fileCode(err error, okCode protocol.Code) protocol.Code {
	switch {
	case err == nil:
		return okCode
	case errors.Is(err, storagefs.ErrExists):
		return protocol.CodeNameConflict
	case errors.Is(err, storagefs.ErrBusy):
		return protocol.CodeBusy
	case errors.Is(err, storagefs.ErrBadDestination):
		return protocol.CodeBadDestination
	case errors.Is(err, storagefs.ErrIsDir), errors.Is(err, storagefs.ErrIsFile):
		return protocol.CodeWrongType
	default:
		return protocol.CodeNotFound
	}
}

// RENAME_FILE <old_path> <new_name>
func (c *conn) handleRenameFile(args []string) protocol.Code {
	if len(args) != 2 || !validators.ValidPath(args[0]) || !validators.ValidName(args[1]) {
		return c.syntax()
	}
	sp, ok := c.space()
	if !ok {
		return c.send(protocol.CodeNotFound)
	}
	return c.send(fileCode(sp.RenameFile(args[0], args[1]), protocol.CodeFileRenamed))
}

// DELETE_FILE <path>
func (c *conn) handleDeleteFile(args []string) protocol.Code {
	if len(args) != 1 || !validators.ValidPath(args[0]) {
		return c.syntax()
	}
	sp, ok := c.space()
	if !ok {
		return c.send(protocol.CodeNotFound)
	}
	return c.send(fileCode(sp.DeleteFile(args[0]), protocol.CodeFileDeleted))
}

// COPY_FILE <src> <dst>
func (c *conn) handleCopyFile(args []string) protocol.Code {
	if len(args) != 2 || !validators.ValidPath(args[0]) || !validators.ValidPath(args[1]) {
		return c.syntax()
	}
	sp, ok := c.space()
	if !ok {
		return c.send(protocol.CodeNotFound)
	}
	return c.send(fileCode(sp.CopyFile(args[0], args[1]), protocol.CodeFileCopied))
}

// MOVE_FILE <src> <dest_dir>
func (c *conn) handleMoveFile(args []string) protocol.Code {
	if len(args) != 2 || !validators.ValidPath(args[0]) || !validators.ValidPath(args[1]) {
		return c.syntax()
	}
	sp, ok := c.space()
	if !ok {
		return c.send(protocol.CodeNotFound)
	}
	return c.send(fileCode(sp.MoveFile(args[0], args[1]), protocol.CodeFileMoved))
}
