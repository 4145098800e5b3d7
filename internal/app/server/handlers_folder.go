// internal/app/server/handlers_folder.go
package server

import (
	"strings"

	"github.com/groupdrop/groupdrop/internal/app/protocol"
	"github.com/groupdrop/groupdrop/internal/app/system/validators"
)

// MKDIR <path>
func (c *conn) handleMkdir(args []string) protocol.Code {
	if len(args) != 1 || !validators.ValidPath(args[0]) {
		return c.syntax()
	}
	sp, ok := c.space()
	if !ok {
		return c.send(protocol.CodeNotFound)
	}
	return c.send(fileCode(sp.Mkdir(args[0]), protocol.CodeDirCreated))
}

// RENAME_FOLDER <old_path> <new_name>
func (c *conn) handleRenameFolder(args []string) protocol.Code {
	if len(args) != 2 || !validators.ValidPath(args[0]) || !validators.ValidName(args[1]) {
		return c.syntax()
	}
	sp, ok := c.space()
	if !ok {
		return c.send(protocol.CodeNotFound)
	}
	return c.send(fileCode(sp.RenameDir(args[0], args[1]), protocol.CodeDirRenamed))
}

// RMDIR <path>
func (c *conn) handleRmdir(args []string) protocol.Code {
	if len(args) != 1 || !validators.ValidPath(args[0]) {
		return c.syntax()
	}
	sp, ok := c.space()
	if !ok {
		return c.send(protocol.CodeNotFound)
	}
	return c.send(fileCode(sp.RemoveDir(args[0]), protocol.CodeDirDeleted))
}

// COPY_FOLDER <src> <dst>
func (c *conn) handleCopyFolder(args []string) protocol.Code {
	if len(args) != 2 || !validators.ValidPath(args[0]) || !validators.ValidPath(args[1]) {
		return c.syntax()
	}
	sp, ok := c.space()
	if !ok {
		return c.send(protocol.CodeNotFound)
	}
	return c.send(fileCode(sp.CopyDir(args[0], args[1]), protocol.CodeDirCopied))
}

// MOVE_FOLDER <src> <dest_dir>
func (c *conn) handleMoveFolder(args []string) protocol.Code {
	if len(args) != 2 || !validators.ValidPath(args[0]) || !validators.ValidPath(args[1]) {
		return c.syntax()
	}
	sp, ok := c.space()
	if !ok {
		return c.send(protocol.CodeNotFound)
	}
	return c.send(fileCode(sp.MoveDir(args[0], args[1]), protocol.CodeDirMoved))
}

// LIST_CONTENT [<path>]
//
// The entry list rides inside one \r\n-terminated response, entries
// separated by bare \n, directories suffixed with "/". A missing path
// argument lists the group root.
func (c *conn) handleListContent(args []string) protocol.Code {
	path := ""
	switch len(args) {
	case 0:
	case 1:
		if !validators.ValidPath(args[0]) {
			return c.syntax()
		}
		path = args[0]
	default:
		return c.syntax()
	}
	sp, ok := c.space()
	if !ok {
		return c.send(protocol.CodeNotFound)
	}
	entries, err := sp.ListContent(path)
	if err != nil {
		return c.send(fileCode(err, protocol.CodeDirListing))
	}
	return c.sendText(protocol.CodeDirListing, strings.Join(entries, "\n"))
}
