// internal/app/server/router.go
package server

import (
	"strings"

	"github.com/groupdrop/groupdrop/internal/app/policy/cmdpolicy"
	"github.com/groupdrop/groupdrop/internal/app/protocol"
)

// dispatch parses one control line, runs the access guard and invokes
// the command handler. It returns the response code that went out, for
// the audit trail. Unknown keywords and malformed argument lists answer
// 300 and change nothing.
func (c *conn) dispatch(line string) protocol.Code {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		c.reply(protocol.CodeSyntaxError, "")
		return protocol.CodeSyntaxError
	}
	cmd, args := fields[0], fields[1:]

	if denial, ok := cmdpolicy.Guard(cmd, &c.sess, c.srv.dir); !ok {
		c.reply(denial, "")
		return denial
	}

	var code protocol.Code
	switch cmd {
	case "REGISTER":
		code = c.handleRegister(args)
	case "LOGIN":
		code = c.handleLogin(args)
	case "LOGOUT":
		code = c.handleLogout(args)
	case "CREATE":
		code = c.handleCreate(args)
	case "JOIN":
		code = c.handleJoin(args)
	case "APPROVE":
		code = c.handleApprove(args)
	case "INVITE":
		code = c.handleInvite(args)
	case "ACCEPT":
		code = c.handleAccept(args)
	case "LEAVE":
		code = c.handleLeave(args)
	case "KICK":
		code = c.handleKick(args)
	case "LIST_GROUPS":
		code = c.handleListGroups(args)
	case "LIST_MEMBERS":
		code = c.handleListMembers(args)
	case "LIST_REQUESTS":
		code = c.handleListRequests(args)
	case "UPLOAD":
		code = c.handleUpload(args)
	case "DOWNLOAD":
		code = c.handleDownload(args)
	case "RENAME_FILE":
		code = c.handleRenameFile(args)
	case "DELETE_FILE":
		code = c.handleDeleteFile(args)
	case "COPY_FILE":
		code = c.handleCopyFile(args)
	case "MOVE_FILE":
		code = c.handleMoveFile(args)
	case "MKDIR":
		code = c.handleMkdir(args)
	case "RENAME_FOLDER":
		code = c.handleRenameFolder(args)
	case "RMDIR":
		code = c.handleRmdir(args)
	case "COPY_FOLDER":
		code = c.handleCopyFolder(args)
	case "MOVE_FOLDER":
		code = c.handleMoveFolder(args)
	case "LIST_CONTENT":
		code = c.handleListContent(args)
	default:
		code = protocol.CodeSyntaxError
		c.reply(code, "")
	}
	return code
}

// syntax replies 300 and returns it; used by handlers on argument
// parse failures.
func (c *conn) syntax() protocol.Code {
	c.reply(protocol.CodeSyntaxError, "")
	return protocol.CodeSyntaxError
}

// send replies with code and empty payload and returns it.
func (c *conn) send(code protocol.Code) protocol.Code {
	c.reply(code, "")
	return code
}

// sendText replies with code and payload text and returns the code.
func (c *conn) sendText(code protocol.Code, text string) protocol.Code {
	c.reply(code, text)
	return code
}
