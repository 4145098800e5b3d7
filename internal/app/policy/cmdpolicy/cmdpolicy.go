// internal/app/policy/cmdpolicy/cmdpolicy.go

// Package cmdpolicy decides whether a session may run a command keyword.
//
// Authorization tiers:
//   - open: LOGIN, REGISTER
//   - login required: LOGOUT, CREATE, JOIN, ACCEPT, LIST_GROUPS
//   - group membership required: UPLOAD, DOWNLOAD, LEAVE, LIST_MEMBERS,
//     COPY_FILE, MOVE_FILE, MKDIR, COPY_FOLDER, MOVE_FOLDER, LIST_CONTENT
//   - group leadership required: APPROVE, INVITE, KICK, LIST_REQUESTS,
//     RENAME_FILE, DELETE_FILE, RENAME_FOLDER, RMDIR
package cmdpolicy

import (
	"github.com/groupdrop/groupdrop/internal/app/protocol"
	"github.com/groupdrop/groupdrop/internal/app/store/directory"
	"github.com/groupdrop/groupdrop/internal/domain/models"
)

// Session is the per-connection view the guard evaluates. GroupID is a
// cache of the account's group and is resynchronized from the account
// table before every group or leadership decision; another session may
// have kicked, approved, or dissolved under us since the last command.
type Session struct {
	Username string
	LoggedIn bool
	GroupID  int
}

type tier int

const (
	tierOpen tier = iota
	tierLogin
	tierMember
	tierLeader
)

var commandTiers = map[string]tier{
	"LOGIN":    tierOpen,
	"REGISTER": tierOpen,

	"LOGOUT":      tierLogin,
	"CREATE":      tierLogin,
	"JOIN":        tierLogin,
	"ACCEPT":      tierLogin,
	"LIST_GROUPS": tierLogin,

	"UPLOAD":       tierMember,
	"DOWNLOAD":     tierMember,
	"LEAVE":        tierMember,
	"LIST_MEMBERS": tierMember,
	"COPY_FILE":    tierMember,
	"MOVE_FILE":    tierMember,
	"MKDIR":        tierMember,
	"COPY_FOLDER":  tierMember,
	"MOVE_FOLDER":  tierMember,
	"LIST_CONTENT": tierMember,

	"APPROVE":       tierLeader,
	"INVITE":        tierLeader,
	"KICK":          tierLeader,
	"LIST_REQUESTS": tierLeader,
	"RENAME_FILE":   tierLeader,
	"DELETE_FILE":   tierLeader,
	"RENAME_FOLDER": tierLeader,
	"RMDIR":         tierLeader,
}

// Known reports whether the keyword is a protocol command.
func Known(command string) bool {
	_, ok := commandTiers[command]
	return ok
}

// Guard returns the denial code for running command in the given session
// state, or ok=true when the command is allowed. As a side effect it
// refreshes sess.GroupID from the account table, so a passing handler
// may trust the cached value for the duration of the command.
func Guard(command string, sess *Session, dir *directory.Directory) (denial protocol.Code, ok bool) {
	t, known := commandTiers[command]
	if !known {
		return protocol.CodeSyntaxError, false
	}
	if t == tierOpen {
		return 0, true
	}
	if !sess.LoggedIn {
		return protocol.CodeNotLoggedIn, false
	}
	if t == tierLogin {
		return 0, true
	}

	// The account record is authoritative; the session only caches it.
	gid, exists := dir.Accounts.GroupOf(sess.Username)
	if !exists {
		gid = models.NoGroup
	}
	sess.GroupID = gid

	if gid == models.NoGroup {
		return protocol.CodeNotInGroup, false
	}
	if t == tierMember {
		return 0, true
	}
	if !dir.Groups.IsLeader(sess.Username, gid) {
		return protocol.CodeNotLeader, false
	}
	return 0, true
}
