// internal/app/protocol/codes.go

// Package protocol defines the wire-level pieces of the groupdrop control
// protocol: the numeric response-code catalog and the connection framer
// that splits a TCP byte stream into \r\n-delimited control lines while
// preserving any trailing binary payload bytes.
package protocol

import "strconv"

// Code is a 3-digit response code. Every server reply starts with one,
// optionally followed by a space and free-form payload text.
type Code int

// Response code catalog. The mapping is canonical: handlers must not
// reuse a code for a second meaning.
const (
	CodeGreeting      Code = 100
	CodeLoginOK       Code = 110
	CodeRegisterOK    Code = 120
	CodeLogoutOK      Code = 130
	CodeUploadDone    Code = 140
	CodeUploadReady   Code = 141
	CodeDownloadDone  Code = 150
	CodeDownloadReady Code = 151
	CodeJoinSent      Code = 160
	CodeApproveOK     Code = 170
	CodeInviteSent    Code = 180
	CodeAcceptOK      Code = 190

	CodeLeaveOK      Code = 200
	CodeKickOK       Code = 201
	CodeGroupCreated Code = 202
	CodeGroupList    Code = 203
	CodeMemberList   Code = 204
	CodeRequestList  Code = 205

	CodeFileRenamed Code = 210
	CodeFileDeleted Code = 211
	CodeFileCopied  Code = 212
	CodeFileMoved   Code = 213

	CodeDirCreated Code = 220
	CodeDirRenamed Code = 221
	CodeDirDeleted Code = 222
	CodeDirCopied  Code = 223
	CodeDirMoved   Code = 224
	CodeDirListing Code = 225

	CodeSyntaxError Code = 300

	CodeNotLoggedIn     Code = 400
	CodeWrongPassword   Code = 401
	CodeNoSuchAccount   Code = 402
	CodeAlreadyLoggedIn Code = 403
	CodeNotInGroup      Code = 404
	CodeNotLeader       Code = 406
	CodeAlreadyGrouped  Code = 407
	CodeMembersRemain   Code = 408

	CodeNotFound       Code = 500
	CodeNameConflict   Code = 501
	CodeWriteFailed    Code = 502
	CodeBadDestination Code = 503
	CodeWrongResource  Code = 504
	CodeBusy           Code = 505
	CodeWrongType      Code = 506
)

func (c Code) String() string { return strconv.Itoa(int(c)) }
