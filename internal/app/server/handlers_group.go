// internal/app/server/handlers_group.go
package server

import (
	"errors"

	"go.uber.org/zap"

	"github.com/groupdrop/groupdrop/internal/app/protocol"
	accountstore "github.com/groupdrop/groupdrop/internal/app/store/accounts"
	"github.com/groupdrop/groupdrop/internal/app/store/directory"
	groupstore "github.com/groupdrop/groupdrop/internal/app/store/groups"
	invitestore "github.com/groupdrop/groupdrop/internal/app/store/invites"
	requeststore "github.com/groupdrop/groupdrop/internal/app/store/requests"
	"github.com/groupdrop/groupdrop/internal/app/system/validators"
	"github.com/groupdrop/groupdrop/internal/domain/models"
)

// CREATE <group_name>
func (c *conn) handleCreate(args []string) protocol.Code {
	if len(args) != 1 || !validators.ValidName(args[0]) {
		return c.syntax()
	}
	g, err := c.srv.dir.CreateGroup(args[0], c.sess.Username)
	switch {
	case errors.Is(err, groupstore.ErrNameTaken):
		return c.send(protocol.CodeNameConflict)
	case errors.Is(err, groupstore.ErrTableFull):
		return c.send(protocol.CodeWrongResource)
	case errors.Is(err, directory.ErrAlreadyGrouped):
		return c.send(protocol.CodeAlreadyGrouped)
	case err != nil:
		c.log.Error("create group failed", zap.Error(err))
		return c.send(protocol.CodeNotFound)
	}
	c.sess.GroupID = g.ID
	c.log.Info("group created", zap.String("group", g.Name), zap.Int("group_id", g.ID))
	return c.send(protocol.CodeGroupCreated)
}

// JOIN <group_name>
func (c *conn) handleJoin(args []string) protocol.Code {
	if len(args) != 1 {
		return c.syntax()
	}
	err := c.srv.dir.JoinRequest(c.sess.Username, args[0])
	switch {
	case errors.Is(err, directory.ErrNoSuchGroup):
		return c.send(protocol.CodeNotFound)
	case errors.Is(err, directory.ErrAlreadyGrouped):
		return c.send(protocol.CodeAlreadyGrouped)
	case errors.Is(err, requeststore.ErrTableFull):
		return c.send(protocol.CodeWrongResource)
	case err != nil:
		c.log.Error("join request failed", zap.Error(err))
		return c.send(protocol.CodeNotFound)
	}
	return c.send(protocol.CodeJoinSent)
}

// APPROVE <username>
func (c *conn) handleApprove(args []string) protocol.Code {
	if len(args) != 1 {
		return c.syntax()
	}
	err := c.srv.dir.Approve(c.sess.Username, args[0])
	switch {
	case errors.Is(err, directory.ErrNoSuchRequest):
		return c.send(protocol.CodeNotFound)
	case errors.Is(err, accountstore.ErrNoSuchAccount):
		return c.send(protocol.CodeNoSuchAccount)
	case err != nil:
		c.log.Error("approve failed", zap.Error(err))
		return c.send(protocol.CodeNotFound)
	}
	c.log.Info("approved member", zap.String("user", args[0]), zap.Int("group_id", c.sess.GroupID))
	return c.send(protocol.CodeApproveOK)
}

// INVITE <username>
func (c *conn) handleInvite(args []string) protocol.Code {
	if len(args) != 1 {
		return c.syntax()
	}
	err := c.srv.dir.Invite(c.sess.Username, args[0])
	switch {
	case errors.Is(err, accountstore.ErrNoSuchAccount):
		return c.send(protocol.CodeNoSuchAccount)
	case errors.Is(err, directory.ErrAlreadyGrouped):
		return c.send(protocol.CodeAlreadyGrouped)
	case errors.Is(err, invitestore.ErrTableFull):
		return c.send(protocol.CodeWrongResource)
	case err != nil:
		c.log.Error("invite failed", zap.Error(err))
		return c.send(protocol.CodeNotFound)
	}
	return c.send(protocol.CodeInviteSent)
}

// ACCEPT <group_name>
func (c *conn) handleAccept(args []string) protocol.Code {
	if len(args) != 1 {
		return c.syntax()
	}
	err := c.srv.dir.Accept(c.sess.Username, args[0])
	switch {
	case errors.Is(err, directory.ErrNoSuchGroup), errors.Is(err, directory.ErrNoSuchInvite):
		return c.send(protocol.CodeNotFound)
	case errors.Is(err, directory.ErrAlreadyGrouped):
		return c.send(protocol.CodeAlreadyGrouped)
	case err != nil:
		c.log.Error("accept failed", zap.Error(err))
		return c.send(protocol.CodeNotFound)
	}
	if gid, ok := c.srv.dir.Accounts.GroupOf(c.sess.Username); ok {
		c.sess.GroupID = gid
	}
	return c.send(protocol.CodeAcceptOK)
}

// LEAVE
func (c *conn) handleLeave(args []string) protocol.Code {
	if len(args) != 0 {
		return c.syntax()
	}
	err := c.srv.dir.Leave(c.sess.Username)
	switch {
	case errors.Is(err, directory.ErrMembersRemain):
		return c.send(protocol.CodeMembersRemain)
	case err != nil:
		c.log.Error("leave failed", zap.Error(err))
		return c.send(protocol.CodeNotFound)
	}
	c.log.Info("left group", zap.String("user", c.sess.Username), zap.Int("group_id", c.sess.GroupID))
	c.sess.GroupID = models.NoGroup
	return c.send(protocol.CodeLeaveOK)
}

// KICK <username>
func (c *conn) handleKick(args []string) protocol.Code {
	if len(args) != 1 {
		return c.syntax()
	}
	err := c.srv.dir.Kick(c.sess.Username, args[0])
	switch {
	case errors.Is(err, accountstore.ErrNotInGroup):
		return c.send(protocol.CodeNotFound)
	case err != nil:
		c.log.Error("kick failed", zap.Error(err))
		return c.send(protocol.CodeNotFound)
	}
	c.log.Info("kicked member", zap.String("user", args[0]), zap.Int("group_id", c.sess.GroupID))
	return c.send(protocol.CodeKickOK)
}

// LIST_GROUPS
func (c *conn) handleListGroups(args []string) protocol.Code {
	if len(args) != 0 {
		return c.syntax()
	}
	return c.sendText(protocol.CodeGroupList, c.srv.dir.ListGroups())
}

// LIST_MEMBERS
func (c *conn) handleListMembers(args []string) protocol.Code {
	if len(args) != 0 {
		return c.syntax()
	}
	return c.sendText(protocol.CodeMemberList, c.srv.dir.ListMembers(c.sess.GroupID))
}

// LIST_REQUESTS
func (c *conn) handleListRequests(args []string) protocol.Code {
	if len(args) != 0 {
		return c.syntax()
	}
	return c.sendText(protocol.CodeRequestList, c.srv.dir.ListRequests(c.sess.GroupID))
}
