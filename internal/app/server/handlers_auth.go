// internal/app/server/handlers_auth.go
package server

import (
	"errors"

	"go.uber.org/zap"

	"github.com/groupdrop/groupdrop/internal/app/policy/cmdpolicy"
	"github.com/groupdrop/groupdrop/internal/app/protocol"
	accountstore "github.com/groupdrop/groupdrop/internal/app/store/accounts"
	"github.com/groupdrop/groupdrop/internal/app/system/validators"
	"github.com/groupdrop/groupdrop/internal/domain/models"
)

// REGISTER <username> <password>
func (c *conn) handleRegister(args []string) protocol.Code {
	if len(args) != 2 || !validators.ValidName(args[0]) || !validators.ValidName(args[1]) {
		return c.syntax()
	}
	if c.sess.LoggedIn {
		return c.send(protocol.CodeAlreadyLoggedIn)
	}
	err := c.srv.dir.Register(args[0], args[1])
	switch {
	case errors.Is(err, accountstore.ErrUsernameTaken):
		return c.send(protocol.CodeNameConflict)
	case errors.Is(err, accountstore.ErrTableFull):
		return c.send(protocol.CodeWrongResource)
	case err != nil:
		c.log.Error("register failed", zap.Error(err))
		return c.send(protocol.CodeNotFound)
	}
	c.log.Info("registered", zap.String("user", args[0]))
	return c.send(protocol.CodeRegisterOK)
}

// LOGIN <username> <password>
func (c *conn) handleLogin(args []string) protocol.Code {
	if len(args) != 2 {
		return c.syntax()
	}
	if c.sess.LoggedIn {
		return c.send(protocol.CodeAlreadyLoggedIn)
	}
	username, password := args[0], args[1]
	err := c.srv.dir.Login(username, password)
	switch {
	case errors.Is(err, accountstore.ErrNoSuchAccount):
		return c.send(protocol.CodeNoSuchAccount)
	case errors.Is(err, accountstore.ErrWrongPassword):
		return c.send(protocol.CodeWrongPassword)
	case errors.Is(err, accountstore.ErrAlreadyActive):
		return c.send(protocol.CodeAlreadyLoggedIn)
	case err != nil:
		c.log.Error("login failed", zap.Error(err))
		return c.send(protocol.CodeNotFound)
	}
	c.sess.Username = username
	c.sess.LoggedIn = true
	if gid, ok := c.srv.dir.Accounts.GroupOf(username); ok {
		c.sess.GroupID = gid
	} else {
		c.sess.GroupID = models.NoGroup
	}
	c.log.Info("login", zap.String("user", username))
	return c.send(protocol.CodeLoginOK)
}

// LOGOUT
func (c *conn) handleLogout(args []string) protocol.Code {
	if len(args) != 0 {
		return c.syntax()
	}
	c.srv.dir.Logout(c.sess.Username)
	c.log.Info("logout", zap.String("user", c.sess.Username))
	c.sess = cmdpolicy.Session{GroupID: models.NoGroup}
	return c.send(protocol.CodeLogoutOK)
}
