// internal/app/store/directory/directory.go

// Package directory exposes the account/group/request/invite operations
// behind the control protocol. It composes the four table stores; each
// store serializes its own table, and operations that touch two tables
// take each table's lock separately, never both at once.
//
// CAVEAT: because cross-table updates are two independent locked steps
// (remove a pending request, then set the account's group), a concurrent
// reader can observe the intermediate state. This matches the historical
// behavior of the protocol and is kept deliberately; collapsing the steps
// into one transaction would change observable timing.
package directory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	accountstore "github.com/groupdrop/groupdrop/internal/app/store/accounts"
	groupstore "github.com/groupdrop/groupdrop/internal/app/store/groups"
	invitestore "github.com/groupdrop/groupdrop/internal/app/store/invites"
	"github.com/groupdrop/groupdrop/internal/app/store/persist"
	requeststore "github.com/groupdrop/groupdrop/internal/app/store/requests"
	"github.com/groupdrop/groupdrop/internal/domain/models"
	"go.uber.org/zap"
)

var (
	ErrAlreadyGrouped = errors.New("directory: account already belongs to a group")
	ErrNotInGroup     = errors.New("directory: account not in a group")
	ErrNoSuchRequest  = errors.New("directory: no pending request from that user")
	ErrNoSuchInvite   = errors.New("directory: no pending invite for that group")
	ErrMembersRemain  = errors.New("directory: leader must remove members first")
	ErrNoSuchGroup    = groupstore.ErrNoSuchGroup
	ErrNoSuchAccount  = accountstore.ErrNoSuchAccount
)

// Directory bundles the table stores with the group storage root.
type Directory struct {
	Accounts *accountstore.Store
	Groups   *groupstore.Store
	Requests *requeststore.Store
	Invites  *invitestore.Store

	storageRoot string
	log         *zap.Logger
}

// New builds a directory over one data directory and storage root.
func New(files *persist.Files, storageRoot string, log *zap.Logger) *Directory {
	return &Directory{
		Accounts:    accountstore.New(files),
		Groups:      groupstore.New(files),
		Requests:    requeststore.New(files),
		Invites:     invitestore.New(files),
		storageRoot: storageRoot,
		log:         log,
	}
}

// Load (re)loads all four tables from their files. Used at startup and
// by the optional data-dir watcher; reloads are idempotent.
func (d *Directory) Load() error {
	if err := d.Accounts.Load(); err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	if err := d.Groups.Load(); err != nil {
		return fmt.Errorf("load groups: %w", err)
	}
	if err := d.Requests.Load(); err != nil {
		return fmt.Errorf("load requests: %w", err)
	}
	if err := d.Invites.Load(); err != nil {
		return fmt.Errorf("load invites: %w", err)
	}
	return nil
}

// Register creates an account; see accountstore for the outcomes.
func (d *Directory) Register(username, password string) error {
	return d.Accounts.Register(username, password)
}

// Login claims the account's single live session.
func (d *Directory) Login(username, password string) error {
	return d.Accounts.Login(username, password)
}

// Logout releases the live session. Safe to call on disconnect whether
// or not the session is still logged in.
func (d *Directory) Logout(username string) {
	d.Accounts.Logout(username)
}

// CreateGroup makes a new group with leader as its only member, creates
// the group's storage folder, and moves the leader into the group.
func (d *Directory) CreateGroup(name, leader string) (models.Group, error) {
	if gid, ok := d.Accounts.GroupOf(leader); !ok {
		return models.Group{}, ErrNoSuchAccount
	} else if gid != models.NoGroup {
		return models.Group{}, ErrAlreadyGrouped
	}
	g, err := d.Groups.Create(name, leader)
	if err != nil {
		return models.Group{}, err
	}
	if err := os.MkdirAll(d.groupFolder(g.Name), 0o755); err != nil {
		// Roll the record back; a group without storage is unusable.
		_ = d.Groups.Remove(g.ID)
		return models.Group{}, fmt.Errorf("create group folder: %w", err)
	}
	if err := d.Accounts.SetGroup(leader, g.ID); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// JoinRequest records a pending request for the named group. Requesting
// again while one is pending succeeds without duplicating it.
func (d *Directory) JoinRequest(username, groupName string) error {
	if gid, ok := d.Accounts.GroupOf(username); ok && gid != models.NoGroup {
		return ErrAlreadyGrouped
	}
	g, ok := d.Groups.ByName(groupName)
	if !ok {
		return ErrNoSuchGroup
	}
	return d.Requests.Add(username, g.ID)
}

// Approve consumes target's pending request for the leader's group and
// makes target a member. Leadership is checked by the caller's guard.
func (d *Directory) Approve(leader, target string) error {
	gid, ok := d.Accounts.GroupOf(leader)
	if !ok || gid == models.NoGroup {
		return ErrNotInGroup
	}
	removed, err := d.Requests.Remove(target, gid)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNoSuchRequest
	}
	return d.Accounts.SetGroup(target, gid)
}

// Invite records a pending invite from the leader's group to target.
// Re-inviting succeeds without duplicating the invite.
func (d *Directory) Invite(leader, target string) error {
	gid, ok := d.Accounts.GroupOf(leader)
	if !ok || gid == models.NoGroup {
		return ErrNotInGroup
	}
	tgid, ok := d.Accounts.GroupOf(target)
	if !ok {
		return ErrNoSuchAccount
	}
	if tgid != models.NoGroup {
		return ErrAlreadyGrouped
	}
	return d.Invites.Add(target, gid)
}

// Accept consumes the user's invite for the named group and joins it.
func (d *Directory) Accept(username, groupName string) error {
	if gid, ok := d.Accounts.GroupOf(username); ok && gid != models.NoGroup {
		return ErrAlreadyGrouped
	}
	g, ok := d.Groups.ByName(groupName)
	if !ok {
		return ErrNoSuchGroup
	}
	removed, err := d.Invites.Remove(username, g.ID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNoSuchInvite
	}
	return d.Accounts.SetGroup(username, g.ID)
}

// Leave removes the caller from their group. A leader may only leave as
// the sole member; the group record is then removed and its pending
// requests and invites purged. The storage folder stays on disk.
func (d *Directory) Leave(username string) error {
	gid, ok := d.Accounts.GroupOf(username)
	if !ok || gid == models.NoGroup {
		return ErrNotInGroup
	}
	if d.Groups.IsLeader(username, gid) {
		if d.Accounts.CountMembers(gid) > 1 {
			return ErrMembersRemain
		}
		if err := d.Groups.Remove(gid); err != nil {
			return err
		}
		if err := d.Requests.RemoveGroup(gid); err != nil {
			d.log.Warn("purge requests after group removal", zap.Int("group_id", gid), zap.Error(err))
		}
		if err := d.Invites.RemoveGroup(gid); err != nil {
			d.log.Warn("purge invites after group removal", zap.Int("group_id", gid), zap.Error(err))
		}
	}
	return d.Accounts.ClearMember(username, gid)
}

// Kick evicts target from the leader's group. Leaders cannot kick
// themselves; LEAVE is the only way out of leadership.
func (d *Directory) Kick(leader, target string) error {
	gid, ok := d.Accounts.GroupOf(leader)
	if !ok || gid == models.NoGroup {
		return ErrNotInGroup
	}
	if target == leader {
		return accountstore.ErrNotInGroup
	}
	return d.Accounts.ClearMember(target, gid)
}

// ListGroups formats every group as "[id] name (Leader: who)" joined
// with " | ".
func (d *Directory) ListGroups() string {
	groups := d.Groups.All()
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		parts = append(parts, fmt.Sprintf("[%d] %s (Leader: %s)", g.ID, g.Name, g.Leader))
	}
	return strings.Join(parts, " | ")
}

// ListMembers formats a group's member usernames joined with " | ",
// annotating the leader.
func (d *Directory) ListMembers(groupID int) string {
	members := d.Accounts.MembersOf(groupID)
	g, _ := d.Groups.ByID(groupID)
	parts := make([]string, 0, len(members))
	for _, m := range members {
		if m == g.Leader {
			m += " (Leader)"
		}
		parts = append(parts, m)
	}
	return strings.Join(parts, " | ")
}

// ListRequests formats the pending requester usernames for a group
// joined with " | ".
func (d *Directory) ListRequests(groupID int) string {
	return strings.Join(d.Requests.ForGroup(groupID), " | ")
}

// GroupFolder returns the storage folder of a group, creating it if it
// does not exist yet.
func (d *Directory) GroupFolder(groupID int) (string, error) {
	g, ok := d.Groups.ByID(groupID)
	if !ok {
		return "", ErrNoSuchGroup
	}
	path := d.groupFolder(g.Name)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", err
	}
	return path, nil
}

func (d *Directory) groupFolder(name string) string {
	return filepath.Join(d.storageRoot, name)
}
