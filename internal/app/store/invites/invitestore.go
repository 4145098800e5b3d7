// internal/app/store/invites/invitestore.go

// Package invitestore holds pending invites, the leader-initiated mirror
// of join requests: created by INVITE, consumed by ACCEPT. Uniqueness
// per (user, group) pair matches the request table.
package invitestore

import (
	"errors"
	"sync"

	"github.com/groupdrop/groupdrop/internal/app/store/persist"
	"github.com/groupdrop/groupdrop/internal/app/system/limits"
	"github.com/groupdrop/groupdrop/internal/domain/models"
)

// ErrTableFull is returned when the invite table is at capacity.
var ErrTableFull = errors.New("invitestore: invite table full")

// Store is the invite table.
type Store struct {
	mu    sync.RWMutex
	invs  []models.Invite
	files *persist.Files
}

// New returns an empty store persisting through files.
func New(files *persist.Files) *Store {
	return &Store{files: files}
}

// Load replaces the table with the persisted one.
func (s *Store) Load() error {
	loaded, err := s.files.LoadInvites()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.invs = loaded
	s.mu.Unlock()
	return nil
}

// Add records a pending invite. Re-inviting an existing pair is a no-op.
func (s *Store) Add(username string, groupID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.find(username, groupID) >= 0 {
		return nil
	}
	if len(s.invs) >= limits.MaxInvites {
		return ErrTableFull
	}
	s.invs = append(s.invs, models.Invite{Username: username, GroupID: groupID})
	return s.files.SaveInvites(s.invs)
}

// Remove consumes the (username, groupID) invite if present.
func (s *Store) Remove(username string, groupID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(username, groupID)
	if i < 0 {
		return false, nil
	}
	s.invs = append(s.invs[:i], s.invs[i+1:]...)
	return true, s.files.SaveInvites(s.invs)
}

// RemoveGroup purges every invite from a removed group.
func (s *Store) RemoveGroup(groupID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.invs[:0]
	changed := false
	for _, in := range s.invs {
		if in.GroupID == groupID {
			changed = true
			continue
		}
		kept = append(kept, in)
	}
	s.invs = kept
	if !changed {
		return nil
	}
	return s.files.SaveInvites(s.invs)
}

// Has reports whether an invite exists for the pair.
func (s *Store) Has(username string, groupID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.find(username, groupID) >= 0
}

func (s *Store) find(username string, groupID int) int {
	for i, in := range s.invs {
		if in.Username == username && in.GroupID == groupID {
			return i
		}
	}
	return -1
}
