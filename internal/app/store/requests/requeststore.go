// internal/app/store/requests/requeststore.go

// Package requeststore holds pending join requests. A user has at most
// one pending request per group; requests never expire, they are
// consumed by APPROVE or purged when their group disappears.
package requeststore

import (
	"errors"
	"sync"

	"github.com/groupdrop/groupdrop/internal/app/store/persist"
	"github.com/groupdrop/groupdrop/internal/app/system/limits"
	"github.com/groupdrop/groupdrop/internal/domain/models"
)

// ErrTableFull is returned when the request table is at capacity.
var ErrTableFull = errors.New("requeststore: request table full")

// Store is the join-request table.
type Store struct {
	mu    sync.RWMutex
	reqs  []models.JoinRequest
	files *persist.Files
}

// New returns an empty store persisting through files.
func New(files *persist.Files) *Store {
	return &Store{files: files}
}

// Load replaces the table with the persisted one.
func (s *Store) Load() error {
	loaded, err := s.files.LoadRequests()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.reqs = loaded
	s.mu.Unlock()
	return nil
}

// Add records a pending request. Re-adding an existing pair is a no-op.
func (s *Store) Add(username string, groupID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.find(username, groupID) >= 0 {
		return nil
	}
	if len(s.reqs) >= limits.MaxRequests {
		return ErrTableFull
	}
	s.reqs = append(s.reqs, models.JoinRequest{Username: username, GroupID: groupID})
	return s.files.SaveRequests(s.reqs)
}

// Remove consumes the (username, groupID) request if present.
func (s *Store) Remove(username string, groupID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(username, groupID)
	if i < 0 {
		return false, nil
	}
	s.reqs = append(s.reqs[:i], s.reqs[i+1:]...)
	return true, s.files.SaveRequests(s.reqs)
}

// RemoveGroup purges every request targeting a removed group.
func (s *Store) RemoveGroup(groupID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.reqs[:0]
	changed := false
	for _, r := range s.reqs {
		if r.GroupID == groupID {
			changed = true
			continue
		}
		kept = append(kept, r)
	}
	s.reqs = kept
	if !changed {
		return nil
	}
	return s.files.SaveRequests(s.reqs)
}

// ForGroup lists usernames with a pending request for a group.
func (s *Store) ForGroup(groupID int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, r := range s.reqs {
		if r.GroupID == groupID {
			out = append(out, r.Username)
		}
	}
	return out
}

func (s *Store) find(username string, groupID int) int {
	for i, r := range s.reqs {
		if r.Username == username && r.GroupID == groupID {
			return i
		}
	}
	return -1
}
