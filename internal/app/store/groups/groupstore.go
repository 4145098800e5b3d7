// internal/app/store/groups/groupstore.go

// Package groupstore holds the in-memory group table behind one lock,
// persisted to groups.txt on every mutation.
package groupstore

import (
	"errors"
	"sync"

	"github.com/groupdrop/groupdrop/internal/app/store/persist"
	"github.com/groupdrop/groupdrop/internal/app/system/limits"
	"github.com/groupdrop/groupdrop/internal/domain/models"
)

var (
	ErrTableFull   = errors.New("groupstore: group table full")
	ErrNameTaken   = errors.New("groupstore: group name taken")
	ErrNoSuchGroup = errors.New("groupstore: no such group")
)

// Store is the group table.
type Store struct {
	mu     sync.RWMutex
	groups []models.Group
	files  *persist.Files
}

// New returns an empty store persisting through files.
func New(files *persist.Files) *Store {
	return &Store{files: files}
}

// Load replaces the table with the persisted one.
func (s *Store) Load() error {
	loaded, err := s.files.LoadGroups()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.groups = loaded
	s.mu.Unlock()
	return nil
}

// Create registers a new group led by leader. Ids are assigned
// max-existing+1, so an id can be reused after its group is removed.
func (s *Store) Create(name, leader string) (models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.groups) >= limits.MaxGroups {
		return models.Group{}, ErrTableFull
	}
	maxID := 0
	for _, g := range s.groups {
		if g.Name == name {
			return models.Group{}, ErrNameTaken
		}
		if g.ID > maxID {
			maxID = g.ID
		}
	}
	g := models.Group{ID: maxID + 1, Name: name, Leader: leader}
	s.groups = append(s.groups, g)
	if err := s.files.SaveGroups(s.groups); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// Remove deletes a group by id.
func (s *Store) Remove(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range s.groups {
		if g.ID == id {
			s.groups = append(s.groups[:i], s.groups[i+1:]...)
			return s.files.SaveGroups(s.groups)
		}
	}
	return ErrNoSuchGroup
}

// ByName returns the group with the given (unique) name.
func (s *Store) ByName(name string) (models.Group, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.groups {
		if g.Name == name {
			return g, true
		}
	}
	return models.Group{}, false
}

// ByID returns the group with the given id.
func (s *Store) ByID(id int) (models.Group, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.groups {
		if g.ID == id {
			return g, true
		}
	}
	return models.Group{}, false
}

// IsLeader reports whether username leads the group with the given id.
func (s *Store) IsLeader(username string, id int) bool {
	g, ok := s.ByID(id)
	return ok && g.Leader == username
}

// All returns a snapshot of every group, in table order.
func (s *Store) All() []models.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Group, len(s.groups))
	copy(out, s.groups)
	return out
}

// Len returns the number of live groups.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.groups)
}
