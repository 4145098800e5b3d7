// internal/app/store/accounts/accountstore.go

// Package accountstore holds the in-memory account table. All access is
// serialized by one lock; every mutation is persisted to accounts.txt
// before the lock is released.
package accountstore

import (
	"errors"
	"sync"

	"github.com/groupdrop/groupdrop/internal/app/store/persist"
	"github.com/groupdrop/groupdrop/internal/app/system/limits"
	"github.com/groupdrop/groupdrop/internal/domain/models"
)

var (
	ErrTableFull     = errors.New("accountstore: account table full")
	ErrUsernameTaken = errors.New("accountstore: username taken")
	ErrNoSuchAccount = errors.New("accountstore: no such account")
	ErrWrongPassword = errors.New("accountstore: wrong password")
	ErrAlreadyActive = errors.New("accountstore: account has a live session")
	ErrNotInGroup    = errors.New("accountstore: account not in the group")
)

// Store is the account table.
type Store struct {
	mu       sync.RWMutex
	accounts []models.Account
	files    *persist.Files
}

// New returns an empty store persisting through files.
func New(files *persist.Files) *Store {
	return &Store{files: files}
}

// Load replaces the table with the persisted one. Live-session flags of
// accounts that survive the reload are kept.
func (s *Store) Load() error {
	loaded, err := s.files.LoadAccounts()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	active := make(map[string]bool, len(s.accounts))
	for _, a := range s.accounts {
		if a.LoggedIn {
			active[a.Username] = true
		}
	}
	for i := range loaded {
		loaded[i].LoggedIn = active[loaded[i].Username]
	}
	s.accounts = loaded
	return nil
}

// Register creates a new account with no group.
func (s *Store) Register(username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.accounts) >= limits.MaxAccounts {
		return ErrTableFull
	}
	if s.find(username) >= 0 {
		return ErrUsernameTaken
	}
	s.accounts = append(s.accounts, models.Account{
		Username: username,
		Password: password,
		GroupID:  models.NoGroup,
	})
	return s.files.SaveAccounts(s.accounts)
}

// Login validates credentials and claims the account's single live
// session. A second login while one session is active is rejected, not
// queued.
func (s *Store) Login(username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(username)
	if i < 0 {
		return ErrNoSuchAccount
	}
	if s.accounts[i].Password != password {
		return ErrWrongPassword
	}
	if s.accounts[i].LoggedIn {
		return ErrAlreadyActive
	}
	s.accounts[i].LoggedIn = true
	return nil
}

// Logout releases the account's live session. Unknown usernames are
// ignored so disconnect cleanup is unconditional.
func (s *Store) Logout(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.find(username); i >= 0 {
		s.accounts[i].LoggedIn = false
	}
}

// Get returns a snapshot of one account.
func (s *Store) Get(username string) (models.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.find(username)
	if i < 0 {
		return models.Account{}, false
	}
	return s.accounts[i], true
}

// GroupOf returns the authoritative group id of an account. Sessions
// must consult this rather than trust their cached copy.
func (s *Store) GroupOf(username string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.find(username)
	if i < 0 {
		return models.NoGroup, false
	}
	return s.accounts[i].GroupID, true
}

// SetGroup updates an account's group membership.
func (s *Store) SetGroup(username string, groupID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(username)
	if i < 0 {
		return ErrNoSuchAccount
	}
	s.accounts[i].GroupID = groupID
	return s.files.SaveAccounts(s.accounts)
}

// ClearMember removes username from groupID. It fails if the account
// does not exist or is not in that group.
func (s *Store) ClearMember(username string, groupID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(username)
	if i < 0 || s.accounts[i].GroupID != groupID {
		return ErrNotInGroup
	}
	s.accounts[i].GroupID = models.NoGroup
	return s.files.SaveAccounts(s.accounts)
}

// MembersOf lists the usernames belonging to a group, in table order.
func (s *Store) MembersOf(groupID int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, a := range s.accounts {
		if a.GroupID == groupID {
			out = append(out, a.Username)
		}
	}
	return out
}

// CountMembers returns the number of accounts in a group.
func (s *Store) CountMembers(groupID int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, a := range s.accounts {
		if a.GroupID == groupID {
			n++
		}
	}
	return n
}

// Len returns the number of registered accounts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

// find returns the index of username, or -1. Callers hold the lock.
func (s *Store) find(username string) int {
	for i := range s.accounts {
		if s.accounts[i].Username == username {
			return i
		}
	}
	return -1
}
