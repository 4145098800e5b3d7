// internal/domain/models/account.go

// Package models holds the directory records shared by the stores, the
// policy layer and the protocol handlers. The structs mirror the flat
// persistence files one to one; runtime-only state is marked as such.
package models

// NoGroup is the GroupID of an account that belongs to no group.
const NoGroup = -1

// Account is one registered user.
//
// Passwords are stored and compared in plain text, matching the flat
// accounts.txt format shared with external tooling.
type Account struct {
	Username string
	Password string
	GroupID  int

	// LoggedIn marks the account's single live session. Runtime state,
	// never persisted.
	LoggedIn bool
}
