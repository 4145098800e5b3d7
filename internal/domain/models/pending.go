// internal/domain/models/pending.go
package models

// JoinRequest is a user's pending request to join a group, awaiting the
// leader's APPROVE. At most one request exists per (user, group) pair.
type JoinRequest struct {
	Username string
	GroupID  int
}

// Invite is a leader's pending invitation for a user to join a group,
// awaiting the user's ACCEPT. At most one invite exists per (user, group)
// pair. A request and an invite for the same pair may coexist; whichever
// is consumed first performs the membership change.
type Invite struct {
	Username string
	GroupID  int
}
