// internal/domain/models/group.go
package models

// Group represents a shared storage area with exactly one leader.
//
// NOTE:
//   - Membership is not embedded on Group. An account's GroupID field is
//     the authoritative membership record; the group only names its
//     leader, who is always a member.
//   - IDs are assigned max-existing+1 and may be reused after a group is
//     removed.
type Group struct {
	ID     int
	Name   string
	Leader string
}
