package directory_test

import (
	"errors"
	"os"
	"testing"

	accountstore "github.com/groupdrop/groupdrop/internal/app/store/accounts"
	"github.com/groupdrop/groupdrop/internal/app/store/directory"
	"github.com/groupdrop/groupdrop/internal/domain/models"
	"github.com/groupdrop/groupdrop/internal/testutil"
)

func TestCreateGroup(t *testing.T) {
	dir := testutil.NewDirectory(t)
	testutil.SeedAccount(t, dir, "alice", "pw")

	g, err := dir.CreateGroup("teamA", "alice")
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if g.Leader != "alice" {
		t.Errorf("leader: %q", g.Leader)
	}
	if gid, _ := dir.Accounts.GroupOf("alice"); gid != g.ID {
		t.Errorf("leader group id: %d, want %d", gid, g.ID)
	}

	// The storage folder exists as soon as the group does.
	folder, err := dir.GroupFolder(g.ID)
	if err != nil {
		t.Fatalf("GroupFolder: %v", err)
	}
	if fi, err := os.Stat(folder); err != nil || !fi.IsDir() {
		t.Errorf("storage folder: %v %v", fi, err)
	}

	// One group per account.
	if _, err := dir.CreateGroup("teamB", "alice"); !errors.Is(err, directory.ErrAlreadyGrouped) {
		t.Errorf("second group: got %v", err)
	}
	if _, err := dir.CreateGroup("teamC", "nobody"); !errors.Is(err, directory.ErrNoSuchAccount) {
		t.Errorf("unknown leader: got %v", err)
	}
}

func TestJoinRequestAndApprove(t *testing.T) {
	dir := testutil.NewDirectory(t)
	testutil.SeedAccount(t, dir, "alice", "pw")
	testutil.SeedAccount(t, dir, "bob", "pw")
	g, err := dir.CreateGroup("teamA", "alice")
	if err != nil {
		t.Fatal(err)
	}

	if err := dir.JoinRequest("bob", "nosuch"); !errors.Is(err, directory.ErrNoSuchGroup) {
		t.Errorf("request unknown group: got %v", err)
	}
	if err := dir.JoinRequest("bob", "teamA"); err != nil {
		t.Fatalf("JoinRequest: %v", err)
	}
	// Requesting again while pending succeeds silently.
	if err := dir.JoinRequest("bob", "teamA"); err != nil {
		t.Errorf("repeat request: %v", err)
	}
	if got := dir.ListRequests(g.ID); got != "bob" {
		t.Errorf("ListRequests: %q", got)
	}

	if err := dir.Approve("alice", "carol"); !errors.Is(err, directory.ErrNoSuchRequest) {
		t.Errorf("approve without request: got %v", err)
	}
	if err := dir.Approve("alice", "bob"); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if gid, _ := dir.Accounts.GroupOf("bob"); gid != g.ID {
		t.Errorf("bob group after approve: %d", gid)
	}
	// The request is consumed.
	if got := dir.ListRequests(g.ID); got != "" {
		t.Errorf("requests after approve: %q", got)
	}

	// A grouped account cannot request another group.
	if err := dir.JoinRequest("bob", "teamA"); !errors.Is(err, directory.ErrAlreadyGrouped) {
		t.Errorf("grouped request: got %v", err)
	}
}

func TestInviteAndAccept(t *testing.T) {
	dir := testutil.NewDirectory(t)
	testutil.SeedAccount(t, dir, "alice", "pw")
	testutil.SeedAccount(t, dir, "bob", "pw")
	g, err := dir.CreateGroup("teamA", "alice")
	if err != nil {
		t.Fatal(err)
	}

	if err := dir.Invite("alice", "nobody"); !errors.Is(err, directory.ErrNoSuchAccount) {
		t.Errorf("invite unknown user: got %v", err)
	}
	if err := dir.Invite("alice", "bob"); err != nil {
		t.Fatalf("Invite: %v", err)
	}
	if err := dir.Invite("alice", "bob"); err != nil {
		t.Errorf("repeat invite: %v", err)
	}

	if err := dir.Accept("bob", "nosuch"); !errors.Is(err, directory.ErrNoSuchGroup) {
		t.Errorf("accept unknown group: got %v", err)
	}
	if err := dir.Accept("bob", "teamA"); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if gid, _ := dir.Accounts.GroupOf("bob"); gid != g.ID {
		t.Errorf("bob group after accept: %d", gid)
	}
	// The invite is consumed.
	if err := dir.Accounts.ClearMember("bob", g.ID); err != nil {
		t.Fatal(err)
	}
	if err := dir.Accept("bob", "teamA"); !errors.Is(err, directory.ErrNoSuchInvite) {
		t.Errorf("accept consumed invite: got %v", err)
	}

	// A grouped target cannot be invited.
	if err := dir.Invite("alice", "bob"); err != nil {
		t.Fatal(err)
	}
	if err := dir.Accept("bob", "teamA"); err != nil {
		t.Fatal(err)
	}
	if err := dir.Invite("alice", "bob"); !errors.Is(err, directory.ErrAlreadyGrouped) {
		t.Errorf("invite grouped target: got %v", err)
	}
}

func TestLeave(t *testing.T) {
	dir := testutil.NewDirectory(t)
	testutil.SeedAccount(t, dir, "alice", "pw")
	testutil.SeedAccount(t, dir, "bob", "pw")
	g, err := dir.CreateGroup("teamA", "alice")
	if err != nil {
		t.Fatal(err)
	}
	if err := dir.Invite("alice", "bob"); err != nil {
		t.Fatal(err)
	}
	if err := dir.Accept("bob", "teamA"); err != nil {
		t.Fatal(err)
	}

	if err := dir.Leave("carol"); !errors.Is(err, directory.ErrNotInGroup) {
		t.Errorf("ungrouped leave: got %v", err)
	}
	// A leader with members cannot leave.
	if err := dir.Leave("alice"); !errors.Is(err, directory.ErrMembersRemain) {
		t.Errorf("leader leave with members: got %v", err)
	}

	if err := dir.Leave("bob"); err != nil {
		t.Fatalf("member leave: %v", err)
	}
	if gid, _ := dir.Accounts.GroupOf("bob"); gid != models.NoGroup {
		t.Errorf("bob group after leave: %d", gid)
	}
	// The group survives a member leaving.
	if _, ok := dir.Groups.ByID(g.ID); !ok {
		t.Fatal("group removed by member leave")
	}

	// Pending state for the group is purged when the leader dissolves it.
	if err := dir.JoinRequest("bob", "teamA"); err != nil {
		t.Fatal(err)
	}
	if err := dir.Leave("alice"); err != nil {
		t.Fatalf("sole leader leave: %v", err)
	}
	if _, ok := dir.Groups.ByID(g.ID); ok {
		t.Error("group survived leader leave")
	}
	if got := dir.ListRequests(g.ID); got != "" {
		t.Errorf("requests after dissolve: %q", got)
	}
	if gid, _ := dir.Accounts.GroupOf("alice"); gid != models.NoGroup {
		t.Errorf("alice group after dissolve: %d", gid)
	}
}

func TestKick(t *testing.T) {
	dir := testutil.NewDirectory(t)
	testutil.SeedAccount(t, dir, "alice", "pw")
	testutil.SeedAccount(t, dir, "bob", "pw")
	if _, err := dir.CreateGroup("teamA", "alice"); err != nil {
		t.Fatal(err)
	}
	if err := dir.Invite("alice", "bob"); err != nil {
		t.Fatal(err)
	}
	if err := dir.Accept("bob", "teamA"); err != nil {
		t.Fatal(err)
	}

	// Leaders leave via LEAVE, never by kicking themselves.
	if err := dir.Kick("alice", "alice"); !errors.Is(err, accountstore.ErrNotInGroup) {
		t.Errorf("self kick: got %v", err)
	}
	if err := dir.Kick("alice", "carol"); !errors.Is(err, accountstore.ErrNotInGroup) {
		t.Errorf("kick non-member: got %v", err)
	}
	if err := dir.Kick("alice", "bob"); err != nil {
		t.Fatalf("Kick: %v", err)
	}
	if gid, _ := dir.Accounts.GroupOf("bob"); gid != models.NoGroup {
		t.Errorf("bob group after kick: %d", gid)
	}
}

func TestListFormats(t *testing.T) {
	dir := testutil.NewDirectory(t)
	testutil.SeedAccount(t, dir, "alice", "pw")
	testutil.SeedAccount(t, dir, "bob", "pw")
	testutil.SeedAccount(t, dir, "carol", "pw")
	ga, err := dir.CreateGroup("teamA", "alice")
	if err != nil {
		t.Fatal(err)
	}
	gb, err := dir.CreateGroup("teamB", "bob")
	if err != nil {
		t.Fatal(err)
	}
	if err := dir.Invite("alice", "carol"); err != nil {
		t.Fatal(err)
	}
	if err := dir.Accept("carol", "teamA"); err != nil {
		t.Fatal(err)
	}

	wantGroups := "[1] teamA (Leader: alice) | [2] teamB (Leader: bob)"
	if got := dir.ListGroups(); got != wantGroups {
		t.Errorf("ListGroups: %q, want %q", got, wantGroups)
	}
	if got := dir.ListMembers(ga.ID); got != "alice (Leader) | carol" {
		t.Errorf("ListMembers(teamA): %q", got)
	}
	if got := dir.ListMembers(gb.ID); got != "bob (Leader)" {
		t.Errorf("ListMembers(teamB): %q", got)
	}
}
