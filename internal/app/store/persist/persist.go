// internal/app/store/persist/persist.go

// Package persist is the flat-file persistence collaborator for the
// directory tables. Each table lives in one whitespace-separated text
// file under the data directory; every save durably rewrites the full
// table. The file formats are shared with external tooling and must not
// change:
//
//	accounts.txt  username password group_id
//	groups.txt    group_id group_name leader
//	requests.txt  username group_id
//	invites.txt   username group_id
package persist

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/groupdrop/groupdrop/internal/domain/models"
)

// Table file names inside the data directory.
const (
	AccountsFile = "accounts.txt"
	GroupsFile   = "groups.txt"
	RequestsFile = "requests.txt"
	InvitesFile  = "invites.txt"
)

// Files reads and writes the directory tables under one data directory.
type Files struct {
	dir string
}

// New returns a Files rooted at dataDir.
func New(dataDir string) *Files {
	return &Files{dir: dataDir}
}

// Dir returns the data directory path.
func (f *Files) Dir() string { return f.dir }

// Path returns the absolute path of one table file.
func (f *Files) Path(name string) string { return filepath.Join(f.dir, name) }

// LoadAccounts reads accounts.txt. A missing file is created empty and
// yields no accounts. Accounts always load logged out.
func (f *Files) LoadAccounts() ([]models.Account, error) {
	lines, err := f.readLines(AccountsFile)
	if err != nil {
		return nil, err
	}
	var out []models.Account
	for _, fields := range lines {
		if len(fields) != 3 {
			continue
		}
		gid, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		out = append(out, models.Account{
			Username: fields[0],
			Password: fields[1],
			GroupID:  gid,
		})
	}
	return out, nil
}

// SaveAccounts rewrites accounts.txt. The runtime LoggedIn flag is not
// persisted.
func (f *Files) SaveAccounts(accounts []models.Account) error {
	var b strings.Builder
	for _, a := range accounts {
		fmt.Fprintf(&b, "%s %s %d\n", a.Username, a.Password, a.GroupID)
	}
	return f.writeFile(AccountsFile, b.String())
}

// LoadGroups reads groups.txt; a missing file is created empty.
func (f *Files) LoadGroups() ([]models.Group, error) {
	lines, err := f.readLines(GroupsFile)
	if err != nil {
		return nil, err
	}
	var out []models.Group
	for _, fields := range lines {
		if len(fields) != 3 {
			continue
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		out = append(out, models.Group{ID: id, Name: fields[1], Leader: fields[2]})
	}
	return out, nil
}

// SaveGroups rewrites groups.txt.
func (f *Files) SaveGroups(groups []models.Group) error {
	var b strings.Builder
	for _, g := range groups {
		fmt.Fprintf(&b, "%d %s %s\n", g.ID, g.Name, g.Leader)
	}
	return f.writeFile(GroupsFile, b.String())
}

// LoadRequests reads requests.txt; a missing file is created empty.
func (f *Files) LoadRequests() ([]models.JoinRequest, error) {
	lines, err := f.readLines(RequestsFile)
	if err != nil {
		return nil, err
	}
	var out []models.JoinRequest
	for _, fields := range lines {
		u, gid, ok := userGroupLine(fields)
		if !ok {
			continue
		}
		out = append(out, models.JoinRequest{Username: u, GroupID: gid})
	}
	return out, nil
}

// SaveRequests rewrites requests.txt.
func (f *Files) SaveRequests(reqs []models.JoinRequest) error {
	var b strings.Builder
	for _, r := range reqs {
		fmt.Fprintf(&b, "%s %d\n", r.Username, r.GroupID)
	}
	return f.writeFile(RequestsFile, b.String())
}

// LoadInvites reads invites.txt; a missing file is created empty.
func (f *Files) LoadInvites() ([]models.Invite, error) {
	lines, err := f.readLines(InvitesFile)
	if err != nil {
		return nil, err
	}
	var out []models.Invite
	for _, fields := range lines {
		u, gid, ok := userGroupLine(fields)
		if !ok {
			continue
		}
		out = append(out, models.Invite{Username: u, GroupID: gid})
	}
	return out, nil
}

// SaveInvites rewrites invites.txt.
func (f *Files) SaveInvites(invs []models.Invite) error {
	var b strings.Builder
	for _, in := range invs {
		fmt.Fprintf(&b, "%s %d\n", in.Username, in.GroupID)
	}
	return f.writeFile(InvitesFile, b.String())
}

func userGroupLine(fields []string) (string, int, bool) {
	if len(fields) != 2 {
		return "", 0, false
	}
	gid, err := strconv.Atoi(fields[1])
	if err != nil {
		return "", 0, false
	}
	return fields[0], gid, true
}

// readLines returns the whitespace-split fields of every non-empty line.
// A missing file is created so subsequent saves and external tooling see
// a consistent data directory.
func (f *Files) readLines(name string) ([][]string, error) {
	path := f.Path(name)
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		if cerr := f.writeFile(name, ""); cerr != nil {
			return nil, cerr
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var out [][]string
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		out = append(out, fields)
	}
	return out, sc.Err()
}

// writeFile rewrites one table file via a temp file and rename so a
// crash mid-save never leaves a truncated table.
func (f *Files) writeFile(name, content string) error {
	path := f.Path(name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
