// internal/app/system/limits/limits.go
package limits

// Fixed table capacities. These bound the in-memory directory tables and
// exist to keep the flat persistence files small and atomic to rewrite;
// exceeding one is answered on the wire, never by aborting the process.
const (
	// MaxAccounts is the maximum number of registered accounts.
	MaxAccounts = 100

	// MaxGroups is the maximum number of live groups.
	MaxGroups = 50

	// MaxRequests is the maximum number of pending join requests.
	MaxRequests = 200

	// MaxInvites is the maximum number of pending invites.
	MaxInvites = 200
)

// Protocol sizes.
const (
	// RecvBuffer is the per-connection receive buffer capacity. A control
	// line that does not fit is a protocol violation.
	RecvBuffer = 8192

	// RecvChunk is the read size for binary payload reception.
	RecvChunk = 4096

	// SendChunk is the write size for streaming file content to a client.
	SendChunk = 64 * 1024

	// MaxNameLen bounds usernames, passwords and group names.
	MaxNameLen = 50
)
