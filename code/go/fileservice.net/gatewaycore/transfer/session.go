package transfer

import (
	"context"

	"github.com/DTSwithAI/file-service/code/go/fileservice.net/core/common"
)

// Reason codes of the transfer layer. Raw transport errors never cross this
// boundary; they are translated here and logged with their cause.
const (
	CodeConnection = "backend.connection.failed"
	CodeAuth       = "backend.auth.failed"
	CodeNotFound   = "backend.object.missing"
	CodeTransfer   = "backend.transfer.failed"
	CodeDirectory  = "file.upload.directory.create.failed"
)

func IsNotFound(err error) bool {
	return common.ErrorCode(err) == CodeNotFound
}

// Session is one authenticated connection to the remote storage backend, used
// for exactly one logical operation sequence and then closed. Implementations
// are not safe for concurrent use; callers open one session per in-flight
// operation.
type Session interface {
	// Store writes the bytes under directory/filename in binary mode. A false
	// return means the backend declined the write (quota, permission); callers
	// must treat that as an upload failure, never as success.
	Store(directory, filename string, data []byte) (bool, error)

	// Retrieve returns the complete object bytes. It fails with CodeNotFound
	// when the object is absent and CodeTransfer on any mid-transfer fault;
	// it never returns partial bytes as if complete.
	Retrieve(directory, filename string) ([]byte, error)

	// Delete removes one remote object. Used by the orphan sweeper.
	Delete(directory, filename string) error

	// ListNames lists the entry names of a remote directory.
	ListNames(directory string) ([]string, error)

	// MakeDir and ChangeDir are the navigation primitives EnsurePath builds
	// on. Gateway code never calls them directly.
	MakeDir(path string) error
	ChangeDir(path string) error

	// Close logs out and disconnects. Safe to call once on every exit path.
	Close() error
}

// Dialer opens sessions against a configured backend. The configuration is
// injected at construction; nothing here reads ambient state, which is what
// lets the tests plug in a fake backend.
type Dialer interface {
	Dial(ctx context.Context) (Session, error)
}
