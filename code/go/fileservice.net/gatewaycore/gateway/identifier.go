package gateway

import (
	"fmt"
	"time"

	"github.com/DTSwithAI/file-service/code/go/fileservice.net/core/encryption"
	"github.com/lithammer/shortuuid/v3"
)

// NewIdentifier derives the opaque retrieval code for one upload: a lowercase
// 64-char hex SHA-256 over the original name, the upload instant and a random
// nonce. The nonce keeps identically-named files uploaded in the same
// nanosecond from colliding; the identifier is never derived from content.
func NewIdentifier(originalName string) string {
	seed := fmt.Sprintf("%s:%d:%s", originalName, time.Now().UnixNano(), shortuuid.New())
	return encryption.Hash(seed)
}
