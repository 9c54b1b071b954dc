package encryption

import (
	"encoding/hex"

	"github.com/minio/sha256-simd"
)

/*Hash - the lowercase hex encoded SHA-256 digest of the text */
func Hash(text string) string {
	return hex.EncodeToString(RawHash(text))
}

/*RawHash - SHA-256 of the given text */
func RawHash(text string) []byte {
	hash := sha256.New()
	hash.Write([]byte(text)) //nolint:errcheck
	return hash.Sum(nil)
}
