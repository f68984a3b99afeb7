package audit

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// HashIP digests a raw IP address before it reaches any persisted row. Raw
// addresses never leave the caller; consent and audit tables only see the
// digest. Returns nil for an empty input so optional columns stay NULL.
func HashIP(ip string) *string {
	if ip == "" {
		return nil
	}
	sum := sha3.Sum256([]byte(ip))
	digest := hex.EncodeToString(sum[:])
	return &digest
}
