// Package hashutil computes the content hashes the indexer uses as its
// authoritative change-detection key (P1: hash(f) = hash(f') iff f == f').
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the lowercase hex-encoded SHA-256 digest of content.
func SHA256Hex(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
