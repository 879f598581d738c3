// Package checksum provides the content digest used for change detection and
// optimistic concurrency (If-Match ETags).
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Matches reports whether an expected digest matches data's digest.
// An empty expectation always matches (no precondition supplied).
func Matches(expected string, data []byte) bool {
	return expected == "" || expected == Sum(data)
}
