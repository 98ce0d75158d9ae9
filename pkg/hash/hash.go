package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// Prefix returns the first n characters of SHA256Hex(input).
// Used for log correlation and cache keys where the full digest is noise.
func Prefix(input string, n int) string {
	full := SHA256Hex(input)
	if n > len(full) || n < 0 {
		return full
	}
	return full[:n]
}

// SessionKey derives the ledger key for a visitor session. Ledger rows store
// this digest instead of the cookie value so one visitor's stored records
// cannot be replayed as their session.
func SessionKey(sessionID string) string {
	return SHA256Hex("session:" + sessionID)
}
