package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// Prefix returns the first n characters of SHA256(input).
func Prefix(input string, n int) string {
	full := SHA256Hex(input)
	if n > len(full) || n <= 0 {
		return full
	}
	return full[:n]
}

// QueryKey normalizes a free-text channel query (trimmed, lowercased) and
// hashes it so arbitrary user input never ends up inside a cache key.
func QueryKey(query string) string {
	return SHA256Hex(strings.ToLower(strings.TrimSpace(query)))
}

// RedactIP produces a short, irreversible prefix of the IP address for log
// correlation without storing raw PII.
func RedactIP(ip string) string {
	return Prefix(ip, 12)
}
