package hash

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// Short returns the first n hex characters of SHA256(input). Used to correlate
// client IPs in logs without writing them out.
func Short(input string, n int) string {
	full := SHA256Hex(input)
	if n > len(full) || n <= 0 {
		return full
	}
	return full[:n]
}

// Bucket maps input onto [0, n) deterministically. n must be positive.
func Bucket(input string, n int) int {
	h := sha256.Sum256([]byte(input))
	return int(binary.BigEndian.Uint64(h[:8]) % uint64(n))
}
