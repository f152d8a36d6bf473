package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the hex encoded sha256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
