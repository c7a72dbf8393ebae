package library

import (
	"crypto/sha256"
	"fmt"
)

// Sha256Digest returns the raw SHA-256 digest of a string or []byte.
func Sha256Digest(data interface{}) []byte {
	var b []byte
	switch d := data.(type) {
	case string:
		b = []byte(d)
	case []byte:
		b = d
	default:
		LogCLI("attempted to hash non-string or non-[]byte", 1)
	}
	h := sha256.Sum256(b)
	return h[:]
}

func Sha256Sum(data interface{}) Sha256 {
	return fmt.Sprintf("%x", Sha256Digest(data))
}
