package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Calculator is an interface for computing file checksums.
type Calculator interface {
	// CalculateRaw computes a checksum of the raw, unmodified content.
	CalculateRaw(content []byte) string

	// Match reports whether two contents have the same checksum.
	Match(a, b []byte) bool
}

// SHA256 implements checksum calculation using SHA-256.
// SHA256 is a zero-size type and is safe for concurrent use by multiple goroutines.
type SHA256 struct{}

// New creates a new SHA-256 based calculator.
func New() SHA256 {
	return SHA256{}
}

// CalculateRaw computes SHA-256 of raw content as lowercase hex.
func (c SHA256) CalculateRaw(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// Match compares the SHA-256 digests of a and b.
func (c SHA256) Match(a, b []byte) bool {
	return sha256.Sum256(a) == sha256.Sum256(b)
}

// Verify SHA256 implements the interface at compile time
var _ Calculator = SHA256{}
