package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// HashSize is the width of a content hash in bytes.
const HashSize = sha256.Size

// Hash256 is a fixed-width SHA-256 content hash
type Hash256 [HashSize]byte

// NewHash256 hashes data with SHA-256
func NewHash256(data []byte) Hash256 {
	return Hash256(sha256.Sum256(data))
}

// ParseHash256 decodes a 64-character hex string
func ParseHash256(s string) (Hash256, error) {
	var h Hash256
	raw, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("invalid hash hex: %w", err)
	}
	if len(raw) != HashSize {
		return h, fmt.Errorf("invalid hash length: got %d bytes, want %d", len(raw), HashSize)
	}
	copy(h[:], raw)
	return h, nil
}

// String returns the lowercase hex representation
func (h Hash256) String() string {
	return hex.EncodeToString(h[:])
}

// IsEmpty checks if the hash is the zero value
func (h Hash256) IsEmpty() bool {
	return h == Hash256{}
}

// Equals checks if two hashes are byte-identical
func (h Hash256) Equals(other Hash256) bool {
	return h == other
}

// MarshalText renders the hash as hex so JSON output stays readable
func (h Hash256) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText parses a hex hash
func (h *Hash256) UnmarshalText(text []byte) error {
	parsed, err := ParseHash256(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
