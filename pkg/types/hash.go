// Package types defines core primitive types for Casper keys, hashes and amounts.
package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// HashSize is the length of a digest in bytes.
const HashSize = 32

// Hash represents a 256-bit blake2b digest (account hash, body hash,
// transaction hash).
type Hash [HashSize]byte

// IsZero returns true if the hash is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String returns the lowercase hex-encoded hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns a copy of the hash as a byte slice.
func (h Hash) Bytes() []byte {
	b := make([]byte, HashSize)
	copy(b, h[:])
	return b
}

// MarshalJSON encodes the hash as a hex string.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON decodes a hex string into a hash.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*h = Hash{}
		return nil
	}
	parsed, err := HexToHash(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// HexToHash converts a hex string to a Hash. A known named-key prefix
// ("account-hash-", "hash-", ...) is stripped first.
// Returns an error if the remainder is not exactly 64 hex characters.
func HexToHash(s string) (Hash, error) {
	if nk := SplitNamedKey(s); nk.Prefix != "" {
		s = nk.Hash
	}
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return Hash{}, fmt.Errorf("%w: invalid hex: %v", ErrInvalidKeyFormat, err)
	}
	if len(b) != HashSize {
		return Hash{}, fmt.Errorf("%w: hash must be %d bytes, got %d", ErrInvalidKeyFormat, HashSize, len(b))
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}
