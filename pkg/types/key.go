package types

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidKeyFormat is returned for malformed key hex or an unknown
// algorithm prefix.
var ErrInvalidKeyFormat = errors.New("invalid key format")

// AccountKeyType tags every identity-bearing value with its encoding.
type AccountKeyType string

const (
	KeyTypePublicKey    AccountKeyType = "publicKey"
	KeyTypeAccountHash  AccountKeyType = "accountHash"
	KeyTypeContractHash AccountKeyType = "contractHash"
	KeyTypePurse        AccountKeyType = "purse"
)

// Algorithm is the one-byte tag that prefixes a serialized public key.
type Algorithm byte

const (
	AlgorithmEd25519   Algorithm = 0x01
	AlgorithmSecp256k1 Algorithm = 0x02
)

// Raw key sizes (without the tag byte).
const (
	Ed25519PublicKeySize   = 32
	Secp256k1PublicKeySize = 33
)

// String returns the lowercase algorithm name used in account hash derivation.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmEd25519:
		return "ed25519"
	case AlgorithmSecp256k1:
		return "secp256k1"
	default:
		return fmt.Sprintf("unknown(%#02x)", byte(a))
	}
}

// KeySize returns the raw public key length for the algorithm, or 0.
func (a Algorithm) KeySize() int {
	switch a {
	case AlgorithmEd25519:
		return Ed25519PublicKeySize
	case AlgorithmSecp256k1:
		return Secp256k1PublicKeySize
	default:
		return 0
	}
}

// Valid reports whether a is a known algorithm tag.
func (a Algorithm) Valid() bool {
	return a.KeySize() != 0
}

// AlgorithmFromHex reads the two-hex-digit tag at the head of a public key.
// The second return value is false when the prefix is missing or unknown.
func AlgorithmFromHex(s string) (Algorithm, bool) {
	if len(s) < 2 {
		return 0, false
	}
	switch strings.ToLower(s[:2]) {
	case "01":
		return AlgorithmEd25519, true
	case "02":
		return AlgorithmSecp256k1, true
	default:
		return 0, false
	}
}

// PublicKey is a tagged public key: Algorithm || Raw.
type PublicKey struct {
	Algorithm Algorithm
	Raw       []byte
}

// ParsePublicKey decodes a tagged public key hex string
// (01 + 32 bytes for ed25519, 02 + 33 bytes for secp256k1).
func ParsePublicKey(s string) (PublicKey, error) {
	s = strings.TrimSpace(s)
	algo, ok := AlgorithmFromHex(s)
	if !ok {
		return PublicKey{}, fmt.Errorf("%w: unknown public key prefix", ErrInvalidKeyFormat)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return PublicKey{}, fmt.Errorf("%w: invalid hex: %v", ErrInvalidKeyFormat, err)
	}
	if len(b)-1 != algo.KeySize() {
		return PublicKey{}, fmt.Errorf("%w: %s key must be %d bytes, got %d",
			ErrInvalidKeyFormat, algo, algo.KeySize(), len(b)-1)
	}
	return PublicKey{Algorithm: algo, Raw: b[1:]}, nil
}

// NewPublicKey builds a tagged public key from raw bytes.
func NewPublicKey(algo Algorithm, raw []byte) (PublicKey, error) {
	if !algo.Valid() {
		return PublicKey{}, fmt.Errorf("%w: unknown algorithm %s", ErrInvalidKeyFormat, algo)
	}
	if len(raw) != algo.KeySize() {
		return PublicKey{}, fmt.Errorf("%w: %s key must be %d bytes, got %d",
			ErrInvalidKeyFormat, algo, algo.KeySize(), len(raw))
	}
	r := make([]byte, len(raw))
	copy(r, raw)
	return PublicKey{Algorithm: algo, Raw: r}, nil
}

// ValidatePublicKey reports whether s is a well-formed tagged public key.
func ValidatePublicKey(s string) bool {
	_, err := ParsePublicKey(s)
	return err == nil
}

// IsZero returns true for the zero-value key.
func (p PublicKey) IsZero() bool {
	return len(p.Raw) == 0
}

// Bytes returns the tagged serialization.
func (p PublicKey) Bytes() []byte {
	b := make([]byte, 0, 1+len(p.Raw))
	b = append(b, byte(p.Algorithm))
	return append(b, p.Raw...)
}

// String returns the lowercase tagged hex form.
func (p PublicKey) String() string {
	return hex.EncodeToString(p.Bytes())
}

// Equal compares two keys.
func (p PublicKey) Equal(o PublicKey) bool {
	return p.String() == o.String()
}

// MarshalJSON encodes the key as tagged hex.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes tagged hex.
func (p *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePublicKey(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ClassifyKeyType returns PublicKey when raw starts with a known algorithm
// prefix and AccountHash otherwise.
func ClassifyKeyType(raw string) AccountKeyType {
	if _, ok := AlgorithmFromHex(raw); ok {
		return KeyTypePublicKey
	}
	return KeyTypeAccountHash
}

// KeysEqual compares two key strings case-insensitively. Empty keys never match.
func KeysEqual(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}
