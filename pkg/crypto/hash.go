// Package crypto provides Casper hashing and signing primitives.
package crypto

import (
	"strings"

	"github.com/Klingon-tech/cspr-wallet-core/pkg/types"
	"golang.org/x/crypto/blake2b"
)

// Hash computes a BLAKE2b-256 digest of the input data.
func Hash(data []byte) types.Hash {
	return blake2b.Sum256(data)
}

// AccountHashFromPublicKey derives the account hash of a public key:
// BLAKE2b-256(algorithm_name || 0x00 || raw_key).
func AccountHashFromPublicKey(pk types.PublicKey) types.Hash {
	name := pk.Algorithm.String()
	buf := make([]byte, 0, len(name)+1+len(pk.Raw))
	buf = append(buf, name...)
	buf = append(buf, 0x00)
	buf = append(buf, pk.Raw...)
	return Hash(buf)
}

// AccountHash derives the lowercase hex account hash of a tagged public key
// hex string. Returns types.ErrInvalidKeyFormat for malformed input.
func AccountHash(publicKeyHex string) (string, error) {
	pk, err := types.ParsePublicKey(publicKeyHex)
	if err != nil {
		return "", err
	}
	return AccountHashFromPublicKey(pk).String(), nil
}

// MatchesAccountHash reports whether publicKeyHex derives to accountHash.
// Malformed keys never match.
func MatchesAccountHash(publicKeyHex, accountHash string) bool {
	derived, err := AccountHash(publicKeyHex)
	if err != nil {
		return false
	}
	return strings.EqualFold(derived, types.SplitNamedKey(accountHash).Hash)
}
