// Package identity reconciles account identities across the three Casper
// addressing schemes (public key, account hash, purse) using previously
// fetched account-info records.
package identity

import (
	"strings"

	"github.com/Klingon-tech/cspr-wallet-core/pkg/crypto"
	"github.com/Klingon-tech/cspr-wallet-core/pkg/types"
)

// AccountInfo is an account-info record as served by the wallet API.
type AccountInfo struct {
	PublicKey    string `json:"public_key"`
	AccountHash  string `json:"account_hash"`
	Name         string `json:"name,omitempty"`
	BrandingLogo string `json:"branding_logo,omitempty"`
	CsprName     string `json:"cspr_name,omitempty"`
}

// Identity is a key tagged with its encoding. When ResolvedInfo is set the
// key is always the resolved public key.
type Identity struct {
	Key          string               `json:"key"`
	KeyType      types.AccountKeyType `json:"key_type"`
	ResolvedInfo *AccountInfo         `json:"resolved_info,omitempty"`
}

// IsZero reports whether the identity carries no key.
func (id Identity) IsZero() bool {
	return id.Key == ""
}

// AccountHash returns the account hash the identity maps to, or "" for
// purses, contract hashes and malformed public keys.
func (id Identity) AccountHash() string {
	return AccountHashFor(id.Key, id.KeyType)
}

// Lookup is a read-only view of account-info records keyed by account hash.
type Lookup interface {
	Get(accountHash string) (AccountInfo, bool)
}

// LookupFunc adapts a function to the Lookup interface.
type LookupFunc func(accountHash string) (AccountInfo, bool)

// Get calls f.
func (f LookupFunc) Get(accountHash string) (AccountInfo, bool) {
	return f(accountHash)
}

// NoLookup never resolves anything.
var NoLookup Lookup = LookupFunc(func(string) (AccountInfo, bool) {
	return AccountInfo{}, false
})

// AccountHashFor returns the lowercase account hash used to look up raw.
// Public keys are hashed, account hashes are stripped of any named-key
// prefix, and every other key type yields "".
func AccountHashFor(raw string, kt types.AccountKeyType) string {
	if raw == "" {
		return ""
	}
	switch kt {
	case types.KeyTypePublicKey:
		h, err := crypto.AccountHash(raw)
		if err != nil {
			return ""
		}
		return h
	case types.KeyTypeAccountHash:
		return strings.ToLower(types.SplitNamedKey(raw).Hash)
	default:
		return ""
	}
}

// Resolver upgrades raw keys to public keys through a Lookup. It never
// performs I/O.
type Resolver struct {
	lookup Lookup
}

// NewResolver creates a resolver over lookup. A nil lookup resolves nothing.
func NewResolver(lookup Lookup) *Resolver {
	if lookup == nil {
		lookup = NoLookup
	}
	return &Resolver{lookup: lookup}
}

// Resolve returns the canonical identity for rawKey. On a lookup hit the
// result is the cached public key; on a miss rawKey and kt are returned
// unchanged.
func (r *Resolver) Resolve(rawKey string, kt types.AccountKeyType) Identity {
	id := Identity{Key: rawKey, KeyType: kt}
	h := AccountHashFor(rawKey, kt)
	if h == "" {
		return id
	}
	info, ok := r.lookup.Get(h)
	if !ok || !crypto.MatchesAccountHash(info.PublicKey, h) {
		return id
	}
	return Identity{Key: info.PublicKey, KeyType: types.KeyTypePublicKey, ResolvedInfo: &info}
}

// BackResolve returns the first candidate public key whose derived account
// hash equals accountHash.
func BackResolve(accountHash string, candidates []string) (string, bool) {
	if accountHash == "" {
		return "", false
	}
	for _, pk := range candidates {
		if pk != "" && crypto.MatchesAccountHash(pk, accountHash) {
			return pk, true
		}
	}
	return "", false
}
