package types

import (
	"regexp"
	"strings"
)

// Named-key prefixes recognized by SplitNamedKey. Longer prefixes sharing a
// head with shorter ones come first so the alternation picks them.
const (
	PrefixAccountHash     = "account-hash-"
	PrefixContractPackage = "contract-package-"
	PrefixContract        = "contract-"
	PrefixHash            = "hash-"
	PrefixURef            = "uref-"
	PrefixDeploy          = "deploy-"
	PrefixEra             = "era-"
	PrefixBalance         = "balance-"
	PrefixBid             = "bid-"
	PrefixWithdraw        = "withdraw-"
	PrefixDictionary      = "dictionary-"
)

// NamedKeyPrefixes lists every known prefix in match order.
var NamedKeyPrefixes = []string{
	PrefixAccountHash,
	PrefixContractPackage,
	PrefixContract,
	PrefixHash,
	PrefixURef,
	PrefixDeploy,
	PrefixEra,
	PrefixBalance,
	PrefixBid,
	PrefixWithdraw,
	PrefixDictionary,
}

// namedKeyRe matches a known prefix followed by a hex character.
var namedKeyRe = func() *regexp.Regexp {
	quoted := make([]string, len(NamedKeyPrefixes))
	for i, p := range NamedKeyPrefixes {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`(?i)^(` + strings.Join(quoted, "|") + `)([0-9a-f].*)$`)
}()

// NamedKey is a prefixed key string split into its parts.
type NamedKey struct {
	Prefix string // lowercase prefix including the trailing dash, or ""
	Hash   string // identifier, with any "-<digits>" suffix kept verbatim
}

// SplitNamedKey strips one known prefix from v. The first dash-separated
// segment after the prefix is the hash; a following segment (uref access
// rights, e.g. "-007") is kept as part of the hash. A bare prefix yields an
// empty hash. Values without a known prefix keep Prefix empty.
func SplitNamedKey(v string) NamedKey {
	for _, p := range NamedKeyPrefixes {
		if strings.EqualFold(v, p) {
			return NamedKey{Prefix: p}
		}
	}
	var nk NamedKey
	rest := v
	if m := namedKeyRe.FindStringSubmatch(v); m != nil {
		nk.Prefix = strings.ToLower(m[1])
		rest = m[2]
	}
	parts := strings.Split(rest, "-")
	nk.Hash = parts[0]
	if len(parts) > 1 && parts[1] != "" {
		nk.Hash += "-" + parts[1]
	}
	return nk
}

// ComposeNamedKey joins a prefix and a hash.
func ComposeNamedKey(prefix, hash string) string {
	return prefix + hash
}

// String returns the composed form.
func (n NamedKey) String() string {
	return ComposeNamedKey(n.Prefix, n.Hash)
}
