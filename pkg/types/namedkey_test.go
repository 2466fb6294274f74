package types

import "testing"

func TestSplitNamedKey(t *testing.T) {
	const h = "9824d60dc3a5c44a20b9fd260a412437933835b52fc683d8ae36e4ec2114843e"

	tests := []struct {
		name       string
		input      string
		wantPrefix string
		wantHash   string
	}{
		{"hash", "hash-" + h, PrefixHash, h},
		{"account hash", "account-hash-" + h, PrefixAccountHash, h},
		{"contract package", "contract-package-" + h, PrefixContractPackage, h},
		{"contract", "contract-" + h, PrefixContract, h},
		{"uref keeps access rights", "uref-" + h + "-007", PrefixURef, h + "-007"},
		{"case insensitive prefix", "HASH-" + h, PrefixHash, h},
		{"bare prefix", "hash-", PrefixHash, ""},
		{"no prefix", h, "", h},
		{"prefix not followed by hex", "hash-xyz", "", "hash-xyz"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitNamedKey(tt.input)
			if got.Prefix != tt.wantPrefix {
				t.Errorf("Prefix = %q, want %q", got.Prefix, tt.wantPrefix)
			}
			if got.Hash != tt.wantHash {
				t.Errorf("Hash = %q, want %q", got.Hash, tt.wantHash)
			}
		})
	}
}

func TestNamedKey_RoundTrip(t *testing.T) {
	hashes := []string{
		"9824d60dc3a5c44a20b9fd260a412437933835b52fc683d8ae36e4ec2114843e",
		"ABCDEF0123",
		"0a1b2c-007",
	}
	for _, prefix := range NamedKeyPrefixes {
		for _, h := range hashes {
			got := SplitNamedKey(ComposeNamedKey(prefix, h))
			if got.Prefix != prefix || got.Hash != h {
				t.Errorf("SplitNamedKey(ComposeNamedKey(%q, %q)) = {%q, %q}", prefix, h, got.Prefix, got.Hash)
			}
			if got.String() != prefix+h {
				t.Errorf("String() = %q, want %q", got.String(), prefix+h)
			}
		}
	}
}
