package deploy

import (
	"strings"
	"testing"

	"github.com/Klingon-tech/cspr-wallet-core/pkg/crypto"
)

var (
	aliceKey = "01" + strings.Repeat("ab", 32)
	bobKey   = "02" + "03" + strings.Repeat("cd", 32)
	carolKey = "01" + strings.Repeat("12", 32)
)

func accountHash(t *testing.T, pk string) string {
	t.Helper()
	h, err := crypto.AccountHash(pk)
	if err != nil {
		t.Fatalf("AccountHash(%s) error: %v", pk, err)
	}
	return h
}

func mustParse(t *testing.T, s string) *CloudDeploy {
	t.Helper()
	d, err := Parse([]byte(s))
	if err != nil {
		t.Fatalf("Parse() error: %v\n%s", err, s)
	}
	return d
}

// fill replaces {{name}} placeholders in a JSON template.
func fill(tmpl string, kv ...string) string {
	return strings.NewReplacer(kv...).Replace(tmpl)
}
