package deploy

import (
	"context"
	"errors"
	"testing"

	"github.com/Klingon-tech/cspr-wallet-core/internal/identity"
	"github.com/Klingon-tech/cspr-wallet-core/pkg/types"
)

func TestAccountHashes(t *testing.T) {
	aliceHash := accountHash(t, aliceKey)
	bobHash := accountHash(t, bobKey)
	carolHash := accountHash(t, carolKey)

	raw := mustParse(t, fill(`{
		"deploy_hash": "d", "caller_public_key": "{{alice}}", "contract_hash": "{{auction}}",
		"entry_point": {"name": "redelegate"},
		"args": {
			"validator": {"cl_type": "PublicKey", "parsed": "{{carol}}"},
			"new_validator": {"cl_type": "PublicKey", "parsed": "{{bob}}"}
		},
		"transfers": [{"from_purse": "uref-01-007", "to_account_hash": "{{bobHash}}"}]
	}`, "{{alice}}", aliceKey, "{{bob}}", bobKey, "{{carol}}", carolKey, "{{bobHash}}", bobHash,
		"{{auction}}", AuctionManagerContractHash[types.Mainnet]))

	got := AccountHashes(Normalize(types.Mainnet, "", raw, nil))
	want := []string{aliceHash, carolHash, bobHash}
	if len(got) != len(want) {
		t.Fatalf("AccountHashes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AccountHashes()[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	if AccountHashes(nil) != nil {
		t.Error("AccountHashes(nil) should be nil")
	}
}

func TestPipeline_SecondPassResolves(t *testing.T) {
	bobHash := accountHash(t, bobKey)
	raw := mustParse(t, fill(`{
		"deploy_hash": "d", "contract_package": {"contract_type_id": 2},
		"args": {"recipient": {"cl_type": "Key", "parsed": {"Account": "account-hash-{{bobHash}}"}}}
	}`, "{{bobHash}}", bobHash))

	var requested []string
	fetcher := identity.FetcherFunc(func(_ context.Context, hashes []string) ([]identity.AccountInfo, error) {
		requested = append(requested, hashes...)
		return []identity.AccountInfo{{PublicKey: bobKey, Name: "bob"}}, nil
	})
	cache := identity.NewCache(0, 0)
	p := NewPipeline(types.Mainnet, cache, identity.NewWarmer(cache, nil, fetcher))

	out, err := p.Process(context.Background(), bobKey, []*CloudDeploy{raw})
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if len(requested) != 1 || requested[0] != bobHash {
		t.Errorf("requested = %v, want [%s]", requested, bobHash)
	}
	det := out[0].Details.(Cep18Details)
	if det.Recipient.Key != bobKey || det.Recipient.ResolvedInfo == nil || !det.IsReceive {
		t.Errorf("Recipient = %+v, IsReceive = %v", det.Recipient, det.IsReceive)
	}

	// Everything is cached now: no further fetches.
	requested = nil
	if _, err := p.Process(context.Background(), bobKey, []*CloudDeploy{raw}); err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if len(requested) != 0 {
		t.Errorf("second Process() fetched %v", requested)
	}
}

func TestPipeline_WarmFailureStillReturnsDeploys(t *testing.T) {
	raw := mustParse(t, `{"deploy_hash":"d","caller_public_key":"`+aliceKey+`"}`)
	fetcher := identity.FetcherFunc(func(context.Context, []string) ([]identity.AccountInfo, error) {
		return nil, errors.New("explorer unavailable")
	})
	cache := identity.NewCache(0, 0)
	p := NewPipeline(types.Mainnet, cache, identity.NewWarmer(cache, nil, fetcher))

	out, err := p.Process(context.Background(), "", []*CloudDeploy{raw})
	if err == nil {
		t.Error("Process() should report the warm-up failure")
	}
	if len(out) != 1 || out[0].Caller.Key != aliceKey {
		t.Errorf("Process() = %+v", out)
	}
}

func TestPipeline_NoWarmer(t *testing.T) {
	p := NewPipeline(types.Testnet, nil, nil)
	out, err := p.Process(context.Background(), "", []*CloudDeploy{mustParse(t, `{"deploy_hash":"d"}`)})
	if err != nil || len(out) != 1 {
		t.Errorf("Process() = (%v, %v)", out, err)
	}
}
