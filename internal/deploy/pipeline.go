package deploy

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/Klingon-tech/cspr-wallet-core/internal/identity"
	"github.com/Klingon-tech/cspr-wallet-core/internal/log"
	"github.com/Klingon-tech/cspr-wallet-core/pkg/types"
	"github.com/rs/zerolog"
	"github.com/zeebo/blake3"
)

// AccountHashes lists the account hashes behind every identity in d that
// account info could upgrade: caller, kind-specific counterparties and both
// sides of each action result. Hashes are lowercase and unique, in order of
// first appearance.
func AccountHashes(d *Deploy) []string {
	if d == nil {
		return nil
	}
	var out []string
	seen := make(map[string]bool)
	add := func(ids ...*identity.Identity) {
		for _, id := range ids {
			if id == nil || id.ResolvedInfo != nil {
				continue
			}
			if h := id.AccountHash(); h != "" && !seen[h] {
				seen[h] = true
				out = append(out, h)
			}
		}
	}

	add(&d.Caller)
	switch det := d.Details.(type) {
	case NativeCsprDetails:
		add(&det.Recipient)
	case Cep18Details:
		add(&det.Recipient)
	case NftDetails:
		add(&det.Recipient)
	case AuctionDetails:
		add(det.FromValidator, det.ToValidator)
	case CsprMarketDetails:
		add(&det.Offerer)
	}
	for _, results := range [][]ActionResult{d.TransferResults, d.Cep18Results, d.NftResults} {
		for i := range results {
			add(&results[i].Recipient, &results[i].Caller)
		}
	}
	return out
}

// Fingerprint returns the hex BLAKE3 digest of d's canonical JSON form.
// Equal fingerprints mean byte-identical normalizations.
func Fingerprint(d *Deploy) (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("fingerprint marshal: %w", err)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Pipeline normalizes batches in two passes: a first pass with whatever the
// cache holds, a warm-up of the account info it revealed, and a second pass
// when the warm-up added anything.
type Pipeline struct {
	network types.Network
	cache   *identity.Cache
	warmer  *identity.Warmer // optional

	logger zerolog.Logger
}

// NewPipeline creates a pipeline. A nil cache gets a default one; warmer
// may be nil, in which case only the cache is consulted.
func NewPipeline(network types.Network, cache *identity.Cache, warmer *identity.Warmer) *Pipeline {
	if cache == nil {
		cache = identity.NewCache(0, 0)
	}
	return &Pipeline{
		network: network,
		cache:   cache,
		warmer:  warmer,
		logger:  log.Deploy.With().Str("network", string(network)).Logger(),
	}
}

// Process normalizes raws for activePublicKey. The returned deploys are
// always complete; a non-nil error only reports that the account-info
// warm-up failed and some identities may be unresolved.
func (p *Pipeline) Process(ctx context.Context, activePublicKey string, raws []*CloudDeploy) ([]*Deploy, error) {
	deploys := NormalizeAll(p.network, activePublicKey, raws, p.cache)
	if p.warmer == nil || len(deploys) == 0 {
		return deploys, nil
	}

	var hashes []string
	for _, d := range deploys {
		hashes = append(hashes, AccountHashes(d)...)
	}
	added, err := p.warmer.Warm(ctx, hashes)
	if err != nil {
		p.logger.Warn().Err(err).Int("added", added).Msg("Account info warm-up incomplete")
	}
	if added == 0 {
		return deploys, err
	}

	p.logger.Debug().Int("deploys", len(deploys)).Int("accounts", added).Msg("Re-normalizing with fresh account info")
	return NormalizeAll(p.network, activePublicKey, raws, p.cache), err
}
