package deploy

import (
	"strconv"

	"github.com/Klingon-tech/cspr-wallet-core/internal/identity"
	"github.com/Klingon-tech/cspr-wallet-core/pkg/types"
	"github.com/google/uuid"
)

// ActionResult is one normalized side effect of a deploy.
type ActionResult struct {
	ID         string            `json:"id"`
	Recipient  identity.Identity `json:"recipient"`
	Caller     identity.Identity `json:"caller"`
	IsReceive  bool              `json:"is_receive"`
	Amount     string            `json:"amount,omitempty"`
	Timestamp  string            `json:"timestamp"`
	EntryPoint string            `json:"entry_point,omitempty"`

	// Token metadata, set for fungible-token actions.
	Symbol       string `json:"symbol,omitempty"`
	Decimals     int    `json:"decimals,omitempty"`
	ContractName string `json:"contract_name,omitempty"`
	IconURL      string `json:"icon_url,omitempty"`

	// Set for NFT actions.
	TokenIDs []string `json:"token_ids,omitempty"`
}

// Action families.
const (
	familyTransfer = "transfer"
	familyFT       = "ft"
	familyNFT      = "nft"
)

var ftEntryPoints = map[int]string{
	1: "mint",
	2: "transfer",
	3: "approve",
	4: "burn",
}

var nftEntryPoints = map[int]string{
	1: "mint",
	2: "burn",
	3: "approve",
	4: "transfer",
	5: "update_token_meta",
}

var actionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("cspr-wallet-core/deploy-action"))

// actionID is stable for a given deploy, family and position.
func actionID(deployHash, family string, index int) string {
	return uuid.NewSHA1(actionNamespace, []byte(deployHash+"/"+family+"/"+strconv.Itoa(index))).String()
}

// aggregator builds action results for one deploy.
type aggregator struct {
	deployHash string
	active     string
	resolver   *identity.Resolver
}

func (a *aggregator) transfers(items []Transfer) []ActionResult {
	out := make([]ActionResult, 0, len(items))
	for i, t := range items {
		var recipient identity.Identity
		switch {
		case t.ToPursePublicKey != "":
			recipient = a.resolver.Resolve(string(t.ToPursePublicKey), types.KeyTypePublicKey)
		case t.ToAccountHash != "":
			recipient = a.resolver.Resolve(string(t.ToAccountHash), types.KeyTypeAccountHash)
		default:
			recipient = a.resolver.Resolve(string(t.ToPurse), types.KeyTypePurse)
		}
		var caller identity.Identity
		if t.FromPursePublicKey != "" {
			caller = a.resolver.Resolve(string(t.FromPursePublicKey), types.KeyTypePublicKey)
		} else {
			caller = a.resolver.Resolve(string(t.FromPurse), types.KeyTypePurse)
		}
		out = append(out, ActionResult{
			ID:        actionID(a.deployHash, familyTransfer, i),
			Recipient: recipient,
			Caller:    caller,
			IsReceive: types.KeysEqual(a.active, recipient.Key),
			Amount:    string(t.Amount),
			Timestamp: string(t.Timestamp),
		})
	}
	return out
}

func (a *aggregator) ftActions(items []FtAction) []ActionResult {
	out := make([]ActionResult, 0, len(items))
	for i, act := range items {
		recipient := a.party(act.ToPublicKey, act.ToHash, act.ToType)
		r := ActionResult{
			ID:         actionID(a.deployHash, familyFT, i),
			Recipient:  recipient,
			Caller:     a.party(act.FromPublicKey, act.FromHash, act.FromType),
			IsReceive:  types.KeysEqual(a.active, recipient.Key),
			Amount:     string(act.Amount),
			Timestamp:  string(act.Timestamp),
			EntryPoint: ftEntryPoints[act.FtActionTypeID.V],
		}
		if cp := act.ContractPackage; cp != nil {
			r.ContractName = string(cp.Name)
			r.IconURL = string(cp.IconURL)
			if cp.Metadata != nil {
				r.Symbol = string(cp.Metadata.Symbol)
				r.Decimals = cp.Metadata.Decimals.V
			}
		}
		out = append(out, r)
	}
	return out
}

func (a *aggregator) nftActions(items []NftAction) []ActionResult {
	out := make([]ActionResult, 0, len(items))
	for i, act := range items {
		recipient := a.party(act.ToPublicKey, act.ToHash, act.ToType)
		r := ActionResult{
			ID:         actionID(a.deployHash, familyNFT, i),
			Recipient:  recipient,
			Caller:     a.party(act.FromPublicKey, act.FromHash, act.FromType),
			IsReceive:  types.KeysEqual(a.active, recipient.Key),
			Timestamp:  string(act.Timestamp),
			EntryPoint: nftEntryPoints[act.NftActionID.V],
		}
		if act.TokenID != "" {
			r.TokenIDs = []string{string(act.TokenID)}
		}
		if cp := act.ContractPackage; cp != nil {
			r.ContractName = string(cp.Name)
			r.IconURL = string(cp.IconURL)
		}
		out = append(out, r)
	}
	return out
}

// party resolves one side of a token action: the public key when present,
// else the hash tagged by its transactor type.
func (a *aggregator) party(publicKey, hash Text, hashType OptInt) identity.Identity {
	if publicKey != "" {
		return a.resolver.Resolve(string(publicKey), types.KeyTypePublicKey)
	}
	kt := types.KeyTypeAccountHash
	if hashType.Set && hashType.V == TransactorHash {
		kt = types.KeyTypeContractHash
	}
	return a.resolver.Resolve(string(hash), kt)
}

// actionPublicKeys lists every from/to public key revealed by the deploy's
// side-effect arrays, in transfer, FT, NFT order.
func actionPublicKeys(d *CloudDeploy) []string {
	var keys []string
	add := func(ks ...Text) {
		for _, k := range ks {
			if k != "" {
				keys = append(keys, string(k))
			}
		}
	}
	for _, t := range d.Transfers {
		add(t.ToPursePublicKey, t.FromPursePublicKey)
	}
	for _, act := range d.FtTokenActions {
		add(act.ToPublicKey, act.FromPublicKey)
	}
	for _, act := range d.NftTokenActions {
		add(act.ToPublicKey, act.FromPublicKey)
	}
	return keys
}
