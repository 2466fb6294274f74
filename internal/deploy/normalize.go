// Package deploy classifies block-explorer deploy records and normalizes
// them into typed Deploy values.
package deploy

import (
	"github.com/Klingon-tech/cspr-wallet-core/internal/identity"
	"github.com/Klingon-tech/cspr-wallet-core/pkg/types"
)

// Status is the normalized execution status of a deploy.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
	StatusPending   Status = "pending"
	StatusExpired   Status = "expired"
	StatusProcessed Status = "processed"
)

// legacy success marker used by older explorer responses
const statusExecuted = "executed"

// Deploy is a normalized, point-in-time view of one on-chain deploy.
type Deploy struct {
	Hash                string            `json:"deploy_hash"`
	Kind                Kind              `json:"kind"`
	Status              Status            `json:"status"`
	ErrorMessage        string            `json:"error_message,omitempty"`
	Timestamp           string            `json:"timestamp"`
	Cost                string            `json:"cost"`
	PaymentAmount       string            `json:"payment_amount"`
	ExecutionTypeID     int               `json:"execution_type_id"`
	ContractHash        string            `json:"contract_hash,omitempty"`
	ContractPackageHash string            `json:"contract_package_hash,omitempty"`
	ContractName        string            `json:"contract_name,omitempty"`
	EntryPoint          string            `json:"entry_point,omitempty"`
	Caller              identity.Identity `json:"caller"`
	TransferResults     []ActionResult    `json:"transfer_results"`
	Cep18Results        []ActionResult    `json:"cep18_results"`
	NftResults          []ActionResult    `json:"nft_results"`
	Details             Details           `json:"details,omitempty"`
}

// deriveStatus maps the raw status: an error message always wins, the
// legacy "executed" marker and an empty status mean success. Anything else
// passes through unchanged.
func deriveStatus(d *CloudDeploy) Status {
	if d.ErrorMessage != "" {
		return StatusError
	}
	s := string(d.Status)
	if s == "" || s == statusExecuted {
		return StatusSuccess
	}
	return Status(s)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Normalize builds the typed Deploy for raw as seen by activePublicKey.
// It never fails: missing or malformed optional fields take their defaults.
// A nil lookup resolves nothing.
func Normalize(network types.Network, activePublicKey string, raw *CloudDeploy, lookup identity.Lookup) *Deploy {
	if raw == nil {
		raw = &CloudDeploy{}
	}
	n := &normalizer{
		raw:      raw,
		active:   activePublicKey,
		resolver: identity.NewResolver(lookup),
	}
	return n.build(Classify(network, raw))
}

// NormalizeAll normalizes a batch of deploys in order.
func NormalizeAll(network types.Network, activePublicKey string, raws []*CloudDeploy, lookup identity.Lookup) []*Deploy {
	out := make([]*Deploy, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Normalize(network, activePublicKey, raw, lookup))
	}
	return out
}

type normalizer struct {
	raw      *CloudDeploy
	active   string
	resolver *identity.Resolver
}

func (n *normalizer) build(kind Kind) *Deploy {
	raw := n.raw
	execType := 1
	if raw.ExecutionTypeID.Set {
		execType = raw.ExecutionTypeID.V
	}
	caller := string(raw.CallerPublicKey)

	d := &Deploy{
		Hash:                raw.DeployHash,
		Kind:                kind,
		Status:              deriveStatus(raw),
		ErrorMessage:        string(raw.ErrorMessage),
		Timestamp:           string(raw.Timestamp),
		Cost:                orDefault(string(raw.Cost), "0"),
		PaymentAmount:       orDefault(string(raw.PaymentAmount), "0"),
		ExecutionTypeID:     execType,
		ContractHash:        string(raw.ContractHash),
		ContractPackageHash: string(raw.ContractPackageHash),
		ContractName:        raw.packageName(),
		EntryPoint:          raw.EntryPointName(),
		Caller:              n.resolver.Resolve(caller, types.ClassifyKeyType(caller)),
	}

	agg := &aggregator{deployHash: raw.DeployHash, active: n.active, resolver: n.resolver}
	d.TransferResults = agg.transfers(raw.Transfers)
	d.Cep18Results = agg.ftActions(raw.FtTokenActions)
	d.NftResults = agg.nftActions(raw.NftTokenActions)

	switch kind {
	case KindAuction:
		d.EntryPoint = orDefault(d.EntryPoint, "delegate")
		d.Details = n.auction(d.EntryPoint)
	case KindNft:
		d.EntryPoint = orDefault(d.EntryPoint, "transfer")
		d.Details = n.nft(d.EntryPoint)
	case KindCsprMarket:
		d.EntryPoint = orDefault(d.EntryPoint, "list_token")
		d.Details = n.market(d.EntryPoint)
	case KindCep18:
		d.EntryPoint = orDefault(d.EntryPoint, "transfer")
		d.Details = n.cep18()
	case KindCsprNative:
		d.EntryPoint = ""
		d.ContractName = ""
		d.Details = n.native()
	case KindAssociatedKeys:
		d.Details = AssociatedKeysDetails{}
	}
	return d
}

// counterparty resolves a key found in the arguments. Account hashes are
// first matched against public keys revealed by the deploy's own side
// effects, then looked up.
func (n *normalizer) counterparty(key string, kt types.AccountKeyType) identity.Identity {
	if kt == types.KeyTypeAccountHash && key != "" {
		if pk, ok := identity.BackResolve(key, actionPublicKeys(n.raw)); ok {
			key, kt = pk, types.KeyTypePublicKey
		}
	}
	return n.resolver.Resolve(key, kt)
}

func (n *normalizer) isReceive(id identity.Identity) bool {
	return types.KeysEqual(n.active, id.Key)
}

func (n *normalizer) auction(entryPoint string) AuctionDetails {
	args := n.raw.Args
	det := AuctionDetails{
		Amount:   ExtractAmount(args),
		Decimals: types.CSPRDecimals,
		Symbol:   types.CSPRSymbol,
	}
	validator := func(key string) *identity.Identity {
		id := n.resolver.Resolve(key, types.ClassifyKeyType(key))
		return &id
	}

	switch {
	case entryPointIs(entryPoint, "undelegate"):
		if v, ok := publicKeyArg(args, "validator"); ok {
			det.ToValidator = validator(v)
		}
		if caller := string(n.raw.CallerPublicKey); caller != "" {
			det.FromValidator = validator(caller)
		}
	case entryPointIs(entryPoint, "redelegate"):
		if v, ok := publicKeyArg(args, "new_validator"); ok {
			det.ToValidator = validator(v)
		}
		if v, ok := publicKeyArg(args, "validator"); ok {
			det.FromValidator = validator(v)
		}
	default:
		if v, ok := publicKeyArg(args, "new_validator"); ok {
			det.ToValidator = validator(v)
		} else if v, ok := publicKeyArg(args, "validator"); ok {
			det.ToValidator = validator(v)
		}
	}
	return det
}

func (n *normalizer) nft(entryPoint string) NftDetails {
	args := n.raw.Args
	key, kt, _ := firstKey(args, nftRecipientCandidates)
	recipient := n.counterparty(key, kt)
	return NftDetails{
		Recipient:      recipient,
		IsReceive:      n.isReceive(recipient),
		TokenIDs:       nftTokenIDs(args),
		AmountOfNFTs:   nftQuantity(entryPoint, args, "approve", "update_token_meta"),
		CollectionHash: collectionHash(args),
		IconURL:        n.raw.iconURL(),
	}
}

func (n *normalizer) market(entryPoint string) CsprMarketDetails {
	args := n.raw.Args
	key, kt, _ := firstKey(args, marketOffererCandidates)
	return CsprMarketDetails{
		Offerer:        n.counterparty(key, kt),
		TokenIDs:       nftTokenIDs(args),
		AmountOfNFTs:   nftQuantity(entryPoint, args, "list_token", "delist_token"),
		CollectionHash: collectionHash(args),
		Amount:         ExtractAmount(args),
		IconURL:        n.raw.iconURL(),
	}
}

func (n *normalizer) cep18() Cep18Details {
	args := n.raw.Args
	key, kt, _ := firstKey(args, cep18RecipientCandidates)
	recipient := n.counterparty(key, kt)
	det := Cep18Details{
		Recipient: recipient,
		IsReceive: n.isReceive(recipient),
		Amount:    ExtractAmount(args),
		IconURL:   n.raw.iconURL(),
	}
	if cp := n.raw.ContractPackage; cp != nil && cp.Metadata != nil {
		det.Symbol = string(cp.Metadata.Symbol)
		det.Decimals = cp.Metadata.Decimals.V
	}
	return det
}

func (n *normalizer) native() NativeCsprDetails {
	var key string
	kt := types.KeyTypeAccountHash
	if target, ok := n.raw.Args.Get("target"); ok {
		if target.TypeName() == "PublicKey" {
			kt = types.KeyTypePublicKey
		}
		key = target.Scalar()
		if key == "" {
			key, _ = target.Tagged(TagAccount)
		}
		if kt == types.KeyTypeAccountHash {
			key = types.SplitNamedKey(key).Hash
		}
	}
	recipient := n.counterparty(key, kt)
	return NativeCsprDetails{
		Recipient: recipient,
		IsReceive: n.isReceive(recipient),
		Amount:    ExtractAmount(n.raw.Args),
		Decimals:  types.CSPRDecimals,
		Symbol:    types.CSPRSymbol,
	}
}
