package deploy

import (
	"encoding/json"

	"github.com/Klingon-tech/cspr-wallet-core/internal/identity"
	"github.com/Klingon-tech/cspr-wallet-core/pkg/types"
)

// Details holds the kind-specific part of a Deploy. The concrete type is
// determined by the deploy's Kind; UNKNOWN deploys carry none.
type Details interface {
	Kind() Kind
	isDetails()
}

// NativeCsprDetails describes a native CSPR transfer.
type NativeCsprDetails struct {
	Recipient identity.Identity `json:"recipient"`
	IsReceive bool              `json:"is_receive"`
	Amount    string            `json:"amount"`
	Decimals  int               `json:"decimals"`
	Symbol    string            `json:"symbol"`
}

// Cep18Details describes a fungible-token contract call.
type Cep18Details struct {
	Recipient identity.Identity `json:"recipient"`
	IsReceive bool              `json:"is_receive"`
	Amount    string            `json:"amount"`
	Symbol    string            `json:"symbol"`
	Decimals  int               `json:"decimals"`
	IconURL   string            `json:"icon_url,omitempty"`
}

// NftDetails describes an NFT contract call.
type NftDetails struct {
	Recipient      identity.Identity `json:"recipient"`
	IsReceive      bool              `json:"is_receive"`
	TokenIDs       []string          `json:"token_ids"`
	AmountOfNFTs   *int              `json:"amount_of_nfts"`
	CollectionHash string            `json:"collection_hash,omitempty"`
	IconURL        string            `json:"icon_url,omitempty"`
}

// AuctionDetails describes a delegation-related call.
type AuctionDetails struct {
	FromValidator *identity.Identity `json:"from_validator,omitempty"`
	ToValidator   *identity.Identity `json:"to_validator,omitempty"`
	Amount        string             `json:"amount"`
	Decimals      int                `json:"decimals"`
	Symbol        string             `json:"symbol"`
}

// CsprMarketDetails describes a CSPR.market call.
type CsprMarketDetails struct {
	Offerer        identity.Identity `json:"offerer"`
	TokenIDs       []string          `json:"token_ids"`
	AmountOfNFTs   *int              `json:"amount_of_nfts"`
	CollectionHash string            `json:"collection_hash,omitempty"`
	Amount         string            `json:"amount"`
	IconURL        string            `json:"icon_url,omitempty"`
}

// AssociatedKeysDetails marks an associated-keys management call; its
// contract name and entry point live on the Deploy.
type AssociatedKeysDetails struct{}

func (NativeCsprDetails) Kind() Kind     { return KindCsprNative }
func (Cep18Details) Kind() Kind          { return KindCep18 }
func (NftDetails) Kind() Kind            { return KindNft }
func (AuctionDetails) Kind() Kind        { return KindAuction }
func (CsprMarketDetails) Kind() Kind     { return KindCsprMarket }
func (AssociatedKeysDetails) Kind() Kind { return KindAssociatedKeys }

func (NativeCsprDetails) isDetails()     {}
func (Cep18Details) isDetails()          {}
func (NftDetails) isDetails()            {}
func (AuctionDetails) isDetails()        {}
func (CsprMarketDetails) isDetails()     {}
func (AssociatedKeysDetails) isDetails() {}

// Candidate argument keys, in priority order.
type keyCandidate struct {
	arg string
	tag KeyTag
}

var (
	nftRecipientCandidates = []keyCandidate{
		{"token_owner", TagAccount},
		{"owner", TagAccount},
		{"source_key", TagAccount},
		{"target_key", TagAccount},
		{"recipient", TagAccount},
		{"spender", TagAccount},
		{"spender", TagHash},
		{"operator", TagHash},
	}
	cep18RecipientCandidates = []keyCandidate{
		{"recipient", TagAccount},
		{"owner", TagAccount},
		{"recipient", TagHash},
		{"spender", TagHash},
	}
	marketOffererCandidates = append([]keyCandidate{{"offerer", TagAccount}}, nftRecipientCandidates...)
)

var tagKeyTypes = map[KeyTag]types.AccountKeyType{
	TagAccount:   types.KeyTypeAccountHash,
	TagHash:      types.KeyTypeContractHash,
	TagPublicKey: types.KeyTypePublicKey,
}

// firstKey returns the first candidate present in args, with any named-key
// prefix stripped.
func firstKey(args Args, candidates []keyCandidate) (string, types.AccountKeyType, bool) {
	for _, c := range candidates {
		arg, ok := args.Get(c.arg)
		if !ok {
			continue
		}
		v, ok := arg.Tagged(c.tag)
		if !ok {
			continue
		}
		return types.SplitNamedKey(v).Hash, tagKeyTypes[c.tag], true
	}
	return "", types.KeyTypeAccountHash, false
}

// nftTokenIDs collects token ids from token_ids, token_metas, tokens and
// token_id, keeping first occurrences.
func nftTokenIDs(args Args) []string {
	ids := []string{}
	seen := make(map[string]bool)
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, name := range []string{"token_ids", "token_metas", "tokens"} {
		arg, ok := args.Get(name)
		if !ok {
			continue
		}
		items, _ := arg.List()
		for _, item := range items {
			add(tokenID(item))
		}
	}
	if arg, ok := args.Get("token_id"); ok {
		add(arg.Scalar())
	}
	return ids
}

// tokenID reads a list element that is either the id itself or an object
// whose "key" field holds it.
func tokenID(item json.RawMessage) string {
	if s := scalarString(item); s != "" {
		return s
	}
	var obj struct {
		Key Text `json:"key"`
	}
	if json.Unmarshal(item, &obj) != nil {
		return ""
	}
	return string(obj.Key)
}

// nftQuantity counts the NFTs a call touches. It is nil when the entry
// point is excluded or no token argument is present.
func nftQuantity(entryPoint string, args Args, excluded ...string) *int {
	if entryPointIs(entryPoint, excluded...) {
		return nil
	}
	for _, name := range []string{"token_ids", "token_metas", "tokens"} {
		if arg, ok := args.Get(name); ok {
			items, _ := arg.List()
			n := len(items)
			return &n
		}
	}
	if args.Has("token_meta_data") || args.Has("token_id") {
		n := 1
		return &n
	}
	return nil
}

// collectionHash returns the hash of a Key-typed "collection" argument.
func collectionHash(args Args) string {
	arg, ok := args.Get("collection")
	if !ok || arg.TypeName() != "Key" {
		return ""
	}
	v, ok := arg.Tagged(TagHash)
	if !ok {
		return ""
	}
	return types.SplitNamedKey(v).Hash
}

// publicKeyArg returns a PublicKey-typed argument value.
func publicKeyArg(args Args, name string) (string, bool) {
	arg, ok := args.Get(name)
	if !ok || arg.TypeName() != "PublicKey" {
		return "", false
	}
	v := arg.Scalar()
	return v, v != ""
}
