package deploy

import (
	"github.com/Klingon-tech/cspr-wallet-core/pkg/types"
)

// Kind is the category a deploy is classified into.
type Kind string

const (
	KindCsprNative     Kind = "CSPR_NATIVE"
	KindCep18          Kind = "CEP18"
	KindNft            Kind = "NFT"
	KindAuction        Kind = "AUCTION"
	KindCsprMarket     Kind = "CSPR_MARKET"
	KindAssociatedKeys Kind = "ASSOCIATED_KEYS"
	KindUnknown        Kind = "UNKNOWN"
)

// Classify assigns exactly one Kind to d. The checks run in a fixed order
// and the first match wins: well-known contract hashes, then the package's
// contract type, then the execution type.
func Classify(network types.Network, d *CloudDeploy) Kind {
	if d == nil {
		return KindUnknown
	}
	contractHash := string(d.ContractHash)
	market := CSPRMarketContractHash[network]

	switch {
	case types.KeysEqual(contractHash, AuctionManagerContractHash[network]):
		return KindAuction
	case types.KeysEqual(contractHash, AssociatedKeysContractHash[network]):
		return KindAssociatedKeys
	case types.KeysEqual(contractHash, market),
		types.KeysEqual(string(d.ContractPackageHash), market),
		d.ContractPackage != nil && types.KeysEqual(string(d.ContractPackage.ContractPackageHash), market):
		return KindCsprMarket
	}

	if id, ok := d.ContractTypeID(); ok {
		switch {
		case isCep18Type(ContractTypeID(id)):
			return KindCep18
		case isNftType(ContractTypeID(id)):
			return KindNft
		}
	}

	if d.ExecutionTypeID.Set && d.ExecutionTypeID.V == ExecutionTypeTransfer {
		return KindCsprNative
	}
	return KindUnknown
}
