package deploy

import "github.com/Klingon-tech/cspr-wallet-core/pkg/types"

// ContractTypeID is the explorer's contract classification.
type ContractTypeID int

const (
	ContractSystem         ContractTypeID = 1
	ContractCep18          ContractTypeID = 2
	ContractCustomCep18    ContractTypeID = 3
	ContractCEP47Nft       ContractTypeID = 4
	ContractCustomCEP47Nft ContractTypeID = 5
	ContractDeFi           ContractTypeID = 6
	ContractCEP78Nft       ContractTypeID = 7
	ContractCustomCEP78Nft ContractTypeID = 8
	ContractCSPRMarket     ContractTypeID = 9
)

// ExecutionTypeTransfer marks a native transfer deploy.
const ExecutionTypeTransfer = 6

// Well-known contract hashes per network.
var (
	AuctionManagerContractHash = map[types.Network]string{
		types.Mainnet: "ccb576d6ce6dec84a551e48f0d0b7af89ddba44c7390b690036257a04a3ae9ea",
		types.Testnet: "93d923e336b20a4c4ca14d592b60e5bd3fe330775618290104f9beb326db7ae2",
	}
	CSPRMarketContractHash = map[types.Network]string{
		types.Mainnet: "31cc023b17c903a963ec60eab96a60f1fa37cb74b4b3bafc91a441e0e9d70f97",
		types.Testnet: "154ff59b5f9feec42d3a418058d66badcb2121dc3ffb2e3cf92596bf5aafbc88",
	}
	AssociatedKeysContractHash = map[types.Network]string{
		types.Mainnet: "b2ec4f982efa8643c979cb3ab42ad1a18851c2e6f91804cd3e65c079679bdc59",
		types.Testnet: "676794cbbb35ff5642d0ae9c35302e244a7236a614d7e9ef58d0fb2cba6be3ed",
	}
)

func isCep18Type(id ContractTypeID) bool {
	return id == ContractCep18 || id == ContractCustomCep18
}

func isNftType(id ContractTypeID) bool {
	switch id {
	case ContractCEP78Nft, ContractCEP47Nft, ContractCustomCEP78Nft, ContractCustomCEP47Nft:
		return true
	}
	return false
}
