package types

import (
	"fmt"
	"strings"
)

// Network identifies a Casper network.
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
)

// Chain names carried in transaction headers.
const (
	MainnetChainName = "casper"
	TestnetChainName = "casper-test"
)

// ChainName returns the chain name for the network.
func (n Network) ChainName() string {
	if n == Testnet {
		return TestnetChainName
	}
	return MainnetChainName
}

// Valid reports whether n is a known network.
func (n Network) Valid() bool {
	return n == Mainnet || n == Testnet
}

// ParseNetwork parses a network name. "casper" and "casper-test" are
// accepted as aliases.
func ParseNetwork(s string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mainnet", MainnetChainName:
		return Mainnet, nil
	case "testnet", TestnetChainName:
		return Testnet, nil
	default:
		return "", fmt.Errorf("unknown network %q (must be mainnet or testnet)", s)
	}
}
