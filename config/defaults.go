package config

import (
	"github.com/Klingon-tech/cspr-wallet-core/internal/identity"
	"github.com/Klingon-tech/cspr-wallet-core/internal/rpcclient"
	"github.com/Klingon-tech/cspr-wallet-core/pkg/tx"
	"github.com/Klingon-tech/cspr-wallet-core/pkg/types"
)

// Default node endpoints.
const (
	DefaultMainnetRPC = "https://node.mainnet.casper.network/rpc"
	DefaultTestnetRPC = "https://node.testnet.casper.network/rpc"
)

// DefaultMainnet returns the default configuration for mainnet.
func DefaultMainnet() *Config {
	return &Config{
		Network: types.Mainnet,
		DataDir: DefaultDataDir(),
		Node: NodeConfig{
			RPC:     DefaultMainnetRPC,
			Timeout: rpcclient.DefaultTimeout,
		},
		Cache: CacheConfig{
			Size: identity.DefaultCacheSize,
			TTL:  identity.DefaultCacheTTL,
		},
		Tx: TxConfig{
			TTL:               tx.DefaultTTL,
			GasPriceTolerance: 1,
		},
		Store: StoreConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// DefaultTestnet returns the default configuration for testnet.
func DefaultTestnet() *Config {
	cfg := DefaultMainnet()
	cfg.Network = types.Testnet
	cfg.Node.RPC = DefaultTestnetRPC
	return cfg
}

// Default returns the default configuration for the given network.
func Default(network types.Network) *Config {
	switch network {
	case types.Testnet:
		return DefaultTestnet()
	default:
		return DefaultMainnet()
	}
}
