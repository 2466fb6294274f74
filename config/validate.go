package config

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/Klingon-tech/cspr-wallet-core/internal/log"
)

// maxTxTTL is the longest header TTL a node accepts.
const maxTxTTL = 2 * time.Hour

// Validate checks runtime config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if !cfg.Network.Valid() {
		return fmt.Errorf("network must be %q or %q", "mainnet", "testnet")
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("datadir must not be empty")
	}

	u, err := url.Parse(cfg.Node.RPC)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("node.rpc must be an http(s) URL, got %q", cfg.Node.RPC)
	}
	if cfg.Node.Timeout <= 0 {
		return fmt.Errorf("node.timeout must be positive")
	}

	if cfg.Cache.Size <= 0 {
		return fmt.Errorf("cache.size must be positive")
	}
	if cfg.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}

	if strings.TrimSpace(cfg.Tx.ChainName) != cfg.Tx.ChainName {
		return fmt.Errorf("tx.chain_name must not have surrounding whitespace")
	}
	if cfg.Tx.TTL <= 0 || cfg.Tx.TTL > maxTxTTL {
		return fmt.Errorf("tx.ttl must be in range (0, %s]", maxTxTTL)
	}
	if cfg.Tx.GasPriceTolerance < 1 || cfg.Tx.GasPriceTolerance > math.MaxUint8 {
		return fmt.Errorf("tx.gas_price_tolerance must be in range [1, %d]", math.MaxUint8)
	}

	if _, err := log.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return nil
}
