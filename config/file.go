package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Klingon-tech/cspr-wallet-core/pkg/types"
)

// LoadFile loads configuration from a .conf file.
// Format: key = value (one per line, # for comments)
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key. Unknown keys are ignored.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	// Core
	case "network":
		n, err := types.ParseNetwork(value)
		if err != nil {
			return err
		}
		cfg.Network = n
	case "datadir":
		cfg.DataDir = value

	// Node
	case "node.rpc", "rpc":
		cfg.Node.RPC = value
	case "node.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		cfg.Node.Timeout = d

	// Cache
	case "cache.size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Cache.Size = n
	case "cache.ttl":
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		cfg.Cache.TTL = d

	// Transactions
	case "tx.chain_name":
		cfg.Tx.ChainName = value
	case "tx.ttl":
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		cfg.Tx.TTL = d
	case "tx.gas_price_tolerance":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Tx.GasPriceTolerance = n

	// Store
	case "store.enabled", "store":
		cfg.Store.Enabled = parseBool(value)

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// WriteDefaultConfig writes a default configuration file.
func WriteDefaultConfig(path string, network types.Network) error {
	cfg := Default(network)
	content := `# cspr-wallet configuration

# Network: mainnet or testnet
network = ` + string(network) + `

# Data directory (default: ~/.cspr-wallet)
# datadir = ~/.cspr-wallet

# ============================================================================
# Node
# ============================================================================

# JSON-RPC endpoint (default depends on network)
# node.rpc = ` + cfg.Node.RPC + `
node.timeout = ` + cfg.Node.Timeout.String() + `

# ============================================================================
# Account info cache and store
# ============================================================================

cache.size = ` + strconv.Itoa(cfg.Cache.Size) + `
cache.ttl = ` + cfg.Cache.TTL.String() + `
store.enabled = true

# ============================================================================
# Transactions
# ============================================================================

# Chain name in transaction headers (default derives from network)
# tx.chain_name = ` + network.ChainName() + `
tx.ttl = ` + cfg.Tx.TTL.String() + `
tx.gas_price_tolerance = ` + strconv.Itoa(cfg.Tx.GasPriceTolerance) + `

# ============================================================================
# Logging
# ============================================================================

log.level = info
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0644)
}
