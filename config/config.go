// Package config handles cspr-cli configuration.
//
// Settings are resolved in order: network defaults, the config file in the
// data directory, then command-line flags.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/Klingon-tech/cspr-wallet-core/pkg/types"
)

// Config holds runtime configuration.
type Config struct {
	// Core
	Network types.Network `conf:"network"`
	DataDir string        `conf:"datadir"`

	// Node used for status queries
	Node NodeConfig

	// Account-info cache
	Cache CacheConfig

	// Transaction headers
	Tx TxConfig

	// Persistent account-info store
	Store StoreConfig

	// Logging
	Log LogConfig
}

// NodeConfig holds the JSON-RPC node settings.
type NodeConfig struct {
	RPC     string        `conf:"node.rpc"`
	Timeout time.Duration `conf:"node.timeout"`
}

// CacheConfig holds the in-memory account-info cache settings.
type CacheConfig struct {
	Size int           `conf:"cache.size"`
	TTL  time.Duration `conf:"cache.ttl"`
}

// TxConfig holds transaction header settings.
type TxConfig struct {
	ChainName         string        `conf:"tx.chain_name"` // Empty derives from network
	TTL               time.Duration `conf:"tx.ttl"`
	GasPriceTolerance int           `conf:"tx.gas_price_tolerance"`
}

// StoreConfig holds the badger account-info store settings.
type StoreConfig struct {
	Enabled bool `conf:"store.enabled"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.cspr-wallet
//	macOS:   ~/Library/Application Support/CsprWallet
//	Windows: %APPDATA%\CsprWallet
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cspr-wallet"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "CsprWallet")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "CsprWallet")
		}
		return filepath.Join(home, "AppData", "Roaming", "CsprWallet")
	default:
		return filepath.Join(home, ".cspr-wallet")
	}
}

// ChainName returns the configured chain name, falling back to the
// network's default.
func (c *Config) ChainName() string {
	if c.Tx.ChainName != "" {
		return c.Tx.ChainName
	}
	return c.Network.ChainName()
}

// StoreDir returns the account-info database directory. Networks share the
// database and are kept apart by key prefix.
func (c *Config) StoreDir() string {
	return filepath.Join(c.DataDir, "accounts")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "cspr-wallet.conf")
}
