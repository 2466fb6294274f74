package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Klingon-tech/cspr-wallet-core/pkg/types"
)

func TestDefault(t *testing.T) {
	mainCfg := Default(types.Mainnet)
	if mainCfg.Network != types.Mainnet || mainCfg.Node.RPC != DefaultMainnetRPC {
		t.Errorf("Default(mainnet) = %+v", mainCfg)
	}
	test := Default(types.Testnet)
	if test.Network != types.Testnet || test.Node.RPC != DefaultTestnetRPC {
		t.Errorf("Default(testnet) = %+v", test)
	}
	if test.ChainName() != "casper-test" {
		t.Errorf("ChainName() = %q, want casper-test", test.ChainName())
	}
	if err := Validate(mainCfg); err != nil {
		t.Errorf("Validate(default mainnet) error: %v", err)
	}
	if err := Validate(test); err != nil {
		t.Errorf("Validate(default testnet) error: %v", err)
	}
}

func TestChainNameOverride(t *testing.T) {
	cfg := Default(types.Mainnet)
	cfg.Tx.ChainName = "casper-net-1"
	if cfg.ChainName() != "casper-net-1" {
		t.Errorf("ChainName() = %q, want casper-net-1", cfg.ChainName())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad network", func(c *Config) { c.Network = "devnet" }, "network"},
		{"empty datadir", func(c *Config) { c.DataDir = "" }, "datadir"},
		{"bad rpc scheme", func(c *Config) { c.Node.RPC = "ftp://node" }, "node.rpc"},
		{"rpc without host", func(c *Config) { c.Node.RPC = "http://" }, "node.rpc"},
		{"zero timeout", func(c *Config) { c.Node.Timeout = 0 }, "node.timeout"},
		{"zero cache size", func(c *Config) { c.Cache.Size = 0 }, "cache.size"},
		{"zero cache ttl", func(c *Config) { c.Cache.TTL = 0 }, "cache.ttl"},
		{"ttl too long", func(c *Config) { c.Tx.TTL = 3 * time.Hour }, "tx.ttl"},
		{"tolerance zero", func(c *Config) { c.Tx.GasPriceTolerance = 0 }, "tx.gas_price_tolerance"},
		{"tolerance overflow", func(c *Config) { c.Tx.GasPriceTolerance = 256 }, "tx.gas_price_tolerance"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default(types.Mainnet)
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
	if err := Validate(nil); err == nil {
		t.Error("Validate(nil) should fail")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.conf")
	content := `# comment
network = testnet
node.rpc = "http://127.0.0.1:7777/rpc"
node.timeout = 3s
cache.size = 250
cache.ttl = 1m
tx.ttl = 45m
tx.gas_price_tolerance = 3
store.enabled = no
log.level = debug
log.json = yes
unknown.key = ignored
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if values["node.rpc"] != "http://127.0.0.1:7777/rpc" {
		t.Errorf("quotes should be stripped, got %q", values["node.rpc"])
	}

	cfg := Default(types.Mainnet)
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}
	if cfg.Network != types.Testnet {
		t.Errorf("Network = %s, want testnet", cfg.Network)
	}
	if cfg.Node.Timeout != 3*time.Second {
		t.Errorf("Node.Timeout = %v, want 3s", cfg.Node.Timeout)
	}
	if cfg.Cache.Size != 250 || cfg.Cache.TTL != time.Minute {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Tx.TTL != 45*time.Minute || cfg.Tx.GasPriceTolerance != 3 {
		t.Errorf("Tx = %+v", cfg.Tx)
	}
	if cfg.Store.Enabled {
		t.Error("store.enabled = no should disable the store")
	}
	if cfg.Log.Level != "debug" || !cfg.Log.JSON {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	values, err := LoadFile(filepath.Join(t.TempDir(), "nope.conf"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("missing file should give no values, got %v", values)
	}
}

func TestLoadFile_BadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.conf")
	if err := os.WriteFile(path, []byte("network testnet\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile() should reject a line without '='")
	}
}

func TestApplyFileConfig_BadValues(t *testing.T) {
	tests := map[string]string{
		"network":      "devnet",
		"node.timeout": "soon",
		"cache.size":   "many",
		"tx.ttl":       "30",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			err := ApplyFileConfig(Default(types.Mainnet), map[string]string{key: value})
			if err == nil || !strings.Contains(err.Error(), key) {
				t.Errorf("ApplyFileConfig(%s=%s) error = %v", key, value, err)
			}
		})
	}
}

func TestWriteDefaultConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cspr-wallet.conf")
	if err := WriteDefaultConfig(path, types.Testnet); err != nil {
		t.Fatalf("WriteDefaultConfig() error: %v", err)
	}
	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if _, ok := values["node.rpc"]; ok {
		t.Error("default file should leave node.rpc to the network default")
	}
	cfg := Default(types.Mainnet)
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}
	if cfg.Network != types.Testnet {
		t.Errorf("Network = %s, want testnet", cfg.Network)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestParseFlags(t *testing.T) {
	f, err := ParseFlags([]string{"--testnet", "--rpc", "http://localhost:7777/rpc", "--log-json=false", "classify", "--file", "x.json"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	if f.Network != "testnet" {
		t.Errorf("Network = %q, want testnet", f.Network)
	}
	if !f.SetLogJSON || f.LogJSON {
		t.Errorf("log-json should be explicitly false, got set=%v value=%v", f.SetLogJSON, f.LogJSON)
	}
	if len(f.Args) != 3 || f.Args[0] != "classify" {
		t.Errorf("Args = %v, want subcommand and its flags", f.Args)
	}

	if _, err := ParseFlags([]string{"--bogus"}, io.Discard); err == nil {
		t.Error("ParseFlags() should reject unknown flags")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cfg, flags, err := Load([]string{"--datadir", dir, "--network", "casper-test", "--no-store", "status"}, io.Discard)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Network != types.Testnet || cfg.Node.RPC != DefaultTestnetRPC {
		t.Errorf("Load() network = %s rpc = %s", cfg.Network, cfg.Node.RPC)
	}
	if cfg.Store.Enabled {
		t.Error("--no-store should disable the store")
	}
	if flags.Args[0] != "status" {
		t.Errorf("Args = %v", flags.Args)
	}
	if _, err := os.Stat(cfg.ConfigFile()); err != nil {
		t.Errorf("Load() should create the config file: %v", err)
	}
	if _, err := os.Stat(cfg.LogsDir()); err != nil {
		t.Errorf("Load() should create the logs dir: %v", err)
	}
}

func TestLoad_FilePrecedence(t *testing.T) {
	dir := t.TempDir()
	conf := "network = testnet\nnode.timeout = 4s\nlog.level = warn\n"
	if err := os.WriteFile(filepath.Join(dir, "cspr-wallet.conf"), []byte(conf), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := Load([]string{"--datadir", dir, "--log-level", "error"}, io.Discard)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Network != types.Testnet || cfg.Node.RPC != DefaultTestnetRPC {
		t.Errorf("file network should select testnet defaults, got %s %s", cfg.Network, cfg.Node.RPC)
	}
	if cfg.Node.Timeout != 4*time.Second {
		t.Errorf("Node.Timeout = %v, want 4s", cfg.Node.Timeout)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("flag should override file, got log level %q", cfg.Log.Level)
	}
}
