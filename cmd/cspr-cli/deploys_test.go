package main

import (
	"errors"
	"testing"

	"github.com/Klingon-tech/cspr-wallet-core/config"
	"github.com/Klingon-tech/cspr-wallet-core/internal/identity"
	"github.com/Klingon-tech/cspr-wallet-core/internal/storage"
	"github.com/Klingon-tech/cspr-wallet-core/pkg/types"
)

const testPublicKey = "01d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a"

func testConfig(t *testing.T, network types.Network) *config.Config {
	t.Helper()
	cfg := config.Default(network)
	cfg.DataDir = t.TempDir()
	return cfg
}

func TestWithStore_ClosesOnError(t *testing.T) {
	cfg := testConfig(t, types.Mainnet)
	hash := identity.AccountHashFor(testPublicKey, types.KeyTypePublicKey)
	errRun := errors.New("run failed")

	err := withStore(cfg, func(store *identity.Store) error {
		if err := store.Put(identity.AccountInfo{PublicKey: testPublicKey, AccountHash: hash, Name: "alice"}); err != nil {
			t.Fatalf("Put() error: %v", err)
		}
		return errRun
	})
	if !errors.Is(err, errRun) {
		t.Fatalf("withStore() error = %v, want %v", err, errRun)
	}

	// A second open fails on the directory lock unless the first was closed.
	db, err := storage.NewBadger(cfg.StoreDir())
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer db.Close()

	store := identity.NewStore(storage.NewPrefixDB(db, []byte("mainnet/")), 0)
	info, err := store.Get(hash)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if info.Name != "alice" {
		t.Errorf("Name = %q, want alice", info.Name)
	}
}

func TestWithStore_NetworksAreIsolated(t *testing.T) {
	mainCfg := testConfig(t, types.Mainnet)
	testCfg := config.Default(types.Testnet)
	testCfg.DataDir = mainCfg.DataDir

	hash := identity.AccountHashFor(testPublicKey, types.KeyTypePublicKey)
	err := withStore(mainCfg, func(store *identity.Store) error {
		_, err := importAccounts(store, []identity.AccountInfo{{PublicKey: testPublicKey}})
		return err
	})
	if err != nil {
		t.Fatalf("import on mainnet: %v", err)
	}

	err = withStore(testCfg, func(store *identity.Store) error {
		_, err := store.Get(hash)
		return err
	})
	if !errors.Is(err, identity.ErrAccountNotFound) {
		t.Errorf("testnet Get() error = %v, want ErrAccountNotFound", err)
	}
}

func TestWithStore_Disabled(t *testing.T) {
	cfg := testConfig(t, types.Mainnet)
	cfg.Store.Enabled = false

	called := false
	err := withStore(cfg, func(store *identity.Store) error {
		called = true
		if store != nil {
			t.Error("disabled store should be nil")
		}
		return nil
	})
	if err != nil || !called {
		t.Errorf("withStore() = %v, called %v", err, called)
	}
	if _, err := importAccounts(nil, nil); err == nil {
		t.Error("importAccounts(nil store) should fail")
	}
}

func TestImportAccounts(t *testing.T) {
	store := identity.NewStore(storage.NewMemory(), 0)
	records := []identity.AccountInfo{
		{PublicKey: testPublicKey, Name: "derived"},
		{PublicKey: "not-a-key"},
		{AccountHash: "ab" + testPublicKey[4:], Name: "explicit"},
	}

	n, err := importAccounts(store, records)
	if err != nil {
		t.Fatalf("importAccounts() error: %v", err)
	}
	if n != 2 {
		t.Errorf("imported = %d, want 2", n)
	}
	info, err := store.Get(identity.AccountHashFor(testPublicKey, types.KeyTypePublicKey))
	if err != nil || info.Name != "derived" {
		t.Errorf("derived record = %+v, %v", info, err)
	}
}
