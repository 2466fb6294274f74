package storage

import (
	"errors"
	"sort"
	"testing"
	"time"
)

func TestPrefixDB_Operations(t *testing.T) {
	db := NewPrefixDB(NewMemory(), []byte("mainnet/"))
	key := []byte("acct/aa")

	if err := db.Put(key, []byte("alice")); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	got, err := db.Get(key)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if string(got) != "alice" {
		t.Errorf("Get() = %q, want alice", got)
	}
	if ok, err := db.Has(key); err != nil || !ok {
		t.Errorf("Has() = %v, %v; want true", ok, err)
	}

	if err := db.Delete(key); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := db.Get(key); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestPrefixDB_NetworksAreIsolated(t *testing.T) {
	inner := NewMemory()
	mainnet := NewPrefixDB(inner, []byte("mainnet/"))
	testnet := NewPrefixDB(inner, []byte("testnet/"))
	key := []byte("acct/aa")

	if err := mainnet.Put(key, []byte("m")); err != nil {
		t.Fatal(err)
	}
	if err := testnet.Put(key, []byte("t")); err != nil {
		t.Fatal(err)
	}

	for _, tt := range []struct {
		name string
		db   *PrefixDB
		want string
	}{
		{"mainnet", mainnet, "m"},
		{"testnet", testnet, "t"},
	} {
		got, err := tt.db.Get(key)
		if err != nil {
			t.Fatalf("%s Get() error: %v", tt.name, err)
		}
		if string(got) != tt.want {
			t.Errorf("%s Get() = %q, want %q", tt.name, got, tt.want)
		}
	}

	raw, err := inner.Get([]byte("mainnet/acct/aa"))
	if err != nil || string(raw) != "m" {
		t.Errorf("inner key should carry the namespace, got %q, %v", raw, err)
	}
}

func TestPrefixDB_ForEach(t *testing.T) {
	inner := NewMemory()
	db := NewPrefixDB(inner, []byte("testnet/"))
	for _, k := range []string{"acct/01", "acct/02", "meta/version"} {
		if err := db.Put([]byte(k), []byte(k)); err != nil {
			t.Fatal(err)
		}
	}
	if err := inner.Put([]byte("mainnet/acct/03"), []byte("other")); err != nil {
		t.Fatal(err)
	}

	var keys []string
	err := db.ForEach([]byte("acct/"), func(key, value []byte) error {
		if string(key) != string(value) {
			t.Errorf("key %q has value %q", key, value)
		}
		keys = append(keys, string(key))
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach() error: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "acct/01" || keys[1] != "acct/02" {
		t.Errorf("ForEach() keys = %v, want stripped acct/01 and acct/02", keys)
	}

	stop := errors.New("stop")
	calls := 0
	err = db.ForEach(nil, func(_, _ []byte) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Errorf("ForEach() should stop on callback error, got %v after %d calls", err, calls)
	}
}

func TestPrefixDB_DeleteAll(t *testing.T) {
	inner := NewMemory()
	db := NewPrefixDB(inner, []byte("testnet/"))
	keep := []byte("mainnet/acct/01")
	if err := inner.Put(keep, []byte("x")); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if err := db.Put([]byte{'k', byte('0' + i)}, []byte("v")); err != nil {
			t.Fatal(err)
		}
	}

	if err := db.DeleteAll(); err != nil {
		t.Fatalf("DeleteAll() error: %v", err)
	}
	n := 0
	if err := db.ForEach(nil, func(_, _ []byte) error { n++; return nil }); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("%d keys left after DeleteAll()", n)
	}
	if ok, _ := inner.Has(keep); !ok {
		t.Error("DeleteAll() removed a key outside its namespace")
	}

	if err := NewPrefixDB(NewMemory(), []byte("empty/")).DeleteAll(); err != nil {
		t.Errorf("DeleteAll() on empty namespace error: %v", err)
	}
}

func TestPrefixDB_CloseLeavesInnerOpen(t *testing.T) {
	inner := NewMemory()
	db := NewPrefixDB(inner, []byte("p/"))
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := inner.Put([]byte("k"), []byte("v")); err != nil {
		t.Errorf("inner DB unusable after PrefixDB.Close(): %v", err)
	}
}

func TestPrefixDB_PutWithTTL(t *testing.T) {
	inner := NewMemory()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	inner.now = func() time.Time { return now }
	db := NewPrefixDB(inner, []byte("p/"))

	if err := db.PutWithTTL([]byte("k"), []byte("v"), time.Minute); err != nil {
		t.Fatalf("PutWithTTL() error: %v", err)
	}
	if ok, _ := db.Has([]byte("k")); !ok {
		t.Fatal("key should be live before its TTL")
	}
	now = now.Add(2 * time.Minute)
	if ok, _ := db.Has([]byte("k")); ok {
		t.Error("key should expire after its TTL")
	}
}
