package identity

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/Klingon-tech/cspr-wallet-core/internal/storage"
)

type fakeFetcher struct {
	mu      sync.Mutex
	known   map[string]AccountInfo
	calls   [][]string
	failFor string
}

func (f *fakeFetcher) FetchAccountInfo(_ context.Context, hashes []string) ([]AccountInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string(nil), hashes...))
	var out []AccountInfo
	for _, h := range hashes {
		if h == f.failFor {
			return nil, errors.New("upstream down")
		}
		if info, ok := f.known[h]; ok {
			out = append(out, info)
		}
	}
	return out, nil
}

func TestWarmer_FetchesMissingOnly(t *testing.T) {
	edHash := mustAccountHash(t, edKey)
	secpHash := mustAccountHash(t, secpKey)

	cache := NewCache(0, 0)
	cache.Set(secpHash, AccountInfo{PublicKey: secpKey, AccountHash: secpHash})
	f := &fakeFetcher{known: map[string]AccountInfo{
		// No account hash in the record: the warmer derives it.
		edHash: {PublicKey: edKey, Name: "alice"},
	}}
	store := NewStore(storage.NewMemory(), 0)
	w := NewWarmer(cache, store, f)

	n, err := w.Warm(context.Background(), []string{edHash, strings.ToUpper(edHash), secpHash, "", strings.Repeat("0", 64)})
	if err != nil {
		t.Fatalf("Warm() error: %v", err)
	}
	if n != 1 {
		t.Errorf("Warm() added %d, want 1", n)
	}
	if len(f.calls) != 1 || len(f.calls[0]) != 2 {
		t.Fatalf("fetch calls = %v, want one call with two hashes", f.calls)
	}
	if _, ok := cache.Get(edHash); !ok {
		t.Error("fetched record missing from cache")
	}
	if got, err := store.Get(edHash); err != nil || got.Name != "alice" {
		t.Errorf("store Get() = (%+v, %v)", got, err)
	}
}

func TestWarmer_StoreBeforeFetcher(t *testing.T) {
	edHash := mustAccountHash(t, edKey)
	store := NewStore(storage.NewMemory(), 0)
	store.Put(AccountInfo{PublicKey: edKey, AccountHash: edHash})
	f := &fakeFetcher{}
	cache := NewCache(0, 0)

	n, err := NewWarmer(cache, store, f).Warm(context.Background(), []string{edHash})
	if err != nil {
		t.Fatalf("Warm() error: %v", err)
	}
	if n != 1 || len(f.calls) != 0 {
		t.Errorf("added %d with %d fetches, want 1 with 0", n, len(f.calls))
	}
}

func TestWarmer_Batches(t *testing.T) {
	f := &fakeFetcher{known: map[string]AccountInfo{}}
	var hashes []string
	for i := 0; i < 7; i++ {
		hashes = append(hashes, strings.Repeat(string(rune('a'+i)), 64))
	}
	w := NewWarmer(NewCache(0, 0), nil, f)
	w.BatchSize = 3
	if _, err := w.Warm(context.Background(), hashes); err != nil {
		t.Fatalf("Warm() error: %v", err)
	}
	if len(f.calls) != 3 {
		t.Errorf("fetch calls = %d, want 3", len(f.calls))
	}
}

func TestWarmer_FetchErrorKeepsPartialResults(t *testing.T) {
	edHash := mustAccountHash(t, edKey)
	bad := strings.Repeat("f", 64)
	f := &fakeFetcher{
		known:   map[string]AccountInfo{edHash: {PublicKey: edKey, AccountHash: edHash}},
		failFor: bad,
	}
	cache := NewCache(0, 0)
	w := NewWarmer(cache, nil, f)
	w.BatchSize = 1
	w.Parallelism = 1

	_, err := w.Warm(context.Background(), []string{edHash, bad})
	if err == nil {
		t.Fatal("Warm() should report the failed batch")
	}
	if _, ok := cache.Get(edHash); !ok {
		t.Error("successful batch should still populate the cache")
	}
}

func TestWarmer_NoFetcher(t *testing.T) {
	n, err := NewWarmer(NewCache(0, 0), nil, nil).Warm(context.Background(), []string{"aa"})
	if err != nil || n != 0 {
		t.Errorf("Warm() = (%d, %v), want (0, nil)", n, err)
	}
}
