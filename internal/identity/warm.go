package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Klingon-tech/cspr-wallet-core/internal/log"
	"github.com/Klingon-tech/cspr-wallet-core/pkg/crypto"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Warmer defaults.
const (
	DefaultBatchSize   = 100
	DefaultParallelism = 4
)

// Fetcher bulk-fetches account-info records from an external service.
// Records for unknown hashes are simply absent from the result.
type Fetcher interface {
	FetchAccountInfo(ctx context.Context, accountHashes []string) ([]AccountInfo, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, accountHashes []string) ([]AccountInfo, error)

// FetchAccountInfo calls f.
func (f FetcherFunc) FetchAccountInfo(ctx context.Context, accountHashes []string) ([]AccountInfo, error) {
	return f(ctx, accountHashes)
}

// Warmer fills a Cache ahead of normalization: first from the persistent
// Store, then from the Fetcher for whatever is still missing.
type Warmer struct {
	cache   *Cache
	store   *Store // optional
	fetcher Fetcher

	BatchSize   int
	Parallelism int

	logger zerolog.Logger
}

// NewWarmer creates a warmer. store and fetcher may be nil.
func NewWarmer(cache *Cache, store *Store, fetcher Fetcher) *Warmer {
	return &Warmer{
		cache:       cache,
		store:       store,
		fetcher:     fetcher,
		BatchSize:   DefaultBatchSize,
		Parallelism: DefaultParallelism,
		logger:      log.Identity,
	}
}

// Warm makes sure every hash in accountHashes that can be resolved is in the
// cache. It returns the number of records added.
func (w *Warmer) Warm(ctx context.Context, accountHashes []string) (int, error) {
	missing := w.missing(accountHashes)
	if len(missing) == 0 {
		return 0, nil
	}

	added := 0
	if w.store != nil {
		rest := missing[:0]
		for _, h := range missing {
			info, err := w.store.Get(h)
			if err != nil {
				rest = append(rest, h)
				continue
			}
			w.cache.Set(h, info)
			added++
		}
		missing = rest
	}
	if len(missing) == 0 || w.fetcher == nil {
		return added, nil
	}

	fetched, err := w.fetch(ctx, missing)
	for _, info := range fetched {
		if info.AccountHash == "" {
			h, herr := crypto.AccountHash(info.PublicKey)
			if herr != nil {
				w.logger.Debug().Str("public_key", info.PublicKey).Msg("Skipping account info with bad public key")
				continue
			}
			info.AccountHash = h
		}
		info.AccountHash = strings.ToLower(info.AccountHash)
		w.cache.Set(info.AccountHash, info)
		added++
		if w.store != nil {
			if perr := w.store.Put(info); perr != nil {
				w.logger.Warn().Err(perr).Str("account_hash", info.AccountHash).Msg("Failed to persist account info")
			}
		}
	}
	w.logger.Debug().Int("requested", len(missing)).Int("fetched", len(fetched)).Msg("Account info warmed")
	if err != nil {
		return added, fmt.Errorf("warm account info: %w", err)
	}
	return added, nil
}

// missing deduplicates hashes and drops the ones already cached.
func (w *Warmer) missing(hashes []string) []string {
	seen := make(map[string]bool, len(hashes))
	var out []string
	for _, h := range hashes {
		h = strings.ToLower(h)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		if !w.cache.Contains(h) {
			out = append(out, h)
		}
	}
	return out
}

// fetch requests hashes in batches, running up to Parallelism batches at
// once. Records from successful batches are returned even when another
// batch fails.
func (w *Warmer) fetch(ctx context.Context, hashes []string) ([]AccountInfo, error) {
	size := w.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	g, gctx := errgroup.WithContext(ctx)
	if w.Parallelism > 0 {
		g.SetLimit(w.Parallelism)
	}

	var (
		mu  sync.Mutex
		out []AccountInfo
	)
	for start := 0; start < len(hashes); start += size {
		batch := hashes[start:min(start+size, len(hashes))]
		g.Go(func() error {
			infos, err := w.fetcher.FetchAccountInfo(gctx, batch)
			if err != nil {
				return err
			}
			mu.Lock()
			out = append(out, infos...)
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	return out, err
}
