package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Klingon-tech/cspr-wallet-core/config"
	"github.com/Klingon-tech/cspr-wallet-core/internal/deploy"
	"github.com/Klingon-tech/cspr-wallet-core/internal/identity"
	"github.com/Klingon-tech/cspr-wallet-core/internal/storage"
	"github.com/Klingon-tech/cspr-wallet-core/pkg/types"
)

// withStore opens the account-info store for the configured network, runs
// fn and closes the store before returning fn's error. fn gets a nil store
// when the store is disabled.
func withStore(cfg *config.Config, fn func(*identity.Store) error) error {
	if !cfg.Store.Enabled {
		return fn(nil)
	}
	db, err := storage.NewBadger(cfg.StoreDir())
	if err != nil {
		return fmt.Errorf("open account store: %w", err)
	}
	ns := storage.NewPrefixDB(db, []byte(string(cfg.Network)+"/"))
	runErr := fn(identity.NewStore(ns, 0))
	if err := db.Close(); err != nil && runErr == nil {
		return fmt.Errorf("close account store: %w", err)
	}
	return runErr
}

func readInput(path string) []byte {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		fatal("read input: %v", err)
	}
	return data
}

// ── classify ────────────────────────────────────────────────────────────

func cmdClassify(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	file := fs.String("file", "-", "Explorer deploy JSON (object, array or page); - for stdin")
	active := fs.String("active", "", "Active account public key")
	summary := fs.Bool("summary", false, "Print one line per deploy instead of JSON")
	fs.Parse(args)

	if *active != "" && !types.ValidatePublicKey(*active) {
		fatal("invalid --active public key %q", *active)
	}

	raws, errs := deploy.ParseMany(readInput(*file))
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "Skipping record: %v\n", err)
	}

	err := withStore(cfg, func(store *identity.Store) error {
		return classify(cfg, store, *active, raws, *summary)
	})
	if err != nil {
		fatal("%v", err)
	}
}

func classify(cfg *config.Config, store *identity.Store, active string, raws []*deploy.CloudDeploy, summary bool) error {
	cache := identity.NewCache(cfg.Cache.Size, cfg.Cache.TTL)
	var warmer *identity.Warmer
	if store != nil {
		if _, err := store.LoadInto(cache); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: account store: %v\n", err)
		}
		warmer = identity.NewWarmer(cache, store, nil)
	}

	pipeline := deploy.NewPipeline(cfg.Network, cache, warmer)
	deploys, err := pipeline.Process(context.Background(), active, raws)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if !summary {
		data, err := json.MarshalIndent(deploys, "", "  ")
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}
	for _, d := range deploys {
		printSummary(d)
	}
	return nil
}

func printSummary(d *deploy.Deploy) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %-15s %-8s", d.Hash, d.Kind, d.Status)
	switch det := d.Details.(type) {
	case deploy.NativeCsprDetails:
		dir := "to"
		if det.IsReceive {
			dir = "from"
		}
		fmt.Fprintf(&b, " %s motes %s %s", det.Amount, dir, label(det.Recipient))
	case deploy.Cep18Details:
		fmt.Fprintf(&b, " %s %s (%s)", det.Amount, det.Symbol, d.EntryPoint)
	case deploy.NftDetails:
		fmt.Fprintf(&b, " %s %v", d.EntryPoint, det.TokenIDs)
	case deploy.AuctionDetails:
		fmt.Fprintf(&b, " %s %s motes", d.EntryPoint, det.Amount)
	case deploy.CsprMarketDetails:
		fmt.Fprintf(&b, " %s %v", d.EntryPoint, det.TokenIDs)
	}
	fmt.Println(b.String())
}

func label(id identity.Identity) string {
	if id.ResolvedInfo != nil && id.ResolvedInfo.Name != "" {
		return id.ResolvedInfo.Name
	}
	return id.Key
}

// ── account-import ──────────────────────────────────────────────────────

func cmdAccountImport(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("account-import", flag.ExitOnError)
	file := fs.String("file", "-", "JSON array of account info records; - for stdin")
	fs.Parse(args)

	if !cfg.Store.Enabled {
		fatal("account store is disabled (store.enabled = false)")
	}

	var records []identity.AccountInfo
	if err := json.Unmarshal(readInput(*file), &records); err != nil {
		fatal("parse account info: %v", err)
	}

	var imported int
	err := withStore(cfg, func(store *identity.Store) error {
		var err error
		imported, err = importAccounts(store, records)
		return err
	})
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("Imported %d of %d records\n", imported, len(records))
}

// importAccounts stores each record, deriving a missing account hash from
// the public key. Bad records are reported and skipped.
func importAccounts(store *identity.Store, records []identity.AccountInfo) (int, error) {
	if store == nil {
		return 0, fmt.Errorf("account store is disabled (store.enabled = false)")
	}
	imported := 0
	for _, info := range records {
		if info.AccountHash == "" {
			h := identity.AccountHashFor(info.PublicKey, types.KeyTypePublicKey)
			if h == "" {
				fmt.Fprintf(os.Stderr, "Skipping %q: no account hash or valid public key\n", info.PublicKey)
				continue
			}
			info.AccountHash = h
		}
		if err := store.Put(info); err != nil {
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", info.AccountHash, err)
			continue
		}
		imported++
	}
	return imported, nil
}
