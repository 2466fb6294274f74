package main

import (
	"context"
	"flag"
	"math/big"

	"github.com/Klingon-tech/cspr-wallet-core/config"
	"github.com/Klingon-tech/cspr-wallet-core/internal/rpcclient"
	"github.com/Klingon-tech/cspr-wallet-core/internal/txbuilder"
	"github.com/Klingon-tech/cspr-wallet-core/pkg/crypto"
	"github.com/Klingon-tech/cspr-wallet-core/pkg/tx"
	"github.com/Klingon-tech/cspr-wallet-core/pkg/types"
	"github.com/shopspring/decimal"
)

// txFlags are shared by every transaction command.
type txFlags struct {
	payment    *string
	sign       *bool
	secretFile *string
	out        *string
	offline    *bool
}

func addTxFlags(fs *flag.FlagSet) txFlags {
	return txFlags{
		payment:    fs.String("payment", "", "Payment amount in CSPR (selects payment-limited pricing)"),
		sign:       fs.Bool("sign", false, "Sign the transaction"),
		secretFile: fs.String("secret-file", "", "File holding the hex secret key (prompts when empty)"),
		out:        fs.String("out", "", "Write the transaction JSON to a file"),
		offline:    fs.Bool("offline", false, "Do not query the node for a timestamp"),
	}
}

func newBuilder(cfg *config.Config, f txFlags) *txbuilder.Builder {
	bcfg := txbuilder.Config{
		ChainName:         cfg.ChainName(),
		TTL:               cfg.Tx.TTL,
		GasPriceTolerance: uint8(cfg.Tx.GasPriceTolerance),
	}
	if *f.offline {
		return txbuilder.New(bcfg, nil)
	}
	return txbuilder.New(bcfg, rpcclient.NewWithTimeout(cfg.Node.RPC, cfg.Node.Timeout))
}

// finish signs txn when asked and writes it out.
func finish(txn *tx.Transaction, err error, f txFlags) {
	if err != nil {
		fatal("build transaction: %v", err)
	}
	if *f.sign {
		secret := loadSecret(*f.secretFile)
		key, kerr := crypto.PrivateKeyFor(txn.Header.Initiator.String(), secret)
		zero(secret)
		if kerr != nil {
			fatal("load signing key: %v", kerr)
		}
		signed, serr := txn.Sign(key)
		key.Zero()
		if serr != nil {
			fatal("sign transaction: %v", serr)
		}
		txn = signed
	}
	writeJSON(*f.out, txn)
}

func parsePublicKey(name, s string) types.PublicKey {
	if s == "" {
		fatal("--%s is required", name)
	}
	pk, err := types.ParsePublicKey(s)
	if err != nil {
		fatal("invalid --%s: %v", name, err)
	}
	return pk
}

func parseHash(name, s string) types.Hash {
	if s == "" {
		fatal("--%s is required", name)
	}
	h, err := types.HexToHash(s)
	if err != nil {
		fatal("invalid --%s: %v", name, err)
	}
	return h
}

// parseCSPR converts a decimal CSPR amount to motes.
func parseCSPR(name, s string) *big.Int {
	if s == "" {
		fatal("--%s is required", name)
	}
	motes, err := types.ParseMinorUnits(s, types.CSPRDecimals)
	if err != nil {
		fatal("invalid --%s: %v", name, err)
	}
	return motes
}

func parsePayment(s string) uint64 {
	if s == "" {
		return 0
	}
	motes := parseCSPR("payment", s)
	if !motes.IsUint64() {
		fatal("--payment is too large")
	}
	return motes.Uint64()
}

// ── transfer ────────────────────────────────────────────────────────────

func cmdTransfer(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("transfer", flag.ExitOnError)
	from := fs.String("from", "", "Sender public key")
	to := fs.String("to", "", "Recipient public key")
	amount := fs.String("amount", "", "Amount in CSPR (e.g. 2.5)")
	f := addTxFlags(fs)
	fs.Parse(args)

	b := newBuilder(cfg, f)
	txn, err := b.NativeTransfer(context.Background(), txbuilder.NativeTransfer{
		Sender:        parsePublicKey("from", *from),
		Recipient:     parsePublicKey("to", *to),
		Amount:        parseCSPR("amount", *amount),
		PaymentAmount: parsePayment(*f.payment),
	})
	finish(txn, err, f)
}

// ── cep18-transfer ──────────────────────────────────────────────────────

func cmdCep18Transfer(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("cep18-transfer", flag.ExitOnError)
	from := fs.String("from", "", "Sender public key")
	contract := fs.String("contract", "", "Token contract hash")
	to := fs.String("to", "", "Recipient public key")
	amount := fs.String("amount", "", "Amount in whole tokens (e.g. 12.5)")
	decimals := fs.Int("decimals", 0, "Token decimals")
	f := addTxFlags(fs)
	fs.Parse(args)

	if *amount == "" {
		fatal("--amount is required")
	}
	amt, err := decimal.NewFromString(*amount)
	if err != nil {
		fatal("invalid --amount: %v", err)
	}
	if *decimals < 0 || *decimals > 77 {
		fatal("--decimals must be in range [0, 77]")
	}

	b := newBuilder(cfg, f)
	txn, err := b.Cep18Transfer(context.Background(), txbuilder.Cep18Transfer{
		Sender:        parsePublicKey("from", *from),
		Contract:      parseHash("contract", *contract),
		Recipient:     parsePublicKey("to", *to),
		Amount:        amt,
		Decimals:      int32(*decimals),
		PaymentAmount: parsePayment(*f.payment),
	})
	finish(txn, err, f)
}

// ── nft-transfer ────────────────────────────────────────────────────────

func cmdNftTransfer(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("nft-transfer", flag.ExitOnError)
	from := fs.String("from", "", "Sender public key")
	contract := fs.String("contract", "", "NFT contract hash")
	to := fs.String("to", "", "Recipient public key")
	token := fs.String("token", "", "Token id (or token hash with --hash-id)")
	standard := fs.Int("standard", int(txbuilder.CEP78), "NFT standard: 47 or 78")
	hashID := fs.Bool("hash-id", false, "CEP-78 hash identifier mode")
	f := addTxFlags(fs)
	fs.Parse(args)

	b := newBuilder(cfg, f)
	txn, err := b.NftTransfer(context.Background(), txbuilder.NftTransfer{
		Sender:         parsePublicKey("from", *from),
		Contract:       parseHash("contract", *contract),
		Standard:       txbuilder.NftStandard(*standard),
		Recipient:      parsePublicKey("to", *to),
		TokenID:        *token,
		HashIdentifier: *hashID,
		PaymentAmount:  parsePayment(*f.payment),
	})
	finish(txn, err, f)
}

// ── delegate / undelegate / redelegate ──────────────────────────────────

func cmdDelegation(cfg *config.Config, cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	from := fs.String("from", "", "Delegator public key")
	validator := fs.String("validator", "", "Validator public key")
	newValidator := fs.String("new-validator", "", "Target validator public key (redelegate)")
	amount := fs.String("amount", "", "Amount in CSPR")
	f := addTxFlags(fs)
	fs.Parse(args)

	in := txbuilder.Delegation{
		Delegator:     parsePublicKey("from", *from),
		Validator:     parsePublicKey("validator", *validator),
		Amount:        parseCSPR("amount", *amount),
		PaymentAmount: parsePayment(*f.payment),
	}
	switch cmd {
	case "delegate":
		in.Action = txbuilder.Delegate
	case "undelegate":
		in.Action = txbuilder.Undelegate
	case "redelegate":
		in.Action = txbuilder.Redelegate
	}
	if *newValidator != "" {
		pk := parsePublicKey("new-validator", *newValidator)
		in.NewValidator = &pk
	}

	b := newBuilder(cfg, f)
	txn, err := b.Delegation(context.Background(), in)
	finish(txn, err, f)
}
