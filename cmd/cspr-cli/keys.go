package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Klingon-tech/cspr-wallet-core/pkg/crypto"
	"github.com/Klingon-tech/cspr-wallet-core/pkg/types"
)

// ── account-hash ────────────────────────────────────────────────────────

func cmdAccountHash(args []string) {
	if len(args) < 1 {
		fatal("Usage: cspr-cli account-hash <pubkey>")
	}
	h, err := crypto.AccountHash(args[0])
	if err != nil {
		fatal("%v", err)
	}
	fmt.Println(types.ComposeNamedKey(types.PrefixAccountHash, h))
}

// ── split-key ───────────────────────────────────────────────────────────

func cmdSplitKey(args []string) {
	if len(args) < 1 {
		fatal("Usage: cspr-cli split-key <key>")
	}
	nk := types.SplitNamedKey(args[0])
	fmt.Printf("Prefix:   %s\n", nk.Prefix)
	fmt.Printf("Hash:     %s\n", nk.Hash)
	fmt.Printf("Key type: %s\n", types.ClassifyKeyType(args[0]))
}

// ── sign-message / verify-message ───────────────────────────────────────

func cmdSignMessage(args []string) {
	fs := flag.NewFlagSet("sign-message", flag.ExitOnError)
	key := fs.String("key", "", "Signer public key")
	message := fs.String("message", "", "Message to sign")
	secretFile := fs.String("secret-file", "", "File holding the hex secret key (prompts when empty)")
	fs.Parse(args)

	if *key == "" || *message == "" {
		fatal("Usage: cspr-cli sign-message --key <pubkey> --message <m>")
	}

	secret := loadSecret(*secretFile)
	defer zero(secret)

	sig, err := crypto.SignMessage(*message, *key, secret)
	if err != nil {
		fatal("sign message: %v", err)
	}
	fmt.Println(hex.EncodeToString(sig))
}

func cmdVerifyMessage(args []string) {
	fs := flag.NewFlagSet("verify-message", flag.ExitOnError)
	key := fs.String("key", "", "Signer public key")
	message := fs.String("message", "", "Signed message")
	sigHex := fs.String("signature", "", "Hex signature")
	fs.Parse(args)

	if *key == "" || *message == "" || *sigHex == "" {
		fatal("Usage: cspr-cli verify-message --key <pubkey> --message <m> --signature <hex>")
	}
	sig, err := hex.DecodeString(*sigHex)
	if err != nil {
		fatal("invalid signature hex: %v", err)
	}
	if !crypto.VerifyMessage(*message, sig, *key) {
		fmt.Println("invalid")
		os.Exit(1)
	}
	fmt.Println("valid")
}

// loadSecret reads a hex secret key from path, or prompts for it.
func loadSecret(path string) []byte {
	var (
		raw []byte
		err error
	)
	if path != "" {
		raw, err = os.ReadFile(path)
	} else {
		raw, err = readSecret("Enter secret key (hex): ")
	}
	if err != nil {
		fatal("read secret key: %v", err)
	}
	defer zero(raw)

	secret, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		fatal("secret key must be hex: %v", err)
	}
	return secret
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
