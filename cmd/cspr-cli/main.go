// cspr-cli classifies explorer deploy records and builds and signs Casper
// transactions.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/Klingon-tech/cspr-wallet-core/config"
	"github.com/Klingon-tech/cspr-wallet-core/internal/log"
	"github.com/Klingon-tech/cspr-wallet-core/internal/rpcclient"
	"golang.org/x/term"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, flags, err := config.Load(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			usage()
			return
		}
		fatal("%v", err)
	}
	if err := log.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		fatal("init logging: %v", err)
	}

	args := flags.Args
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	cmd := args[0]
	cmdArgs := args[1:]
	logger := log.WithNetwork(string(cfg.Network))
	logger.Debug().Str("command", cmd).Str("datadir", cfg.DataDir).Msg("Running command")

	switch cmd {
	case "status":
		cmdStatus(cfg)
	case "classify":
		cmdClassify(cfg, cmdArgs)
	case "account-import":
		cmdAccountImport(cfg, cmdArgs)
	case "account-hash":
		cmdAccountHash(cmdArgs)
	case "split-key":
		cmdSplitKey(cmdArgs)
	case "sign-message":
		cmdSignMessage(cmdArgs)
	case "verify-message":
		cmdVerifyMessage(cmdArgs)
	case "transfer":
		cmdTransfer(cfg, cmdArgs)
	case "cep18-transfer":
		cmdCep18Transfer(cfg, cmdArgs)
	case "nft-transfer":
		cmdNftTransfer(cfg, cmdArgs)
	case "delegate", "undelegate", "redelegate":
		cmdDelegation(cfg, cmd, cmdArgs)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: cspr-cli [global flags] <command> [flags]

Global flags:
  --network <net>     mainnet (default) or testnet
  --testnet           Shorthand for --network=testnet
  --datadir <path>    Data directory (default: ~/.cspr-wallet)
  --config, -c <file> Config file (default: <datadir>/cspr-wallet.conf)
  --rpc <url>         Node JSON-RPC endpoint
  --timeout <dur>     Node request timeout
  --no-store          Do not use the persistent account-info store
  --log-level <lvl>   debug, info, warn, error
  --log-file <path>   Also write JSON logs to a file
  --log-json          Output logs as JSON

Commands:
  status                          Show node status
  classify --file <f> --active <pubkey>
                                  Classify and normalize explorer deploys
  account-import --file <f>       Store account info records for classify
  account-hash <pubkey>           Derive an account hash
  split-key <key>                 Split a prefixed key into prefix and hash
  sign-message --key <pubkey> --message <m>
                                  Sign a message with the Casper header
  verify-message --key <pubkey> --message <m> --signature <hex>
                                  Verify a message signature

  transfer --from <pubkey> --to <pubkey> --amount <cspr>
                                  Build a native CSPR transfer
  cep18-transfer --from <pubkey> --contract <hash> --to <pubkey>
                 --amount <n> --decimals <d>
                                  Build a CEP-18 token transfer
  nft-transfer --from <pubkey> --contract <hash> --to <pubkey>
               --token <id> [--standard 47|78] [--hash-id]
                                  Build an NFT transfer
  delegate --from <pubkey> --validator <pubkey> --amount <cspr>
  undelegate --from <pubkey> --validator <pubkey> --amount <cspr>
  redelegate --from <pubkey> --validator <pubkey> --new-validator <pubkey>
             --amount <cspr>
                                  Build an auction transaction

Transaction commands accept --payment <cspr> for payment-limited pricing,
--sign to prompt for the secret key (or --secret-file <f>), and --out <f>.
`)
}

// ── status ──────────────────────────────────────────────────────────────

func cmdStatus(cfg *config.Config) {
	client := rpcclient.NewWithTimeout(cfg.Node.RPC, cfg.Node.Timeout)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Node.Timeout)
	defer cancel()

	status, err := client.Status(ctx)
	if err != nil {
		fatal("%v", err)
	}

	fmt.Printf("Node:          %s\n", client.Endpoint())
	fmt.Printf("Chain:         %s\n", status.ChainspecName)
	fmt.Printf("API version:   %s\n", status.APIVersion)
	if status.BuildVersion != "" {
		fmt.Printf("Build:         %s\n", status.BuildVersion)
	}
	if status.ReactorState != "" {
		fmt.Printf("State:         %s\n", status.ReactorState)
	}
	if status.LastProgress != nil {
		fmt.Printf("Last progress: %s\n", status.LastProgress.UTC().Format(time.RFC3339))
	}
	if status.ChainspecName != "" && status.ChainspecName != cfg.ChainName() {
		fmt.Fprintf(os.Stderr, "Warning: node chain %q differs from configured %q\n", status.ChainspecName, cfg.ChainName())
	}
}

// ── Output helpers ──────────────────────────────────────────────────────

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal("encode output: %v", err)
	}
	fmt.Println(string(data))
}

func writeJSON(path string, v interface{}) {
	if path == "" {
		printJSON(v)
		return
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal("encode output: %v", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		fatal("write %s: %v", path, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
}

// ── Secret helper ───────────────────────────────────────────────────────

func readSecret(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return secret, nil
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
