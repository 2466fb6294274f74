package txbuilder

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Klingon-tech/cspr-wallet-core/pkg/crypto"
	"github.com/Klingon-tech/cspr-wallet-core/pkg/tx"
	"github.com/Klingon-tech/cspr-wallet-core/pkg/types"
	"github.com/shopspring/decimal"
)

// NativeTransfer moves CSPR between accounts.
type NativeTransfer struct {
	Sender    types.PublicKey
	Recipient types.PublicKey
	Amount    *big.Int // motes
	// PaymentAmount selects payment-limited pricing when non-zero.
	PaymentAmount uint64
}

// NativeTransfer builds a native transfer. Its id argument is the header
// timestamp in unix milliseconds.
func (b *Builder) NativeTransfer(ctx context.Context, in NativeTransfer) (*tx.Transaction, error) {
	if err := requireKey("sender", in.Sender); err != nil {
		return nil, err
	}
	if err := requireKey("recipient", in.Recipient); err != nil {
		return nil, err
	}
	if err := requirePositive("amount", in.Amount); err != nil {
		return nil, err
	}

	tb, ts := b.header(ctx, in.Sender, in.PaymentAmount)
	amount, err := tx.U512(in.Amount)
	id := tx.U64(uint64(ts.UnixMilli()))
	return tb.
		SetTarget(tx.NativeTarget()).
		SetEntryPoint(tx.SystemEntryPoint(tx.EntryPointTransfer)).
		SetCategory(tx.CategoryMint).
		AddArg("target", tx.PublicKeyValue(in.Recipient)).
		AddArgErr("amount", amount, err).
		AddArg("id", tx.Option(tx.Simple(tx.CLTypeU64), &id)).
		Build()
}

// Cep18Transfer moves fungible tokens held by a CEP-18 contract.
type Cep18Transfer struct {
	Sender    types.PublicKey
	Contract  types.Hash // contract hash
	Recipient types.PublicKey
	Amount    decimal.Decimal // in whole tokens
	Decimals  int32
	// PaymentAmount selects payment-limited pricing when non-zero.
	PaymentAmount uint64
}

// Cep18Transfer builds a CEP-18 transfer. The recipient is embedded as its
// account hash and the amount is scaled to the token's minor units.
func (b *Builder) Cep18Transfer(ctx context.Context, in Cep18Transfer) (*tx.Transaction, error) {
	if err := requireKey("sender", in.Sender); err != nil {
		return nil, err
	}
	if err := requireKey("recipient", in.Recipient); err != nil {
		return nil, err
	}
	if in.Contract.IsZero() {
		return nil, invalid("missing token contract")
	}
	minor, err := types.ToMinorUnits(in.Amount, in.Decimals)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIntent, err)
	}
	if err := requirePositive("amount", minor); err != nil {
		return nil, err
	}

	tb, _ := b.header(ctx, in.Sender, in.PaymentAmount)
	amount, err := tx.U256(minor)
	return tb.
		SetTarget(tx.StoredByHash(in.Contract)).
		SetEntryPoint(tx.CustomEntryPoint("transfer")).
		SetCategory(tx.CategoryLarge).
		AddArg("recipient", tx.AccountKey(crypto.AccountHashFromPublicKey(in.Recipient))).
		AddArgErr("amount", amount, err).
		Build()
}

// NftStandard selects the NFT contract interface.
type NftStandard int

const (
	CEP47 NftStandard = 47
	CEP78 NftStandard = 78
)

// NftTransfer moves one NFT.
type NftTransfer struct {
	Sender    types.PublicKey
	Contract  types.Hash // contract hash
	Standard  NftStandard
	Recipient types.PublicKey
	TokenID   string
	// HashIdentifier selects CEP-78 hash identifier mode: TokenID is the
	// token hash rather than its ordinal.
	HashIdentifier bool
	// PaymentAmount selects payment-limited pricing when non-zero.
	PaymentAmount uint64
}

// NftTransfer builds an NFT transfer for a CEP-47 or CEP-78 contract.
func (b *Builder) NftTransfer(ctx context.Context, in NftTransfer) (*tx.Transaction, error) {
	if err := requireKey("sender", in.Sender); err != nil {
		return nil, err
	}
	if err := requireKey("recipient", in.Recipient); err != nil {
		return nil, err
	}
	if in.Contract.IsZero() {
		return nil, invalid("missing NFT contract")
	}
	if in.TokenID == "" {
		return nil, invalid("missing token id")
	}

	recipient := tx.AccountKey(crypto.AccountHashFromPublicKey(in.Recipient))
	switch in.Standard {
	case CEP47:
		id, ok := new(big.Int).SetString(in.TokenID, 10)
		if !ok || id.Sign() < 0 {
			return nil, invalid("CEP-47 token id %q is not an unsigned integer", in.TokenID)
		}
		tokenID, err := tx.U256(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidIntent, err)
		}
		ids, err := tx.List(tx.Simple(tx.CLTypeU256), []tx.CLValue{tokenID})
		tb, _ := b.header(ctx, in.Sender, in.PaymentAmount)
		return b.nftBody(tb, in.Contract).
			AddArg("recipient", recipient).
			AddArgErr("token_ids", ids, err).
			Build()

	case CEP78:
		tb, _ := b.header(ctx, in.Sender, in.PaymentAmount)
		tb = b.nftBody(tb, in.Contract).
			AddArg("target_key", recipient).
			AddArg("source_key", tx.AccountKey(crypto.AccountHashFromPublicKey(in.Sender))).
			AddArg("is_hash_identifier_mode", tx.Bool(in.HashIdentifier))
		if in.HashIdentifier {
			return tb.AddArg("token_hash", tx.String(in.TokenID)).Build()
		}
		id, ok := new(big.Int).SetString(in.TokenID, 10)
		if !ok || id.Sign() < 0 || !id.IsUint64() {
			return nil, invalid("CEP-78 token id %q is not a u64", in.TokenID)
		}
		return tb.AddArg("token_id", tx.U64(id.Uint64())).Build()

	default:
		return nil, invalid("unknown NFT standard %d", in.Standard)
	}
}

func (b *Builder) nftBody(tb *tx.Builder, contract types.Hash) *tx.Builder {
	return tb.
		SetTarget(tx.StoredByHash(contract)).
		SetEntryPoint(tx.CustomEntryPoint("transfer")).
		SetCategory(tx.CategoryLarge)
}

// DelegationAction selects the auction entry point.
type DelegationAction int

const (
	Delegate DelegationAction = iota
	Undelegate
	Redelegate
)

var delegationEntryPoints = map[DelegationAction]tx.EntryPointKind{
	Delegate:   tx.EntryPointDelegate,
	Undelegate: tx.EntryPointUndelegate,
	Redelegate: tx.EntryPointRedelegate,
}

// String returns the entry point name of the action.
func (a DelegationAction) String() string {
	switch a {
	case Delegate:
		return "delegate"
	case Undelegate:
		return "undelegate"
	case Redelegate:
		return "redelegate"
	default:
		return fmt.Sprintf("DelegationAction(%d)", int(a))
	}
}

// Delegation stakes, unstakes or moves stake between validators.
type Delegation struct {
	Action    DelegationAction
	Delegator types.PublicKey
	Validator types.PublicKey
	// NewValidator is required for Redelegate and rejected otherwise.
	NewValidator *types.PublicKey
	Amount       *big.Int // motes
	// PaymentAmount selects payment-limited pricing when non-zero.
	PaymentAmount uint64
}

// Delegation builds a delegate, undelegate or redelegate transaction.
func (b *Builder) Delegation(ctx context.Context, in Delegation) (*tx.Transaction, error) {
	ep, ok := delegationEntryPoints[in.Action]
	if !ok {
		return nil, invalid("unknown delegation action %s", in.Action)
	}
	if err := requireKey("delegator", in.Delegator); err != nil {
		return nil, err
	}
	if err := requireKey("validator", in.Validator); err != nil {
		return nil, err
	}
	if err := requirePositive("amount", in.Amount); err != nil {
		return nil, err
	}
	switch {
	case in.Action == Redelegate && in.NewValidator == nil:
		return nil, invalid("redelegate requires a new validator")
	case in.Action == Redelegate:
		if err := requireKey("new validator", *in.NewValidator); err != nil {
			return nil, err
		}
		if in.NewValidator.Equal(in.Validator) {
			return nil, invalid("new validator equals current validator")
		}
	case in.NewValidator != nil:
		return nil, invalid("new validator is only valid for redelegate")
	}

	tb, _ := b.header(ctx, in.Delegator, in.PaymentAmount)
	amount, err := tx.U512(in.Amount)
	tb = tb.
		SetTarget(tx.NativeTarget()).
		SetEntryPoint(tx.SystemEntryPoint(ep)).
		SetCategory(tx.CategoryAuction).
		AddArg("delegator", tx.PublicKeyValue(in.Delegator)).
		AddArg("validator", tx.PublicKeyValue(in.Validator)).
		AddArgErr("amount", amount, err)
	if in.Action == Redelegate {
		tb = tb.AddArg("new_validator", tx.PublicKeyValue(*in.NewValidator))
	}
	return tb.Build()
}
