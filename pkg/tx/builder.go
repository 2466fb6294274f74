package tx

import (
	"fmt"
	"time"

	"github.com/Klingon-tech/cspr-wallet-core/pkg/types"
)

// DefaultTTL is the time-to-live applied when none is set.
const DefaultTTL = 30 * time.Minute

// Builder constructs transactions incrementally.
type Builder struct {
	header Header
	body   Body
	err    error
}

// NewBuilder creates a new transaction builder for the given chain.
func NewBuilder(chainName string) *Builder {
	return &Builder{
		header: Header{
			ChainName:   chainName,
			TTL:         DefaultTTL,
			PricingMode: FixedPricing(1),
		},
		body: Body{
			Target:     NativeTarget(),
			EntryPoint: SystemEntryPoint(EntryPointTransfer),
			Category:   CategoryMint,
		},
	}
}

// SetInitiator sets the account paying for and authorizing the transaction.
func (b *Builder) SetInitiator(pk types.PublicKey) *Builder {
	b.header.Initiator = pk
	return b
}

// SetTimestamp sets the creation time. Precision is truncated to milliseconds.
func (b *Builder) SetTimestamp(t time.Time) *Builder {
	b.header.Timestamp = t.Truncate(time.Millisecond)
	return b
}

// SetTTL sets the time-to-live.
func (b *Builder) SetTTL(ttl time.Duration) *Builder {
	b.header.TTL = ttl
	return b
}

// SetPricingMode sets the fee mode.
func (b *Builder) SetPricingMode(pm PricingMode) *Builder {
	b.header.PricingMode = pm
	return b
}

// SetTarget sets the invocation target.
func (b *Builder) SetTarget(t Target) *Builder {
	b.body.Target = t
	return b
}

// SetEntryPoint sets the entry point.
func (b *Builder) SetEntryPoint(e EntryPoint) *Builder {
	b.body.EntryPoint = e
	return b
}

// SetCategory sets the transaction lane.
func (b *Builder) SetCategory(c Category) *Builder {
	b.body.Category = c
	return b
}

// AddArg appends a runtime argument.
func (b *Builder) AddArg(name string, v CLValue) *Builder {
	b.body.Args = b.body.Args.Insert(name, v)
	return b
}

// AddArgErr appends a runtime argument produced by a fallible constructor.
// The first error is reported by Build.
func (b *Builder) AddArgErr(name string, v CLValue, err error) *Builder {
	if err != nil {
		if b.err == nil {
			b.err = fmt.Errorf("arg %q: %w", name, err)
		}
		return b
	}
	return b.AddArg(name, v)
}

// Build hashes the body and header and returns the unsigned transaction.
func (b *Builder) Build() (*Transaction, error) {
	if b.err != nil {
		return nil, b.err
	}
	body := b.body
	body.Args = append(RuntimeArgs(nil), b.body.Args...)

	header := b.header
	header.BodyHash = body.Hash()

	tx := &Transaction{
		Hash:   header.Hash(),
		Header: header,
		Body:   body,
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	return tx, nil
}
