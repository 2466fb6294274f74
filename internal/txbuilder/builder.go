// Package txbuilder turns wallet intents (transfers, NFT moves, delegation)
// into unsigned version-1 transactions.
package txbuilder

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Klingon-tech/cspr-wallet-core/internal/log"
	"github.com/Klingon-tech/cspr-wallet-core/pkg/tx"
	"github.com/Klingon-tech/cspr-wallet-core/pkg/types"
	"github.com/rs/zerolog"
)

// ErrInvalidIntent is returned when an intent is missing or has malformed
// parameters.
var ErrInvalidIntent = errors.New("invalid transaction intent")

// TimestampSkew is subtracted from the local clock when the node cannot
// supply a timestamp.
const TimestampSkew = 2 * time.Second

// DefaultGasPriceTolerance is the gas price multiplier accepted by default.
const DefaultGasPriceTolerance = 1

// NodeStatus reports the node's last block-progress time. A nil time means
// the node has not reported one.
type NodeStatus interface {
	LastProgress(ctx context.Context) (*time.Time, error)
}

// Config holds the header settings shared by every transaction.
type Config struct {
	ChainName         string
	TTL               time.Duration
	GasPriceTolerance uint8
}

// DefaultConfig returns the header settings for a network.
func DefaultConfig(network types.Network) Config {
	return Config{
		ChainName:         network.ChainName(),
		TTL:               tx.DefaultTTL,
		GasPriceTolerance: DefaultGasPriceTolerance,
	}
}

// Builder builds transactions for one chain.
type Builder struct {
	cfg    Config
	status NodeStatus
	now    func() time.Time
	logger zerolog.Logger
}

// New creates a builder. status may be nil, in which case every timestamp
// comes from the local clock.
func New(cfg Config, status NodeStatus) *Builder {
	if cfg.TTL <= 0 {
		cfg.TTL = tx.DefaultTTL
	}
	if cfg.GasPriceTolerance == 0 {
		cfg.GasPriceTolerance = DefaultGasPriceTolerance
	}
	return &Builder{
		cfg:    cfg,
		status: status,
		now:    time.Now,
		logger: log.TxBuilder.With().Str("chain", cfg.ChainName).Logger(),
	}
}

// Config returns the builder's header settings.
func (b *Builder) Config() Config {
	return b.cfg
}

// Timestamp returns the node's last progress time, or the local clock minus
// TimestampSkew when the node query fails or reports nothing. Failures are
// logged and never returned.
func (b *Builder) Timestamp(ctx context.Context) time.Time {
	fallback := func(reason string, err error) time.Time {
		b.logger.Debug().Err(err).Str("reason", reason).Msg("Using local clock for transaction timestamp")
		return b.now().Add(-TimestampSkew)
	}
	if b.status == nil {
		return fallback("no node status", nil)
	}
	t, err := b.status.LastProgress(ctx)
	if err != nil {
		return fallback("node status query failed", err)
	}
	if t == nil || t.IsZero() {
		return fallback("node reported no progress", nil)
	}
	return *t
}

// header starts a transaction with the shared header fields.
func (b *Builder) header(ctx context.Context, initiator types.PublicKey, paymentAmount uint64) (*tx.Builder, time.Time) {
	ts := b.Timestamp(ctx)
	pricing := tx.FixedPricing(b.cfg.GasPriceTolerance)
	if paymentAmount > 0 {
		pricing = tx.PaymentLimitedPricing(paymentAmount, b.cfg.GasPriceTolerance)
	}
	tb := tx.NewBuilder(b.cfg.ChainName).
		SetInitiator(initiator).
		SetTimestamp(ts).
		SetTTL(b.cfg.TTL).
		SetPricingMode(pricing)
	return tb, ts.Truncate(time.Millisecond)
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidIntent, fmt.Sprintf(format, args...))
}

func requireKey(name string, pk types.PublicKey) error {
	if pk.IsZero() || !pk.Algorithm.Valid() {
		return invalid("missing %s", name)
	}
	return nil
}

func requirePositive(name string, n *big.Int) error {
	if n == nil || n.Sign() <= 0 {
		return invalid("%s must be positive", name)
	}
	return nil
}
