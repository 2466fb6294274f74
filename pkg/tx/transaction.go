// Package tx defines version-1 transactions, their canonical encoding and
// validation.
package tx

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Klingon-tech/cspr-wallet-core/pkg/crypto"
	"github.com/Klingon-tech/cspr-wallet-core/pkg/types"
)

// Category selects the lane a transaction is processed in.
type Category uint8

const (
	CategoryMint           Category = 0
	CategoryAuction        Category = 1
	CategoryInstallUpgrade Category = 2
	CategoryLarge          Category = 3
	CategoryMedium         Category = 4
	CategorySmall          Category = 5
)

// PricingKind selects how a transaction pays for execution.
type PricingKind uint8

const (
	PricingPaymentLimited PricingKind = 0
	PricingFixed          PricingKind = 1
)

// PricingMode is the fee mode of a transaction.
type PricingMode struct {
	Kind                        PricingKind
	PaymentAmount               uint64 // PaymentLimited only, motes
	StandardPayment             bool   // PaymentLimited only
	AdditionalComputationFactor uint8  // Fixed only
	GasPriceTolerance           uint8
}

// FixedPricing returns a Fixed pricing mode.
func FixedPricing(gasPriceTolerance uint8) PricingMode {
	return PricingMode{Kind: PricingFixed, GasPriceTolerance: gasPriceTolerance}
}

// PaymentLimitedPricing returns a PaymentLimited pricing mode with standard payment.
func PaymentLimitedPricing(paymentAmount uint64, gasPriceTolerance uint8) PricingMode {
	return PricingMode{
		Kind:              PricingPaymentLimited,
		PaymentAmount:     paymentAmount,
		StandardPayment:   true,
		GasPriceTolerance: gasPriceTolerance,
	}
}

func (p PricingMode) appendBytes(buf []byte) []byte {
	buf = append(buf, byte(p.Kind))
	switch p.Kind {
	case PricingPaymentLimited:
		buf = binary.LittleEndian.AppendUint64(buf, p.PaymentAmount)
		buf = append(buf, p.GasPriceTolerance)
		buf = appendBool(buf, p.StandardPayment)
	case PricingFixed:
		buf = append(buf, p.AdditionalComputationFactor, p.GasPriceTolerance)
	}
	return buf
}

// MarshalJSON encodes the mode as {"Fixed": {...}} or {"PaymentLimited": {...}}.
func (p PricingMode) MarshalJSON() ([]byte, error) {
	if p.Kind == PricingPaymentLimited {
		return json.Marshal(map[string]interface{}{
			"PaymentLimited": map[string]interface{}{
				"payment_amount":      p.PaymentAmount,
				"gas_price_tolerance": p.GasPriceTolerance,
				"standard_payment":    p.StandardPayment,
			},
		})
	}
	return json.Marshal(map[string]interface{}{
		"Fixed": map[string]interface{}{
			"additional_computation_factor": p.AdditionalComputationFactor,
			"gas_price_tolerance":           p.GasPriceTolerance,
		},
	})
}

// TargetKind distinguishes native (system) calls from stored contract calls.
type TargetKind uint8

const (
	TargetNative TargetKind = 0
	TargetStored TargetKind = 1
)

// InvocationKind selects how a stored contract is addressed.
type InvocationKind uint8

const (
	InvocationByHash        InvocationKind = 0
	InvocationByName        InvocationKind = 1
	InvocationByPackageHash InvocationKind = 2
	InvocationByPackageName InvocationKind = 3
)

// Target is the thing a transaction invokes.
type Target struct {
	Kind       TargetKind
	Invocation InvocationKind
	Hash       types.Hash // ByHash, ByPackageHash
	Name       string     // ByName, ByPackageName
	Version    *uint32    // ByPackageHash, ByPackageName
}

// NativeTarget targets a system entry point (mint, auction).
func NativeTarget() Target {
	return Target{Kind: TargetNative}
}

// StoredByHash targets a stored contract by its contract hash.
func StoredByHash(h types.Hash) Target {
	return Target{Kind: TargetStored, Invocation: InvocationByHash, Hash: h}
}

// StoredByName targets a stored contract through a named key of the initiator.
func StoredByName(name string) Target {
	return Target{Kind: TargetStored, Invocation: InvocationByName, Name: name}
}

// StoredByPackageHash targets a contract package, optionally pinned to a version.
func StoredByPackageHash(h types.Hash, version *uint32) Target {
	return Target{Kind: TargetStored, Invocation: InvocationByPackageHash, Hash: h, Version: version}
}

func (t Target) appendBytes(buf []byte) []byte {
	buf = append(buf, byte(t.Kind))
	if t.Kind == TargetNative {
		return buf
	}
	buf = append(buf, byte(t.Invocation))
	switch t.Invocation {
	case InvocationByHash:
		buf = append(buf, t.Hash[:]...)
	case InvocationByName:
		buf = appendString(buf, t.Name)
	case InvocationByPackageHash, InvocationByPackageName:
		if t.Invocation == InvocationByPackageHash {
			buf = append(buf, t.Hash[:]...)
		} else {
			buf = appendString(buf, t.Name)
		}
		if t.Version == nil {
			buf = append(buf, 0)
		} else {
			buf = append(buf, 1)
			buf = binary.LittleEndian.AppendUint32(buf, *t.Version)
		}
	}
	// Runtime: casper v1 vm.
	return append(buf, 0)
}

// MarshalJSON encodes the target the way node JSON does.
func (t Target) MarshalJSON() ([]byte, error) {
	if t.Kind == TargetNative {
		return json.Marshal("Native")
	}
	var id interface{}
	switch t.Invocation {
	case InvocationByHash:
		id = map[string]string{"ByHash": t.Hash.String()}
	case InvocationByName:
		id = map[string]string{"ByName": t.Name}
	case InvocationByPackageHash:
		id = map[string]interface{}{"ByPackageHash": map[string]interface{}{"addr": t.Hash.String(), "version": t.Version}}
	case InvocationByPackageName:
		id = map[string]interface{}{"ByPackageName": map[string]interface{}{"name": t.Name, "version": t.Version}}
	}
	return json.Marshal(map[string]interface{}{
		"Stored": map[string]interface{}{"id": id, "runtime": "VmCasperV1"},
	})
}

// EntryPointKind tags the invoked entry point.
type EntryPointKind uint8

const (
	EntryPointCall        EntryPointKind = 0
	EntryPointCustom      EntryPointKind = 1
	EntryPointTransfer    EntryPointKind = 2
	EntryPointBurn        EntryPointKind = 3
	EntryPointAddBid      EntryPointKind = 4
	EntryPointWithdrawBid EntryPointKind = 5
	EntryPointDelegate    EntryPointKind = 6
	EntryPointUndelegate  EntryPointKind = 7
	EntryPointRedelegate  EntryPointKind = 8
)

var entryPointNames = map[EntryPointKind]string{
	EntryPointCall:        "Call",
	EntryPointTransfer:    "Transfer",
	EntryPointBurn:        "Burn",
	EntryPointAddBid:      "AddBid",
	EntryPointWithdrawBid: "WithdrawBid",
	EntryPointDelegate:    "Delegate",
	EntryPointUndelegate:  "Undelegate",
	EntryPointRedelegate:  "Redelegate",
}

// EntryPoint is a system entry point or a named custom one.
type EntryPoint struct {
	Kind EntryPointKind
	Name string // Custom only
}

// CustomEntryPoint returns a named contract entry point.
func CustomEntryPoint(name string) EntryPoint {
	return EntryPoint{Kind: EntryPointCustom, Name: name}
}

// SystemEntryPoint returns a built-in entry point.
func SystemEntryPoint(kind EntryPointKind) EntryPoint {
	return EntryPoint{Kind: kind}
}

// String returns the entry point name.
func (e EntryPoint) String() string {
	if e.Kind == EntryPointCustom {
		return e.Name
	}
	return entryPointNames[e.Kind]
}

func (e EntryPoint) appendBytes(buf []byte) []byte {
	buf = append(buf, byte(e.Kind))
	if e.Kind == EntryPointCustom {
		buf = appendString(buf, e.Name)
	}
	return buf
}

// MarshalJSON encodes "Transfer" or {"Custom": "name"}.
func (e EntryPoint) MarshalJSON() ([]byte, error) {
	if e.Kind == EntryPointCustom {
		return json.Marshal(map[string]string{"Custom": e.Name})
	}
	return json.Marshal(e.String())
}

// Header carries everything about a transaction except its payload.
type Header struct {
	ChainName   string
	Timestamp   time.Time
	TTL         time.Duration
	BodyHash    types.Hash
	PricingMode PricingMode
	Initiator   types.PublicKey
}

// Body is the payload of a transaction.
type Body struct {
	Args       RuntimeArgs
	Target     Target
	EntryPoint EntryPoint
	Category   Category
}

// Approval is one (signer, signature) pair. Signature carries the
// algorithm tag byte followed by the 64-byte raw signature.
type Approval struct {
	Signer    types.PublicKey
	Signature []byte
}

// Transaction is a version-1 transaction. It is treated as immutable:
// signing returns a new value sharing the same header, body and hash.
type Transaction struct {
	Hash      types.Hash
	Header    Header
	Body      Body
	Approvals []Approval
}

// Bytes returns the canonical body encoding:
// args | target | entry_point | scheduling(1) | category(1).
func (b *Body) Bytes() []byte {
	buf := b.Args.Bytes()
	buf = b.Target.appendBytes(buf)
	buf = b.EntryPoint.appendBytes(buf)
	buf = append(buf, 0) // Standard scheduling.
	return append(buf, byte(b.Category))
}

// Hash returns the BLAKE2b-256 digest of the body encoding.
func (b *Body) Hash() types.Hash {
	return crypto.Hash(b.Bytes())
}

// Bytes returns the canonical header encoding:
// chain_name | timestamp_ms(8) | ttl_ms(8) | body_hash(32) | pricing_mode | initiator.
func (h *Header) Bytes() []byte {
	buf := appendString(nil, h.ChainName)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(h.Timestamp.UnixMilli()))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(h.TTL.Milliseconds()))
	buf = append(buf, h.BodyHash[:]...)
	buf = h.PricingMode.appendBytes(buf)
	buf = append(buf, 0) // Initiator by public key.
	return append(buf, h.Initiator.Bytes()...)
}

// Hash returns the transaction hash: BLAKE2b-256 of the header encoding.
func (h *Header) Hash() types.Hash {
	return crypto.Hash(h.Bytes())
}

// SigningBytes returns the bytes signed by approvers (the transaction hash).
func (tx *Transaction) SigningBytes() []byte {
	return tx.Hash.Bytes()
}

// WithApproval returns a copy of tx with a appended. tx is not modified.
func (tx *Transaction) WithApproval(a Approval) *Transaction {
	out := *tx
	out.Approvals = make([]Approval, 0, len(tx.Approvals)+1)
	out.Approvals = append(out.Approvals, tx.Approvals...)
	out.Approvals = append(out.Approvals, a)
	return &out
}

// Sign returns a copy of tx approved by signer.
func (tx *Transaction) Sign(signer crypto.Signer) (*Transaction, error) {
	pub := signer.PublicKey()
	for _, a := range tx.Approvals {
		if a.Signer.Equal(pub) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateApproval, pub)
		}
	}
	sig, err := signer.Sign(tx.SigningBytes())
	if err != nil {
		return nil, fmt.Errorf("sign tx: %w", err)
	}
	if len(sig) == 0 {
		return nil, crypto.ErrEmptySignature
	}
	tagged := append([]byte{byte(pub.Algorithm)}, sig...)
	return tx.WithApproval(Approval{Signer: pub, Signature: tagged}), nil
}

// IsSigned reports whether tx carries at least one approval.
func (tx *Transaction) IsSigned() bool {
	return len(tx.Approvals) > 0
}

// FormatTTL renders a TTL the way node JSON does ("30m", "2h", "1500ms").
func FormatTTL(d time.Duration) string {
	switch {
	case d > 0 && d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d > 0 && d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	case d > 0 && d%time.Second == 0:
		return fmt.Sprintf("%ds", d/time.Second)
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

type headerJSON struct {
	ChainName     string            `json:"chain_name"`
	Timestamp     string            `json:"timestamp"`
	TTL           string            `json:"ttl"`
	BodyHash      types.Hash        `json:"body_hash"`
	PricingMode   PricingMode       `json:"pricing_mode"`
	InitiatorAddr map[string]string `json:"initiator_addr"`
}

type bodyJSON struct {
	Args       RuntimeArgs `json:"args"`
	Target     Target      `json:"target"`
	EntryPoint EntryPoint  `json:"entry_point"`
	Scheduling string      `json:"scheduling"`
	Category   Category    `json:"transaction_category"`
}

type approvalJSON struct {
	Signer    types.PublicKey `json:"signer"`
	Signature string          `json:"signature"`
}

type transactionJSON struct {
	Hash      types.Hash     `json:"hash"`
	Header    headerJSON     `json:"header"`
	Body      bodyJSON       `json:"body"`
	Approvals []approvalJSON `json:"approvals"`
}

// MarshalJSON encodes the transaction as {"Version1": {...}}.
func (tx *Transaction) MarshalJSON() ([]byte, error) {
	j := transactionJSON{
		Hash: tx.Hash,
		Header: headerJSON{
			ChainName:     tx.Header.ChainName,
			Timestamp:     tx.Header.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z"),
			TTL:           FormatTTL(tx.Header.TTL),
			BodyHash:      tx.Header.BodyHash,
			PricingMode:   tx.Header.PricingMode,
			InitiatorAddr: map[string]string{"PublicKey": tx.Header.Initiator.String()},
		},
		Body: bodyJSON{
			Args:       tx.Body.Args,
			Target:     tx.Body.Target,
			EntryPoint: tx.Body.EntryPoint,
			Scheduling: "Standard",
			Category:   tx.Body.Category,
		},
		Approvals: make([]approvalJSON, len(tx.Approvals)),
	}
	if j.Body.Args == nil {
		j.Body.Args = RuntimeArgs{}
	}
	for i, a := range tx.Approvals {
		j.Approvals[i] = approvalJSON{Signer: a.Signer, Signature: hex.EncodeToString(a.Signature)}
	}
	return json.Marshal(map[string]transactionJSON{"Version1": j})
}
