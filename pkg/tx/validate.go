package tx

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/cspr-wallet-core/pkg/crypto"
)

// Validation errors.
var (
	ErrMissingChainName  = errors.New("transaction has no chain name")
	ErrZeroTimestamp     = errors.New("transaction timestamp is zero")
	ErrInvalidTTL        = errors.New("transaction ttl must be positive")
	ErrMissingInitiator  = errors.New("transaction has no initiator")
	ErrMissingEntryPoint = errors.New("custom entry point has no name")
	ErrBodyHashMismatch  = errors.New("body hash mismatch")
	ErrHashMismatch      = errors.New("transaction hash mismatch")
	ErrInvalidApproval   = errors.New("invalid approval")
	ErrDuplicateApproval = errors.New("duplicate approval")
	ErrNativeCategory    = errors.New("native target requires mint or auction category")
)

// Validate checks transaction structure and hashes. Approvals, when
// present, must verify against the transaction hash.
func (tx *Transaction) Validate() error {
	h := &tx.Header
	if h.ChainName == "" {
		return ErrMissingChainName
	}
	if h.Timestamp.IsZero() {
		return ErrZeroTimestamp
	}
	if h.TTL <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTTL, h.TTL)
	}
	if h.Initiator.IsZero() || !h.Initiator.Algorithm.Valid() {
		return ErrMissingInitiator
	}
	if tx.Body.EntryPoint.Kind == EntryPointCustom && tx.Body.EntryPoint.Name == "" {
		return ErrMissingEntryPoint
	}
	if tx.Body.Target.Kind == TargetNative &&
		tx.Body.Category != CategoryMint && tx.Body.Category != CategoryAuction {
		return fmt.Errorf("%w: got %d", ErrNativeCategory, tx.Body.Category)
	}
	if got := tx.Body.Hash(); got != h.BodyHash {
		return fmt.Errorf("%w: header has %s, body hashes to %s", ErrBodyHashMismatch, h.BodyHash, got)
	}
	if got := h.Hash(); got != tx.Hash {
		return fmt.Errorf("%w: have %s, header hashes to %s", ErrHashMismatch, tx.Hash, got)
	}
	return tx.VerifyApprovals()
}

// VerifyApprovals checks every approval signature against the hash.
func (tx *Transaction) VerifyApprovals() error {
	seen := make(map[string]bool, len(tx.Approvals))
	for i, a := range tx.Approvals {
		key := a.Signer.String()
		if seen[key] {
			return fmt.Errorf("approval %d: %w", i, ErrDuplicateApproval)
		}
		seen[key] = true

		if len(a.Signature) != crypto.SignatureSize+1 || a.Signature[0] != byte(a.Signer.Algorithm) {
			return fmt.Errorf("approval %d: %w: malformed signature", i, ErrInvalidApproval)
		}
		if !crypto.VerifyWithKey(tx.SigningBytes(), a.Signature[1:], a.Signer) {
			return fmt.Errorf("approval %d: %w: signature does not verify", i, ErrInvalidApproval)
		}
	}
	return nil
}
