package crypto

import (
	"crypto/ed25519"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/Klingon-tech/cspr-wallet-core/pkg/types"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// MessageHeader is prepended to every signed message so message signatures
// can never be replayed as transaction approvals.
const MessageHeader = "Casper Message:\n"

// Signature sizes (without the algorithm tag).
const (
	SecretKeySize = 32
	SignatureSize = 64
)

// Signing errors.
var (
	ErrUnknownSignatureType = errors.New("unknown signature type")
	ErrEmptySignature       = errors.New("empty signature")
	ErrKeyMismatch          = errors.New("secret key does not match public key")
)

// Signer signs payloads on behalf of a Casper account.
type Signer interface {
	// Sign produces a raw 64-byte signature over data.
	Sign(data []byte) ([]byte, error)
	// PublicKey returns the tagged public key of the signer.
	PublicKey() types.PublicKey
}

// PrivateKey holds either an ed25519 or a secp256k1 secret key.
type PrivateKey struct {
	pub  types.PublicKey
	ed   ed25519.PrivateKey
	secp *secp256k1.PrivateKey
}

// NewPrivateKey builds a private key for algo from its secret bytes.
// ed25519 accepts a 32-byte seed or a 64-byte expanded key; secp256k1
// accepts a 32-byte scalar.
func NewPrivateKey(algo types.Algorithm, secret []byte) (*PrivateKey, error) {
	switch algo {
	case types.AlgorithmEd25519:
		var priv ed25519.PrivateKey
		switch len(secret) {
		case ed25519.SeedSize:
			priv = ed25519.NewKeyFromSeed(secret)
		case ed25519.PrivateKeySize:
			priv = make(ed25519.PrivateKey, ed25519.PrivateKeySize)
			copy(priv, secret)
		default:
			return nil, fmt.Errorf("%w: ed25519 secret must be %d or %d bytes, got %d",
				types.ErrInvalidKeyFormat, ed25519.SeedSize, ed25519.PrivateKeySize, len(secret))
		}
		pub, err := types.NewPublicKey(algo, priv.Public().(ed25519.PublicKey))
		if err != nil {
			return nil, err
		}
		return &PrivateKey{pub: pub, ed: priv}, nil

	case types.AlgorithmSecp256k1:
		if len(secret) != SecretKeySize {
			return nil, fmt.Errorf("%w: secp256k1 secret must be %d bytes, got %d",
				types.ErrInvalidKeyFormat, SecretKeySize, len(secret))
		}
		key := secp256k1.PrivKeyFromBytes(secret)
		pub, err := types.NewPublicKey(algo, key.PubKey().SerializeCompressed())
		if err != nil {
			return nil, err
		}
		return &PrivateKey{pub: pub, secp: key}, nil

	default:
		return nil, fmt.Errorf("%w: tag %#02x", ErrUnknownSignatureType, byte(algo))
	}
}

// PrivateKeyFor builds the private key for publicKeyHex and checks that
// secret actually belongs to it.
func PrivateKeyFor(publicKeyHex string, secret []byte) (*PrivateKey, error) {
	algo, ok := types.AlgorithmFromHex(publicKeyHex)
	if !ok {
		return nil, fmt.Errorf("%w: public key %q", ErrUnknownSignatureType, prefixOf(publicKeyHex))
	}
	want, err := types.ParsePublicKey(publicKeyHex)
	if err != nil {
		return nil, err
	}
	key, err := NewPrivateKey(algo, secret)
	if err != nil {
		return nil, err
	}
	if !key.pub.Equal(want) {
		key.Zero()
		return nil, ErrKeyMismatch
	}
	return key, nil
}

// Sign signs data. ed25519 signs the data directly; secp256k1 signs its
// SHA-256 digest and returns the compact r||s form.
func (pk *PrivateKey) Sign(data []byte) ([]byte, error) {
	var sig []byte
	switch {
	case pk.ed != nil:
		sig = ed25519.Sign(pk.ed, data)
	case pk.secp != nil:
		digest := sha256.Sum256(data)
		compact := ecdsa.SignCompact(pk.secp, digest[:], true)
		if len(compact) == SignatureSize+1 {
			// Drop the recovery byte.
			sig = compact[1:]
		}
	default:
		return nil, fmt.Errorf("%w: key not initialized", ErrUnknownSignatureType)
	}
	if len(sig) == 0 {
		return nil, ErrEmptySignature
	}
	return sig, nil
}

// PublicKey returns the tagged public key.
func (pk *PrivateKey) PublicKey() types.PublicKey {
	return pk.pub
}

// Algorithm returns the key's signature scheme.
func (pk *PrivateKey) Algorithm() types.Algorithm {
	return pk.pub.Algorithm
}

// Zero securely zeroes the private key memory.
func (pk *PrivateKey) Zero() {
	if pk.secp != nil {
		pk.secp.Zero()
	}
	for i := range pk.ed {
		pk.ed[i] = 0
	}
}

// Sign signs payload with secretKey, choosing the scheme from the
// two-hex-digit tag of publicKeyHex (01 ed25519, 02 secp256k1).
func Sign(payload []byte, publicKeyHex string, secretKey []byte) ([]byte, error) {
	key, err := PrivateKeyFor(publicKeyHex, secretKey)
	if err != nil {
		return nil, err
	}
	defer key.Zero()
	return key.Sign(payload)
}

// SignMessage signs MessageHeader followed by the UTF-8 message bytes.
func SignMessage(message, publicKeyHex string, secretKey []byte) ([]byte, error) {
	return Sign(messageBytes(message), publicKeyHex, secretKey)
}

// Verify checks a raw signature produced by Sign. Returns false on any error.
func Verify(payload, signature []byte, publicKeyHex string) bool {
	pk, err := types.ParsePublicKey(publicKeyHex)
	if err != nil {
		return false
	}
	return VerifyWithKey(payload, signature, pk)
}

// VerifyMessage checks a signature produced by SignMessage.
func VerifyMessage(message string, signature []byte, publicKeyHex string) bool {
	return Verify(messageBytes(message), signature, publicKeyHex)
}

// VerifyWithKey checks a raw signature against a parsed public key.
func VerifyWithKey(payload, signature []byte, pk types.PublicKey) bool {
	if len(signature) != SignatureSize {
		return false
	}
	switch pk.Algorithm {
	case types.AlgorithmEd25519:
		return ed25519.Verify(ed25519.PublicKey(pk.Raw), payload, signature)
	case types.AlgorithmSecp256k1:
		pubKey, err := secp256k1.ParsePubKey(pk.Raw)
		if err != nil {
			return false
		}
		var r, s secp256k1.ModNScalar
		if overflow := r.SetByteSlice(signature[:32]); overflow {
			return false
		}
		if overflow := s.SetByteSlice(signature[32:]); overflow {
			return false
		}
		digest := sha256.Sum256(payload)
		return ecdsa.NewSignature(&r, &s).Verify(digest[:], pubKey)
	default:
		return false
	}
}

func messageBytes(message string) []byte {
	return append([]byte(MessageHeader), message...)
}

func prefixOf(s string) string {
	if len(s) < 2 {
		return s
	}
	return s[:2]
}
