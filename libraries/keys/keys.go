// Package keys is the key capability used by the delegation and profile codecs: parsing and
// rendering of x-only public keys and secret keys, and signing/verification of messages.
//
// The codecs only see the Backend interface, so they can be exercised with any signing scheme.
package keys

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

const (
	PublicKeySize  = 32
	PrivateKeySize = 32
	SignatureSize  = 64
)

var (
	ErrInvalidPublicKey  = errors.New("invalid public key")
	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrInvalidSignature  = errors.New("invalid signature encoding")
	// ErrSignature is the root of every signing or verification failure.
	ErrSignature = errors.New("signature error")
)

// PublicKey is a 32 byte x-only public key.
type PublicKey [PublicKeySize]byte

// Hex renders the key as 64 lowercase hex characters.
func (p PublicKey) Hex() string {
	return hex.EncodeToString(p[:])
}

func (p PublicKey) String() string {
	return p.Hex()
}

// Bytes returns a copy of the raw key.
func (p PublicKey) Bytes() []byte {
	b := make([]byte, PublicKeySize)
	copy(b, p[:])
	return b
}

// MarshalJSON encodes the key as a hex string.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Hex())
}

// UnmarshalJSON validates the key with Default.
func (p *PublicKey) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	pk, err := ParsePublicKeyHex(Default, s)
	if err != nil {
		return err
	}
	*p = pk
	return nil
}

// PrivateKey is a 32 byte secret scalar. It never prints its contents.
type PrivateKey [PrivateKeySize]byte

func (k PrivateKey) Hex() string {
	return hex.EncodeToString(k[:])
}

func (k PrivateKey) String() string {
	return "PrivateKey(redacted)"
}

// Signature is a 64 byte BIP-340 signature.
type Signature [SignatureSize]byte

func (s Signature) Hex() string {
	return hex.EncodeToString(s[:])
}

func (s Signature) String() string {
	return s.Hex()
}

func (s Signature) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Hex())
}

func (s *Signature) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	sig, err := ParseSignatureHex(str)
	if err != nil {
		return err
	}
	*s = sig
	return nil
}

// SignatureError reports a failed Sign or Verify call.
type SignatureError struct {
	Op  string
	Err error
}

func (e *SignatureError) Error() string {
	return "signature error: " + e.Op + ": " + e.Err.Error()
}

func (e *SignatureError) Unwrap() error {
	return e.Err
}

func (e *SignatureError) Is(target error) bool {
	return target == ErrSignature
}

// Backend is the set of key operations the codecs depend on.
type Backend interface {
	ParsePublicKey(b []byte) (PublicKey, error)
	ParsePrivateKey(b []byte) (PrivateKey, error)
	PublicKeyOf(sk PrivateKey) (PublicKey, error)
	Sign(sk PrivateKey, message []byte) (Signature, error)
	Verify(pk PublicKey, message []byte, sig Signature) error
}

// ParsePublicKeyHex decodes 64 hex characters (either case) and validates the key with b.
func ParsePublicKeyHex(b Backend, s string) (PublicKey, error) {
	raw, err := decodeFixedHex(s, PublicKeySize)
	if err != nil {
		return PublicKey{}, errors.Wrap(ErrInvalidPublicKey, err.Error())
	}
	return b.ParsePublicKey(raw)
}

func ParsePrivateKeyHex(b Backend, s string) (PrivateKey, error) {
	raw, err := decodeFixedHex(s, PrivateKeySize)
	if err != nil {
		return PrivateKey{}, errors.Wrap(ErrInvalidPrivateKey, "malformed hex")
	}
	return b.ParsePrivateKey(raw)
}

// ParseSignatureHex decodes 128 hex characters. Whether the signature is valid is only known
// after Verify.
func ParseSignatureHex(s string) (sig Signature, err error) {
	raw, err := decodeFixedHex(s, SignatureSize)
	if err != nil {
		return sig, errors.Wrap(ErrInvalidSignature, err.Error())
	}
	copy(sig[:], raw)
	return sig, nil
}

func decodeFixedHex(s string, size int) ([]byte, error) {
	if len(s) != size*2 {
		return nil, errors.Errorf("expected %d hex characters, got %d", size*2, len(s))
	}
	return hex.DecodeString(strings.ToLower(s))
}
