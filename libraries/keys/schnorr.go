package keys

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/pkg/errors"
	"nostrtrust/engine/library"
)

// Schnorr is the secp256k1 BIP-340 backend nostr uses. Messages are hashed with SHA-256 before
// signing and verification.
type Schnorr struct{}

// Default is the backend used by the package level helpers of the codecs.
var Default Backend = Schnorr{}

func (Schnorr) ParsePublicKey(b []byte) (pk PublicKey, err error) {
	if len(b) != PublicKeySize {
		return pk, errors.Wrapf(ErrInvalidPublicKey, "expected %d bytes, got %d", PublicKeySize, len(b))
	}
	if _, err = schnorr.ParsePubKey(b); err != nil {
		return pk, errors.Wrap(ErrInvalidPublicKey, err.Error())
	}
	copy(pk[:], b)
	return pk, nil
}

func (Schnorr) ParsePrivateKey(b []byte) (sk PrivateKey, err error) {
	if len(b) != PrivateKeySize {
		return sk, errors.Wrapf(ErrInvalidPrivateKey, "expected %d bytes, got %d", PrivateKeySize, len(b))
	}
	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(b); overflow || scalar.IsZero() {
		return sk, errors.Wrap(ErrInvalidPrivateKey, "scalar out of range")
	}
	copy(sk[:], b)
	return sk, nil
}

func (s Schnorr) PublicKeyOf(sk PrivateKey) (pk PublicKey, err error) {
	if _, err = s.ParsePrivateKey(sk[:]); err != nil {
		return pk, err
	}
	_, pub := btcec.PrivKeyFromBytes(sk[:])
	copy(pk[:], schnorr.SerializePubKey(pub))
	return pk, nil
}

func (s Schnorr) Sign(sk PrivateKey, message []byte) (sig Signature, err error) {
	if _, err = s.ParsePrivateKey(sk[:]); err != nil {
		return sig, &SignatureError{Op: "sign", Err: err}
	}
	priv, _ := btcec.PrivKeyFromBytes(sk[:])
	signature, err := schnorr.Sign(priv, library.Sha256Digest(message))
	if err != nil {
		return sig, &SignatureError{Op: "sign", Err: err}
	}
	copy(sig[:], signature.Serialize())
	return sig, nil
}

func (Schnorr) Verify(pk PublicKey, message []byte, sig Signature) error {
	pub, err := schnorr.ParsePubKey(pk[:])
	if err != nil {
		return &SignatureError{Op: "verify", Err: errors.Wrap(ErrInvalidPublicKey, err.Error())}
	}
	signature, err := schnorr.ParseSignature(sig[:])
	if err != nil {
		return &SignatureError{Op: "verify", Err: errors.Wrap(ErrInvalidSignature, err.Error())}
	}
	if !signature.Verify(library.Sha256Digest(message), pub) {
		return &SignatureError{Op: "verify", Err: errors.New("signature does not match public key and message")}
	}
	return nil
}
