package keys

import (
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/pkg/errors"
)

const (
	PublicKeyPrefix  = "npub"
	PrivateKeyPrefix = "nsec"
)

// NPub renders a public key as an npub bech32 string.
func (p PublicKey) NPub() (string, error) {
	return encodeBech32(PublicKeyPrefix, p[:])
}

// NSec renders a secret key as an nsec bech32 string.
func (k PrivateKey) NSec() (string, error) {
	return encodeBech32(PrivateKeyPrefix, k[:])
}

// ParseNPub decodes an npub string and validates the key with b.
func ParseNPub(b Backend, s string) (PublicKey, error) {
	raw, err := decodeBech32(PublicKeyPrefix, s)
	if err != nil {
		return PublicKey{}, errors.Wrap(ErrInvalidPublicKey, err.Error())
	}
	return b.ParsePublicKey(raw)
}

func ParseNSec(b Backend, s string) (PrivateKey, error) {
	raw, err := decodeBech32(PrivateKeyPrefix, s)
	if err != nil {
		return PrivateKey{}, errors.Wrap(ErrInvalidPrivateKey, err.Error())
	}
	return b.ParsePrivateKey(raw)
}

func encodeBech32(prefix string, data []byte) (string, error) {
	bits5, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(prefix, bits5)
}

func decodeBech32(prefix, s string) ([]byte, error) {
	hrp, bits5, err := bech32.Decode(s)
	if err != nil {
		return nil, err
	}
	if hrp != prefix {
		return nil, errors.Errorf("expected prefix %s, found %s", prefix, hrp)
	}
	return bech32.ConvertBits(bits5, 5, 8, false)
}
