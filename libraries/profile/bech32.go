package profile

import (
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/pkg/errors"
)

// Prefix is the human readable part of profile strings.
const Prefix = "nprofile"

// Encode renders p as an nprofile bech32 string.
func (c Codec) Encode(p Profile) (string, error) {
	tlv, err := c.EncodeTLV(p)
	if err != nil {
		return "", err
	}
	bits5, err := bech32.ConvertBits(tlv, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(err, "regrouping tlv")
	}
	return bech32.Encode(Prefix, bits5)
}

// Decode reads an nprofile bech32 string. Profiles routinely exceed the 90 character BIP-173
// limit, so no length limit is applied.
func (c Codec) Decode(s string) (Profile, error) {
	hrp, bits5, err := bech32.DecodeNoLimit(s)
	if err != nil {
		return Profile{}, &EnvelopeChecksumError{Err: err}
	}
	if hrp != Prefix {
		return Profile{}, &EnvelopeMismatchError{Expected: Prefix, Actual: hrp}
	}
	tlv, err := bech32.ConvertBits(bits5, 5, 8, false)
	if err != nil {
		return Profile{}, &EnvelopeChecksumError{Err: err}
	}
	return c.DecodeTLV(tlv)
}
