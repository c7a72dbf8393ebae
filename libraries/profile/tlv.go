package profile

import (
	"unicode/utf8"

	"github.com/pkg/errors"
	"nostrtrust/engine/library"
	"nostrtrust/libraries/keys"
)

const (
	tlvSpecial byte = 0
	tlvRelay   byte = 1

	maxValueLen = 255
	headerLen   = 2
)

// EncodeTLV packs the key as a type 0 record followed by one type 1 record per relay.
func (c Codec) EncodeTLV(p Profile) ([]byte, error) {
	size := headerLen + keys.PublicKeySize
	for i, relay := range p.Relays {
		if len(relay) > maxValueLen {
			return nil, errors.Wrapf(ErrRelayTooLong, "relay %d is %d bytes", i, len(relay))
		}
		if !utf8.ValidString(relay) {
			return nil, errors.Wrapf(ErrInvalidUTF8, "relay %d", i)
		}
		size += headerLen + len(relay)
	}
	tlv := make([]byte, 0, size)
	tlv = append(tlv, tlvSpecial, keys.PublicKeySize)
	tlv = append(tlv, p.PublicKey[:]...)
	for _, relay := range p.Relays {
		tlv = append(tlv, tlvRelay, byte(len(relay)))
		tlv = append(tlv, relay...)
	}
	return tlv, nil
}

// DecodeTLV requires a leading [0, 32, <key>] record followed only by relay records.
func (c Codec) DecodeTLV(tlv []byte) (p Profile, err error) {
	if len(tlv) < headerLen || tlv[0] != tlvSpecial || tlv[1] != keys.PublicKeySize {
		return p, errors.Wrap(ErrInvalidProfile, "first record must be the 32 byte public key")
	}
	pos := headerLen
	if len(tlv) < pos+keys.PublicKeySize {
		return p, errors.Wrap(ErrInvalidProfile, "truncated public key")
	}
	if p.PublicKey, err = c.backend().ParsePublicKey(tlv[pos : pos+keys.PublicKeySize]); err != nil {
		return Profile{}, err
	}
	pos += keys.PublicKeySize

	relays := []library.Relay{}
	for len(tlv)-pos >= headerLen {
		typ, length := tlv[pos], int(tlv[pos+1])
		pos += headerLen
		if typ != tlvRelay {
			return Profile{}, errors.Wrapf(ErrInvalidProfile, "unexpected record type %d", typ)
		}
		if len(tlv)-pos < length {
			return Profile{}, errors.Wrapf(ErrInvalidProfile, "relay record claims %d bytes, %d left", length, len(tlv)-pos)
		}
		value := tlv[pos : pos+length]
		if !utf8.Valid(value) {
			return Profile{}, errors.Wrapf(ErrInvalidUTF8, "relay %d", len(relays))
		}
		relays = append(relays, string(value))
		pos += length
	}
	if pos < len(tlv) && c.RejectTrailing {
		return Profile{}, ErrTrailingData
	}
	p.Relays = relays
	return p, nil
}
