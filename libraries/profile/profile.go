// Package profile encodes nostr profile pointers: a public key plus relay hints, packed as TLV
// records and wrapped in an "nprofile" bech32 string.
package profile

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
	"nostrtrust/engine/library"
	"nostrtrust/libraries/keys"
)

var (
	ErrInvalidProfile = errors.New("invalid profile")
	ErrInvalidUTF8    = errors.New("relay hint is not valid UTF-8")
	ErrRelayTooLong   = errors.New("relay hint longer than 255 bytes")
	ErrTrailingData   = errors.New("trailing byte after last TLV record")
)

// EnvelopeMismatchError is returned when a bech32 string has the wrong human readable prefix.
type EnvelopeMismatchError struct {
	Expected string
	Actual   string
}

func (e *EnvelopeMismatchError) Error() string {
	return fmt.Sprintf("wrong bech32 prefix: expected %s, found %s", e.Expected, e.Actual)
}

// EnvelopeChecksumError wraps a failure of the bech32 decoder itself.
type EnvelopeChecksumError struct {
	Err error
}

func (e *EnvelopeChecksumError) Error() string {
	return "bech32 decode: " + e.Err.Error()
}

func (e *EnvelopeChecksumError) Unwrap() error {
	return e.Err
}

// Profile points at an identity: its public key and some relays it publishes to. Relay order
// is kept and duplicates are allowed.
type Profile struct {
	PublicKey keys.PublicKey  `json:"pubkey"`
	Relays    []library.Relay `json:"relays"`
}

// New copies relays so the Profile does not share the caller's slice.
func New(pk keys.PublicKey, relays ...library.Relay) Profile {
	return Profile{PublicKey: pk, Relays: slices.Clone(relays)}
}

// Equal treats a nil and an empty relay list as the same.
func (p Profile) Equal(o Profile) bool {
	return p.PublicKey == o.PublicKey && slices.Equal(p.Relays, o.Relays)
}

// String renders the nprofile form, or the hex key when a relay hint cannot be encoded.
func (p Profile) String() string {
	s, err := Encode(p)
	if err != nil {
		return p.PublicKey.Hex()
	}
	return s
}

// Codec encodes and decodes profiles.
type Codec struct {
	// Backend validates the decoded public key. Nil means keys.Default.
	Backend keys.Backend
	// RejectTrailing makes a single dangling byte after the last record an error instead of
	// being dropped.
	RejectTrailing bool
}

// DefaultCodec tolerates a trailing byte, matching profiles already in circulation.
var DefaultCodec = Codec{}

func (c Codec) backend() keys.Backend {
	if c.Backend == nil {
		return keys.Default
	}
	return c.Backend
}

func Encode(p Profile) (string, error) {
	return DefaultCodec.Encode(p)
}

func Decode(s string) (Profile, error) {
	return DefaultCodec.Decode(s)
}

func EncodeTLV(p Profile) ([]byte, error) {
	return DefaultCodec.EncodeTLV(p)
}

func DecodeTLV(b []byte) (Profile, error) {
	return DefaultCodec.DecodeTLV(b)
}
