package delegation

import (
	"encoding/json"

	"github.com/nbd-wtf/go-nostr"
	"github.com/pkg/errors"
	"nostrtrust/libraries/keys"
)

// TagName is the first element of a delegation tag.
const TagName = "delegation"

var ErrInvalidTag = errors.New("invalid delegation tag")

// Tag is a delegation grant as carried on a delegated event:
// ["delegation", <delegator hex>, <conditions>, <signature hex>].
type Tag struct {
	Delegator  keys.PublicKey
	Conditions Conditions
	Signature  keys.Signature
}

// NewTag signs a grant and wraps it into a Tag ready to be attached to events.
func NewTag(b keys.Backend, c Conditions, delegatee keys.PublicKey, delegator keys.PrivateKey) (Tag, error) {
	delegatorPub, err := b.PublicKeyOf(delegator)
	if err != nil {
		return Tag{}, err
	}
	sig, err := Generate(b, c, delegatee, delegator)
	if err != nil {
		return Tag{}, err
	}
	return Tag{Delegator: delegatorPub, Conditions: c, Signature: sig}, nil
}

func (t Tag) NostrTag() nostr.Tag {
	return nostr.Tag{TagName, t.Delegator.Hex(), t.Conditions.String(), t.Signature.Hex()}
}

// MarshalJSON encodes the tag in its wire form, a four element array.
func (t Tag) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.NostrTag())
}

func (t *Tag) UnmarshalJSON(b []byte) error {
	var raw nostr.Tag
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseTag(keys.Default, raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Verify checks the grant for delegatee.
func (t Tag) Verify(b keys.Backend, delegatee keys.PublicKey) error {
	return Verify(b, t.Conditions, t.Delegator, delegatee, t.Signature)
}

// ParseTag reads a delegation tag. Conditions are parsed with p.
func (p Parser) ParseTag(b keys.Backend, tag nostr.Tag) (t Tag, err error) {
	if len(tag) != 4 {
		return t, errors.Wrapf(ErrInvalidTag, "expected 4 elements, got %d", len(tag))
	}
	if tag[0] != TagName {
		return t, errors.Wrapf(ErrInvalidTag, "expected tag name %s, got %q", TagName, tag[0])
	}
	if t.Delegator, err = keys.ParsePublicKeyHex(b, tag[1]); err != nil {
		return Tag{}, errors.Wrap(err, "delegator")
	}
	if t.Conditions, err = p.Parse(tag[2]); err != nil {
		return Tag{}, err
	}
	if t.Signature, err = keys.ParseSignatureHex(tag[3]); err != nil {
		return Tag{}, err
	}
	return t, nil
}

// ParseTag reads a delegation tag with DefaultParser.
func ParseTag(b keys.Backend, tag nostr.Tag) (Tag, error) {
	return DefaultParser.ParseTag(b, tag)
}
