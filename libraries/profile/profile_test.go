package profile

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/nbd-wtf/go-nostr/nip19"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nostrtrust/libraries/keys"
)

const (
	nip19PubHex   = "3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d"
	nip19Nprofile = "nprofile1qqsrhuxx8l9ex335q7he0f09aej04zpazpl0ne2cgukyawd24mayt8gpp4mhxue69uhhytnc9e3k7mgpz4mhxue69uhkg6nzv9ejuumpv34kytnrdaksjlyr9p"
)

func pubkey(t *testing.T, s string) keys.PublicKey {
	pk, err := keys.ParsePublicKeyHex(keys.Default, s)
	require.NoError(t, err)
	return pk
}

func TestNip19Example(t *testing.T) {
	p := New(pubkey(t, nip19PubHex), "wss://r.x.com", "wss://djbas.sadkb.com")

	s, err := Encode(p)
	require.NoError(t, err)
	assert.Equal(t, nip19Nprofile, s)
	assert.Equal(t, nip19Nprofile, p.String())

	decoded, err := Decode(nip19Nprofile)
	require.NoError(t, err)
	assert.Equal(t, p, decoded)
}

func TestRoundTrip(t *testing.T) {
	for _, relays := range [][]string{
		{},
		{"wss://relay.example.com", "wss://relay2.example.com"},
		{"wss://dup.example.com", "wss://dup.example.com"},
		{""},
		{"wss://ünïcödé.example/", strings.Repeat("a", 255)},
	} {
		p := New(pubkey(t, "b0635d6a9851d3aed0cd6c495b282167acf761729078d975fc341b22650b07b9"), relays...)
		s, err := Encode(p)
		require.NoError(t, err)
		decoded, err := Decode(s)
		require.NoError(t, err)
		assert.True(t, p.Equal(decoded), "%v != %v", p, decoded)
	}
}

func TestMatchesGoNostr(t *testing.T) {
	relays := []string{"wss://nostr.688.org", "wss://relay.damus.io"}
	expected, err := nip19.EncodeProfile(nip19PubHex, relays)
	require.NoError(t, err)

	s, err := Encode(New(pubkey(t, nip19PubHex), relays...))
	require.NoError(t, err)
	assert.Equal(t, expected, s)

	decoded, err := Decode(expected)
	require.NoError(t, err)
	assert.Equal(t, relays, decoded.Relays)
}

func TestEncodeRejectsLongRelay(t *testing.T) {
	p := New(pubkey(t, nip19PubHex), "wss://ok", strings.Repeat("x", 256))
	_, err := Encode(p)
	assert.True(t, errors.Is(err, ErrRelayTooLong))
	assert.Equal(t, nip19PubHex, p.String())
}

func TestEncodeRejectsInvalidUTF8Relay(t *testing.T) {
	p := New(pubkey(t, nip19PubHex), "wss://ok", "wss://\xff")
	_, err := Encode(p)
	assert.True(t, errors.Is(err, ErrInvalidUTF8))
	assert.Contains(t, err.Error(), "relay 1")

	_, err = EncodeTLV(p)
	assert.True(t, errors.Is(err, ErrInvalidUTF8))
}

func TestDecodeWrongPrefix(t *testing.T) {
	npub, err := pubkey(t, nip19PubHex).NPub()
	require.NoError(t, err)

	_, err = Decode(npub)
	var mismatch *EnvelopeMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "nprofile", mismatch.Expected)
	assert.Equal(t, "npub", mismatch.Actual)
	assert.Contains(t, err.Error(), "nprofile")
	assert.Contains(t, err.Error(), "npub")
}

func TestDecodeBadChecksum(t *testing.T) {
	corrupted := nip19Nprofile[:len(nip19Nprofile)-1] + "q"
	_, err := Decode(corrupted)
	var checksum *EnvelopeChecksumError
	require.True(t, errors.As(err, &checksum))
	assert.False(t, errors.Is(err, ErrInvalidProfile))
}

func TestDecodeTLVStructure(t *testing.T) {
	pk := pubkey(t, nip19PubHex)
	valid, err := EncodeTLV(New(pk, "wss://a"))
	require.NoError(t, err)

	cases := map[string][]byte{
		"empty":             {},
		"one byte":          {0},
		"wrong type":        append([]byte{1, 32}, pk[:]...),
		"wrong length":      append([]byte{0, 31}, pk[:31]...),
		"truncated key":     {0, 32, 1, 2, 3},
		"unknown record":    append(append([]byte{}, valid...), 2, 1, 'x'),
		"truncated relay":   append(append([]byte{}, valid...), 1, 5, 'w', 's'),
		"second key record": append(append([]byte{}, valid...), 0, 32),
	}
	for name, tlv := range cases {
		_, err := DecodeTLV(tlv)
		assert.True(t, errors.Is(err, ErrInvalidProfile), name)
	}
}

func TestDecodeTLVInvalidKey(t *testing.T) {
	tlv := append([]byte{0, 32}, make([]byte, 32)...)
	for i := range tlv[2:] {
		tlv[2+i] = 0xff
	}
	_, err := DecodeTLV(tlv)
	assert.True(t, errors.Is(err, keys.ErrInvalidPublicKey))
	assert.False(t, errors.Is(err, ErrInvalidProfile))
}

func TestDecodeTLVInvalidUTF8(t *testing.T) {
	pk := pubkey(t, nip19PubHex)
	tlv := append(append([]byte{0, 32}, pk[:]...), 1, 2, 0xc3, 0x28)
	_, err := DecodeTLV(tlv)
	assert.True(t, errors.Is(err, ErrInvalidUTF8))
}

func TestDecodeTLVTrailingByte(t *testing.T) {
	pk := pubkey(t, nip19PubHex)
	tlv, err := EncodeTLV(New(pk, "wss://a"))
	require.NoError(t, err)
	tlv = append(tlv, 1)

	p, err := DecodeTLV(tlv)
	require.NoError(t, err)
	assert.Equal(t, []string{"wss://a"}, p.Relays)

	_, err = Codec{RejectTrailing: true}.DecodeTLV(tlv)
	assert.True(t, errors.Is(err, ErrTrailingData))

	bits5, err := bech32.ConvertBits(tlv, 8, 5, true)
	require.NoError(t, err)
	s, err := bech32.Encode(Prefix, bits5)
	require.NoError(t, err)
	_, err = Decode(s)
	assert.NoError(t, err)
}

func TestEncodeTLVLayout(t *testing.T) {
	pk := pubkey(t, nip19PubHex)
	tlv, err := EncodeTLV(New(pk, "ab", ""))
	require.NoError(t, err)
	expected := append([]byte{0, 32}, pk[:]...)
	expected = append(expected, 1, 2, 'a', 'b', 1, 0)
	assert.Equal(t, expected, tlv)
}

func TestProfileJSON(t *testing.T) {
	p := New(pubkey(t, nip19PubHex), "wss://r.x.com", "wss://djbas.sadkb.com")
	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"pubkey":"`+nip19PubHex+`","relays":["wss://r.x.com","wss://djbas.sadkb.com"]}`, string(b))

	var back Profile
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, p.Equal(back))

	err = json.Unmarshal([]byte(`{"pubkey":"zz","relays":[]}`), &back)
	assert.True(t, errors.Is(err, keys.ErrInvalidPublicKey))
}
