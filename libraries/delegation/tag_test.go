package delegation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nostrtrust/libraries/keys"
)

const knownTag = `["delegation","1a459a8a6aa6441d480ba665fb8fb21a4cfe8bcacb7d87300f8046a558a3fce4","kind=1&created_at>1676067553&created_at<1678659553","369aed09c1ad52fceb77ecd6c16f2433eac4a3803fc41c58876a5b60f4f36b9493d5115e5ec5a0ce6c3668ffe5b58d47f2cbc97233833bb7e908f66dbbbd9d36"]`

func TestParseKnownTag(t *testing.T) {
	var raw nostr.Tag
	require.NoError(t, json.Unmarshal([]byte(knownTag), &raw))

	tag, err := ParseTag(keys.Default, raw)
	require.NoError(t, err)
	assert.Equal(t, "kind=1&created_at>1676067553&created_at<1678659553", tag.Conditions.String())

	delegatee, err := keys.ParsePublicKeyHex(keys.Default, "bea8aeb6c1657e33db5ac75a83910f77e8ec6145157e476b5b88c6e85b1fab34")
	require.NoError(t, err)
	require.NoError(t, tag.Verify(keys.Default, delegatee))

	out, err := json.Marshal(tag.NostrTag())
	require.NoError(t, err)
	assert.JSONEq(t, knownTag, string(out))
}

func TestParseTagErrors(t *testing.T) {
	var raw nostr.Tag
	require.NoError(t, json.Unmarshal([]byte(knownTag), &raw))

	short := raw[:3]
	_, err := ParseTag(keys.Default, short)
	assert.True(t, errors.Is(err, ErrInvalidTag))

	renamed := append(nostr.Tag{"p"}, raw[1:]...)
	_, err = ParseTag(keys.Default, renamed)
	assert.True(t, errors.Is(err, ErrInvalidTag))

	badKey := nostr.Tag{raw[0], "1a45", raw[2], raw[3]}
	_, err = ParseTag(keys.Default, badKey)
	assert.True(t, errors.Is(err, keys.ErrInvalidPublicKey))

	badConditions := nostr.Tag{raw[0], raw[1], "kind=x", raw[3]}
	_, err = ParseTag(keys.Default, badConditions)
	assert.True(t, errors.Is(err, ErrMalformedNumber))

	badSig := nostr.Tag{raw[0], raw[1], raw[2], "00"}
	_, err = ParseTag(keys.Default, badSig)
	assert.True(t, errors.Is(err, keys.ErrInvalidSignature))
}

func TestTagJSON(t *testing.T) {
	var tag Tag
	require.NoError(t, json.Unmarshal([]byte(knownTag), &tag))
	assert.Equal(t, "1a459a8a6aa6441d480ba665fb8fb21a4cfe8bcacb7d87300f8046a558a3fce4", tag.Delegator.Hex())

	out, err := json.Marshal(tag)
	require.NoError(t, err)
	assert.JSONEq(t, knownTag, string(out))

	err = json.Unmarshal([]byte(`["delegation","1a45"]`), &tag)
	assert.True(t, errors.Is(err, ErrInvalidTag))
}
