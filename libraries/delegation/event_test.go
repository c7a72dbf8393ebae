package delegation

import (
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nostrtrust/libraries/keys"
)

func delegatedEvent(t *testing.T, c Conditions, kind int, createdAt int64) (nostr.Event, keys.PublicKey) {
	sk, delegator, delegatee := testKeys(t)
	tag, err := NewTag(keys.Default, c, delegatee, sk)
	require.NoError(t, err)
	assert.Equal(t, delegator, tag.Delegator)
	return nostr.Event{
		PubKey:    delegatee.Hex(),
		CreatedAt: nostr.Timestamp(createdAt),
		Kind:      kind,
		Tags:      nostr.Tags{nostr.Tag{"p", delegator.Hex()}, tag.NostrTag()},
		Content:   "delegated",
	}, delegator
}

func TestCheckEventDelegated(t *testing.T) {
	c := Conditions{}.WithKind(1).WithCreatedAfter(1674834236).WithCreatedBefore(1677426236)
	e, delegator := delegatedEvent(t, c, 1, 1675000000)

	result := CheckEvent(keys.Default, e)
	require.IsType(t, DelegatedBy{}, result)
	assert.Equal(t, delegator, result.(DelegatedBy).Delegator)
	assert.Equal(t, delegator.Hex(), Author(result, e))
}

func TestCheckEventNotDelegated(t *testing.T) {
	e := nostr.Event{PubKey: delegateeHex, Kind: 1, Tags: nostr.Tags{nostr.Tag{"e", "abc"}}}
	result := CheckEvent(keys.Default, e)
	assert.Equal(t, NotDelegated{}, result)
	assert.Equal(t, delegateeHex, Author(result, e))
}

func TestCheckEventInvalid(t *testing.T) {
	c := Conditions{}.WithKind(1).WithCreatedAfter(100).WithCreatedBefore(200)

	t.Run("conditions not met", func(t *testing.T) {
		e, _ := delegatedEvent(t, c, 7, 150)
		result := CheckEvent(keys.Default, e)
		require.IsType(t, InvalidDelegation{}, result)
		assert.Contains(t, result.(InvalidDelegation).Reason, "does not satisfy")
	})

	t.Run("signed by someone else", func(t *testing.T) {
		e, delegator := delegatedEvent(t, c, 1, 150)
		e.PubKey = delegator.Hex()
		result := CheckEvent(keys.Default, e)
		require.IsType(t, InvalidDelegation{}, result)
		assert.Contains(t, result.(InvalidDelegation).Reason, "signature")
		assert.Equal(t, e.PubKey, Author(result, e))
	})

	t.Run("malformed tag", func(t *testing.T) {
		e := nostr.Event{PubKey: delegateeHex, Tags: nostr.Tags{nostr.Tag{TagName, "abc"}}}
		result := CheckEvent(keys.Default, e)
		require.IsType(t, InvalidDelegation{}, result)
		assert.NotEmpty(t, result.(InvalidDelegation).Reason)
	})

	t.Run("tampered conditions", func(t *testing.T) {
		e, _ := delegatedEvent(t, c, 1, 150)
		e.Tags[1][2] = "kind=1&created_at>100"
		result := CheckEvent(keys.Default, e)
		require.IsType(t, InvalidDelegation{}, result)
	})
}
