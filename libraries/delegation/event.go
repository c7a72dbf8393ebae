package delegation

import (
	"fmt"

	"github.com/nbd-wtf/go-nostr"
	"nostrtrust/engine/library"
	"nostrtrust/libraries/keys"
)

// EventDelegation is the outcome of checking an event for delegation. It is one of
// NotDelegated, InvalidDelegation or DelegatedBy.
type EventDelegation interface {
	eventDelegation()
}

// NotDelegated means the event carries no delegation tag.
type NotDelegated struct{}

// InvalidDelegation means a delegation tag is present but does not hold.
type InvalidDelegation struct {
	Reason string
}

// DelegatedBy means the delegation holds. Delegator is the effective author of the event.
type DelegatedBy struct {
	Delegator keys.PublicKey
}

func (NotDelegated) eventDelegation()      {}
func (InvalidDelegation) eventDelegation() {}
func (DelegatedBy) eventDelegation()       {}

// CheckEvent inspects the first delegation tag of e. The grant must be signed by the delegator
// for e.PubKey, and e's kind and created_at must satisfy the conditions. The event's own
// signature is not checked here.
func (p Parser) CheckEvent(b keys.Backend, e nostr.Event) EventDelegation {
	raw, ok := library.GetFirstFullTag(e, TagName)
	if !ok {
		return NotDelegated{}
	}
	result := p.checkTag(b, e, raw)
	if invalid, ok := result.(InvalidDelegation); ok {
		library.LogCLI(fmt.Sprintf("event %s: %s", e.ID, invalid.Reason), 3)
	}
	return result
}

func (p Parser) checkTag(b keys.Backend, e nostr.Event, raw nostr.Tag) EventDelegation {
	tag, err := p.ParseTag(b, raw)
	if err != nil {
		return InvalidDelegation{Reason: err.Error()}
	}
	delegatee, err := keys.ParsePublicKeyHex(b, e.PubKey)
	if err != nil {
		return InvalidDelegation{Reason: "delegatee: " + err.Error()}
	}
	if err = tag.Verify(b, delegatee); err != nil {
		return InvalidDelegation{Reason: err.Error()}
	}
	if e.Kind < 0 || !tag.Conditions.Allows(uint64(e.Kind), int64(e.CreatedAt)) {
		return InvalidDelegation{Reason: fmt.Sprintf("kind %d at %d does not satisfy conditions %q", e.Kind, e.CreatedAt, tag.Conditions.String())}
	}
	return DelegatedBy{Delegator: tag.Delegator}
}

// CheckEvent checks e with DefaultParser.
func CheckEvent(b keys.Backend, e nostr.Event) EventDelegation {
	return DefaultParser.CheckEvent(b, e)
}

// Author returns the effective author of e: the delegator when the delegation holds, otherwise
// the event's own pubkey.
func Author(d EventDelegation, e nostr.Event) library.Account {
	if by, ok := d.(DelegatedBy); ok {
		return by.Delegator.Hex()
	}
	return e.PubKey
}
