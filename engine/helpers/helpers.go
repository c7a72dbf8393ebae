package helpers

import (
	"time"

	"github.com/nbd-wtf/go-nostr"
	"nostrtrust/engine/actors"
)

// DelegatedEvent builds an event authored by the wallet key carrying the delegation tag, ready
// to be checked and signed.
func DelegatedEvent(delegationTag nostr.Tag, kind int, content string) (r nostr.Event) {
	r = nostr.Event{
		PubKey:    actors.MyWallet().Account,
		CreatedAt: nostr.Timestamp(time.Now().Unix()),
		Kind:      kind,
		Tags:      nostr.Tags{delegationTag},
		Content:   content,
	}
	return
}

// Sign sets the ID and signature of r with the wallet key.
func Sign(r *nostr.Event) error {
	r.ID = r.GetID()
	return r.Sign(actors.MyWallet().PrivateKey)
}
