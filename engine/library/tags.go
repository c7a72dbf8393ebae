package library

import (
	"github.com/nbd-wtf/go-nostr"
)

// GetFirstFullTag returns the whole first tag named name, including the name.
func GetFirstFullTag(e nostr.Event, name string) (nostr.Tag, bool) {
	for _, tag := range e.Tags {
		if len(tag) > 0 && tag[0] == name {
			return tag, true
		}
	}
	return nil, false
}
