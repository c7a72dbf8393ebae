package relays

import (
	"context"
	"fmt"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/pkg/errors"
	"github.com/sasha-s/go-deadlock"
	"nostrtrust/engine/library"
	"nostrtrust/libraries/profile"
)

var ErrNoMetadata = errors.New("no metadata event found on the profile's relays")

// FetchLatestMetadata asks every relay hinted by p for the author's kind 0 events and returns
// the newest one.
func FetchLatestMetadata(ctx context.Context, p profile.Profile, timeout time.Duration) (n nostr.Event, err error) {
	if len(p.Relays) == 0 {
		return n, errors.Wrap(ErrNoMetadata, "profile has no relay hints")
	}
	events := make(map[string]nostr.Event)
	eventsMu := &deadlock.Mutex{}
	filters := nostr.Filters{
		nostr.Filter{
			Kinds:   []int{0},
			Authors: []string{p.PublicKey.Hex()},
		}}
	wait := &deadlock.WaitGroup{}
	for _, url := range p.Relays {
		wait.Add(1)
		go func(url string) {
			defer wait.Done()
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			relay, err := nostr.RelayConnect(ctx, url)
			if err != nil {
				library.LogCLI(err.Error(), 3)
				return
			}
			defer relay.Close()
			sub, err := relay.Subscribe(ctx, filters)
			if err != nil {
				library.LogCLI(err.Error(), 2)
				return
			}
			defer sub.Unsub()
			for {
				select {
				case ev, ok := <-sub.Events:
					if !ok {
						return
					}
					if !acceptMetadata(ev, p.PublicKey.Hex()) {
						continue
					}
					eventsMu.Lock()
					events[ev.ID] = *ev
					eventsMu.Unlock()
				case <-sub.EndOfStoredEvents:
					return
				case <-ctx.Done():
					return
				}
			}
		}(url)
	}
	wait.Wait()
	return newest(events)
}

// acceptMetadata keeps kind 0 events by author whose signature holds.
func acceptMetadata(ev *nostr.Event, author string) bool {
	if ev == nil || ev.Kind != 0 || ev.PubKey != author {
		return false
	}
	if ok, err := ev.CheckSignature(); !ok || err != nil {
		library.LogCLI(fmt.Sprintf("dropping metadata event %s with a bad signature", ev.ID), 3)
		return false
	}
	return true
}

func newest(events map[string]nostr.Event) (n nostr.Event, err error) {
	found := false
	for _, event := range events {
		if !found || event.CreatedAt > n.CreatedAt {
			n, found = event, true
		}
	}
	if !found {
		return n, ErrNoMetadata
	}
	return n, nil
}
