package relays

import (
	"context"
	"fmt"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/sasha-s/go-deadlock"
	"nostrtrust/engine/library"
)

// PublishToRelays sends every event to every relay concurrently and returns the relays that
// failed, keyed by URL.
func PublishToRelays(ctx context.Context, events []nostr.Event, relays []library.Relay, timeout time.Duration) map[library.Relay]error {
	failed := make(map[library.Relay]error)
	failedMu := &deadlock.Mutex{}
	wg := &deadlock.WaitGroup{}
	for _, url := range relays {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			if err := publish(ctx, url, events, timeout); err != nil {
				library.LogCLI(fmt.Sprintf("could not publish to relay %s: %s", url, err), 2)
				failedMu.Lock()
				failed[url] = err
				failedMu.Unlock()
			}
		}(url)
	}
	wg.Wait()
	return failed
}

func publish(ctx context.Context, url string, events []nostr.Event, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	relay, err := nostr.RelayConnect(ctx, url)
	if err != nil {
		return err
	}
	defer relay.Close()
	for _, event := range events {
		if _, err := relay.Publish(ctx, event); err != nil {
			return err
		}
		library.LogCLI(fmt.Sprintf("published %s to %s", event.ID, url), 4)
	}
	return nil
}
