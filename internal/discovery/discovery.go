// Package discovery queries event listing platforms and normalizes their
// payloads into the common event record shape.
package discovery

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"eventscout/internal/model"
)

const (
	// requestTimeout bounds every individual platform query.
	requestTimeout = 10 * time.Second

	// maxEventsPerPair caps how many events one (platform, city) query yields.
	maxEventsPerPair = 5

	// descriptionLimit bounds the stored description length.
	descriptionLimit = 500
)

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Discoverer queries event platforms for upcoming events.
type Discoverer struct {
	client HTTPClient
	log    *slog.Logger
	now    func() time.Time
}

// New creates a Discoverer with the given HTTP client.
func New(client HTTPClient, log *slog.Logger) *Discoverer {
	return &Discoverer{
		client: client,
		log:    log,
		now:    time.Now,
	}
}

// Discover queries every (platform, city) pair concurrently and returns the
// combined results. A pair whose query fails yields that platform's fallback
// events instead; one pair's failure never affects its siblings.
func (d *Discoverer) Discover(ctx context.Context, cities []string, platforms []model.Platform) []model.Event {
	type pair struct {
		platform model.Platform
		city     string
	}

	var pairs []pair
	for _, city := range cities {
		for _, p := range platforms {
			pairs = append(pairs, pair{platform: p, city: city})
		}
	}

	results := make([][]model.Event, len(pairs))
	var wg sync.WaitGroup
	for i, pr := range pairs {
		wg.Add(1)
		go func(i int, pr pair) {
			defer wg.Done()
			results[i] = d.search(ctx, pr.platform, pr.city)
		}(i, pr)
	}
	wg.Wait()

	var all []model.Event
	for _, events := range results {
		all = append(all, events...)
	}

	d.log.Info("discovery complete", "pairs", len(pairs), "events", len(all))
	return all
}

// search dispatches to the handler for one platform. Handlers absorb their
// own failures and fall back to deterministic mock events, so search never
// returns an error.
func (d *Discoverer) search(ctx context.Context, platform model.Platform, city string) []model.Event {
	switch platform {
	case model.PlatformConnpass:
		return d.searchConnpass(ctx, city)
	case model.PlatformDoorkeeper:
		return d.searchDoorkeeper(ctx, city)
	case model.PlatformJETRO:
		return d.searchFeed(ctx, model.PlatformJETRO, city)
	case model.PlatformChamber:
		return d.searchFeed(ctx, model.PlatformChamber, city)
	case model.PlatformPeatix, model.PlatformMeetup, model.PlatformEventbrite:
		// No public API; these platforms always serve their mock sets.
		return mockEvents(platform, city, d.now())
	}
	return nil
}
