package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"eventscout/internal/model"
)

const userAgent = "EventScout/1.0 (+https://github.com/eventscout)"

// maxBodySize caps how much of a platform response is read.
const maxBodySize = 5 * 1024 * 1024

// connpassEvent is one entry in the Connpass API response.
type connpassEvent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartedAt   string `json:"started_at"`
	Place       string `json:"place"`
	Address     string `json:"address"`
	EventURL    string `json:"event_url"`
	Fee         string `json:"fee"`
}

type connpassResponse struct {
	Events []connpassEvent `json:"events"`
}

// searchConnpass queries the Connpass event API for one city. Any failure,
// including the API's bot blocking (403), falls back to mock events.
func (d *Discoverer) searchConnpass(ctx context.Context, city string) []model.Event {
	query := url.Values{
		"keyword": {city},
		"count":   {"20"},
		"order":   {"2"},
	}
	body, err := d.get(ctx, "https://connpass.com/api/v1/event/?"+query.Encode())
	if err != nil {
		d.log.Warn("connpass unavailable, using fallback events", "city", city, "error", err)
		return mockEvents(model.PlatformConnpass, city, d.now())
	}

	var resp connpassResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		d.log.Warn("connpass payload malformed, using fallback events", "city", city, "error", err)
		return mockEvents(model.PlatformConnpass, city, d.now())
	}

	var events []model.Event
	for _, ev := range resp.Events {
		if len(events) >= maxEventsPerPair {
			break
		}
		if ev.EventURL == "" {
			d.log.Warn("skipping connpass event without URL", "city", city, "title", ev.Title)
			continue
		}
		events = append(events, model.Event{
			Title:                orDefault(ev.Title, "No Title"),
			Description:          truncate(ev.Description, descriptionLimit),
			Date:                 d.parseDate(ev.StartedAt),
			Venue:                orDefault(ev.Place, "Unknown Venue"),
			City:                 canonicalCity(city, ev.Address),
			SourceURL:            ev.EventURL,
			Platform:             model.PlatformConnpass,
			Price:                coercePrice(ev.Fee),
			RegistrationRequired: true,
		})
	}

	d.log.Info("connpass search complete", "city", city, "events", len(events))
	return events
}

// doorkeeperEntry is one entry in the Doorkeeper API response.
type doorkeeperEntry struct {
	Event struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		StartsAt    string `json:"starts_at"`
		VenueName   string `json:"venue_name"`
		Address     string `json:"address"`
		PublicURL   string `json:"public_url"`
	} `json:"event"`
}

// searchDoorkeeper queries the Doorkeeper event API for one city.
func (d *Discoverer) searchDoorkeeper(ctx context.Context, city string) []model.Event {
	query := url.Values{
		"q":    {city},
		"sort": {"starts_at"},
	}
	body, err := d.get(ctx, "https://api.doorkeeper.jp/events?"+query.Encode())
	if err != nil {
		d.log.Warn("doorkeeper unavailable, using fallback events", "city", city, "error", err)
		return mockEvents(model.PlatformDoorkeeper, city, d.now())
	}

	var entries []doorkeeperEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		d.log.Warn("doorkeeper payload malformed, using fallback events", "city", city, "error", err)
		return mockEvents(model.PlatformDoorkeeper, city, d.now())
	}

	var events []model.Event
	for _, entry := range entries {
		if len(events) >= maxEventsPerPair {
			break
		}
		ev := entry.Event
		if ev.PublicURL == "" {
			continue
		}
		events = append(events, model.Event{
			Title:                orDefault(ev.Title, "No Title"),
			Description:          truncate(ev.Description, descriptionLimit),
			Date:                 d.parseDate(ev.StartsAt),
			Venue:                orDefault(ev.VenueName, "Unknown Venue"),
			City:                 canonicalCity(city, ev.Address),
			SourceURL:            ev.PublicURL,
			Platform:             model.PlatformDoorkeeper,
			Price:                "Unknown",
			RegistrationRequired: true,
		})
	}

	d.log.Info("doorkeeper search complete", "city", city, "events", len(events))
	return events
}

// feedURLs maps the RSS-backed platforms to their feeds.
var feedURLs = map[model.Platform]string{
	model.PlatformJETRO:   "https://www.jetro.go.jp/rss/events.xml",
	model.PlatformChamber: "https://www.jcci.or.jp/rss/events.xml",
}

// searchFeed fetches an RSS-backed platform and keeps the items that mention
// the requested city. Feeds are nationwide, so an empty match set (or any
// fetch failure) falls back to mock events.
func (d *Discoverer) searchFeed(ctx context.Context, platform model.Platform, city string) []model.Event {
	body, err := d.get(ctx, feedURLs[platform])
	if err != nil {
		d.log.Warn("feed unavailable, using fallback events", "platform", platform, "city", city, "error", err)
		return mockEvents(platform, city, d.now())
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		d.log.Warn("feed malformed, using fallback events", "platform", platform, "city", city, "error", err)
		return mockEvents(platform, city, d.now())
	}

	var events []model.Event
	for _, item := range feed.Items {
		if len(events) >= maxEventsPerPair {
			break
		}
		text := strings.ToLower(item.Title + " " + item.Description)
		if !strings.Contains(text, strings.ToLower(city)) {
			continue
		}
		if item.Link == "" {
			continue
		}
		date := d.now().AddDate(0, 0, defaultDateOffsetDays)
		if item.PublishedParsed != nil {
			date = *item.PublishedParsed
		}
		events = append(events, model.Event{
			Title:                orDefault(item.Title, "No Title"),
			Description:          truncate(item.Description, descriptionLimit),
			Date:                 date,
			Venue:                "See event page",
			City:                 canonicalCity(city, item.Title+" "+item.Description),
			SourceURL:            item.Link,
			Platform:             platform,
			Price:                "Unknown",
			RegistrationRequired: false,
		})
	}

	if len(events) == 0 {
		d.log.Info("feed had no items for city, using fallback events", "platform", platform, "city", city)
		return mockEvents(platform, city, d.now())
	}

	d.log.Info("feed search complete", "platform", platform, "city", city, "events", len(events))
	return events
}

// get performs one platform query with the shared headers and timeout.
// Responses other than 200 are errors so callers take the fallback path.
func (d *Discoverer) get(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// parseDate parses an RFC 3339 timestamp, falling back to a fixed future
// offset rather than rejecting the record.
func (d *Discoverer) parseDate(raw string) time.Time {
	if raw == "" {
		return d.now().AddDate(0, 0, defaultDateOffsetDays)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return d.now().AddDate(0, 0, defaultDateOffsetDays)
	}
	return t
}
