// Package model defines the domain types used across the application.
package model

import (
	"fmt"
	"time"
)

// Platform identifies an external event listing platform.
type Platform string

// Supported event listing platforms.
const (
	PlatformConnpass   Platform = "connpass"
	PlatformPeatix     Platform = "peatix"
	PlatformMeetup     Platform = "meetup"
	PlatformEventbrite Platform = "eventbrite"
	PlatformDoorkeeper Platform = "doorkeeper"
	PlatformJETRO      Platform = "jetro"
	PlatformChamber    Platform = "chamber"
)

// Platforms lists every supported platform.
func Platforms() []Platform {
	return []Platform{
		PlatformConnpass,
		PlatformPeatix,
		PlatformMeetup,
		PlatformEventbrite,
		PlatformDoorkeeper,
		PlatformJETRO,
		PlatformChamber,
	}
}

// ParsePlatform converts a string into a Platform.
func ParsePlatform(s string) (Platform, error) {
	for _, p := range Platforms() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown platform %q", s)
}

// Event is a discovered listing canonicalized into a common record shape.
// SourceURL is the de-duplication key: two events sharing a SourceURL are
// the same logical event.
type Event struct {
	ID                   int64
	Title                string
	Description          string
	Date                 time.Time
	Venue                string
	City                 string
	SourceURL            string
	Platform             Platform
	Price                string
	RegistrationRequired bool
}

// RankedEvent wraps an Event with its computed relevance.
// Confidence is the oracle's raw semantic score.
type RankedEvent struct {
	Event           Event
	RelevanceScore  float64
	MatchedKeywords []string
	Confidence      float64
}

// RegistrationResult is the outcome of one registration attempt.
// Exactly one of (Success with ConfirmationData) or (failure with
// ErrorMessage) holds.
type RegistrationResult struct {
	Event            RankedEvent
	Success          bool
	ConfirmationData map[string]any
	QRCodeURL        string
	ErrorMessage     string
}

// DigestEvent is a display-only projection of a RankedEvent used when
// formatting digest notifications.
type DigestEvent struct {
	Title              string
	Date               string
	Venue              string
	Description        string
	SourceLink         string
	RelevanceScore     float64
	RegistrationStatus string
}

// RunSummary aggregates the outcome of one pipeline invocation.
type RunSummary struct {
	RunID      string
	StartedAt  time.Time
	Duration   time.Duration
	Discovered int
	Saved      int
	Relevant   int
	Registered int
	DigestSent bool
}
