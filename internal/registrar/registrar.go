// Package registrar auto-registers for eligible events. Registration is
// synthesized: no real form submission happens, the confirmation payloads
// are placeholder data tagged with the event's platform.
package registrar

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"eventscout/internal/config"
	"eventscout/internal/model"
)

const (
	// minScore is the relevance threshold for auto-registration.
	minScore = 0.8

	// maxRegistrations caps successful registrations per run.
	maxRegistrations = 3

	// defaultDelay separates consecutive registration attempts.
	defaultDelay = 2 * time.Second
)

// Registrar performs auto-registration for eligible events.
type Registrar struct {
	contact config.Contact
	log     *slog.Logger
	delay   time.Duration
	now     func() time.Time
}

// New creates a Registrar signing up with the given contact identity.
func New(contact config.Contact, log *slog.Logger) *Registrar {
	return &Registrar{
		contact: contact,
		log:     log,
		delay:   defaultDelay,
		now:     time.Now,
	}
}

// SetDelay overrides the inter-attempt delay (useful for testing).
func (r *Registrar) SetDelay(d time.Duration) {
	r.delay = d
}

// Register walks the ranked events in order and registers for each eligible
// one, stopping once the per-run success cap is reached. Ineligible events
// are skipped without producing a result.
func (r *Registrar) Register(ctx context.Context, ranked []model.RankedEvent) []model.RegistrationResult {
	var results []model.RegistrationResult
	registered := 0

	for _, re := range ranked {
		if registered >= maxRegistrations {
			r.log.Info("registration limit reached", "limit", maxRegistrations)
			break
		}
		if ctx.Err() != nil {
			break
		}
		if !r.eligible(re) {
			continue
		}

		result := r.register(re)
		results = append(results, result)

		if result.Success {
			registered++
			r.log.Info("registered for event", "title", re.Event.Title)
		} else {
			r.log.Warn("registration failed", "title", re.Event.Title, "error", result.ErrorMessage)
		}

		// Self-imposed rate limit between attempts.
		time.Sleep(r.delay)
	}

	r.log.Info("registration summary", "successful", registered, "attempted", len(results))
	return results
}

// eligible applies the auto-registration policy: high relevance, free
// admission, and an actual registration step to take.
func (r *Registrar) eligible(re model.RankedEvent) bool {
	ev := re.Event
	if re.RelevanceScore < minScore {
		r.log.Info("skipping event, relevance too low", "title", ev.Title, "score", re.RelevanceScore)
		return false
	}
	if !isFreePrice(ev.Price) {
		r.log.Info("skipping event, not free", "title", ev.Title, "price", ev.Price)
		return false
	}
	if !ev.RegistrationRequired {
		r.log.Info("skipping event, no registration required", "title", ev.Title)
		return false
	}
	r.log.Info("event eligible for registration", "title", ev.Title, "score", re.RelevanceScore, "price", ev.Price)
	return true
}

// isFreePrice reports whether a price string indicates free admission.
// A bare zero amount counts; a zero digit inside a larger amount ("¥500")
// does not.
func isFreePrice(price string) bool {
	p := strings.ToLower(strings.TrimSpace(price))
	for _, marker := range []string{"free", "無料", "no charge"} {
		if strings.Contains(p, marker) {
			return true
		}
	}
	switch strings.TrimPrefix(p, "¥") {
	case "0", "zero":
		return true
	}
	return false
}

// register synthesizes a platform-tagged confirmation for one event.
func (r *Registrar) register(re model.RankedEvent) model.RegistrationResult {
	ev := re.Event
	r.log.Info("attempting registration", "platform", ev.Platform, "title", ev.Title)

	ref := confirmationRef(ev.Platform, ev.SourceURL)
	date := r.now().Format("2006-01-02")

	result := model.RegistrationResult{Event: re, Success: true}
	switch ev.Platform {
	case model.PlatformConnpass:
		result.ConfirmationData = map[string]any{
			"platform":          string(ev.Platform),
			"event_id":          ref,
			"registration_date": date,
			"status":            "confirmed",
			"ticket_type":       "一般",
		}
		result.QRCodeURL = qrCodeURL(ev.SourceURL)
	case model.PlatformPeatix:
		result.ConfirmationData = map[string]any{
			"platform":    string(ev.Platform),
			"order_id":    ref,
			"ticket_type": "Free Admission",
			"status":      "confirmed",
		}
		result.QRCodeURL = qrCodeURL(ref)
	case model.PlatformMeetup:
		result.ConfirmationData = map[string]any{
			"platform": string(ev.Platform),
			"rsvp_id":  ref,
			"status":   "yes",
			"guests":   0,
		}
	default:
		result.ConfirmationData = map[string]any{
			"platform":          string(ev.Platform),
			"status":            "auto_registered",
			"registration_date": date,
			"note":              "Automatic registration by " + r.contact.Company,
		}
	}
	result.ConfirmationData["attendee"] = r.contact.Name
	if r.contact.Email != "" {
		result.ConfirmationData["email"] = r.contact.Email
	}
	return result
}

// confirmationRef derives a stable per-event reference from the source URL.
func confirmationRef(platform model.Platform, sourceURL string) string {
	h := sha256.Sum256([]byte(sourceURL))
	return fmt.Sprintf("%s_%x", strings.ToUpper(string(platform)), h[:8])
}

func qrCodeURL(data string) string {
	return "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data=" + url.QueryEscape(data)
}
