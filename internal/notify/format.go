package notify

import (
	"fmt"
	"html/template"
	"strings"

	"eventscout/internal/model"
)

const (
	statusRegistered = "Auto-registered"
	statusReview     = "Manual review"

	// digestDescriptionLimit bounds descriptions in digest messages.
	digestDescriptionLimit = 200

	// autoRegisterThreshold mirrors the registrar's relevance threshold for
	// the digest's status label.
	autoRegisterThreshold = 0.8
)

// BuildDigest projects the top ranked events into their display shape.
func BuildDigest(ranked []model.RankedEvent, topN int) []model.DigestEvent {
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	digest := make([]model.DigestEvent, 0, len(ranked))
	for _, re := range ranked {
		desc := re.Event.Description
		if len([]rune(desc)) > digestDescriptionLimit {
			desc = string([]rune(desc)[:digestDescriptionLimit]) + "..."
		}
		status := statusReview
		if re.RelevanceScore >= autoRegisterThreshold {
			status = statusRegistered
		}
		digest = append(digest, model.DigestEvent{
			Title:              re.Event.Title,
			Date:               re.Event.Date.Format("2006-01-02 15:04"),
			Venue:              re.Event.Venue,
			Description:        desc,
			SourceLink:         re.Event.SourceURL,
			RelevanceScore:     re.RelevanceScore,
			RegistrationStatus: status,
		})
	}
	return digest
}

// FormatTelegramDigest formats a digest as a Markdown message. An empty
// digest still yields a complete message.
func FormatTelegramDigest(events []model.DigestEvent) string {
	var b strings.Builder
	b.WriteString("*Event Scout - Weekly Digest*\n\n")
	fmt.Fprintf(&b, "Curated events for this week: %d events found\n\n", len(events))

	for i, ev := range events {
		fmt.Fprintf(&b, "*%d. %s*\n", i+1, ev.Title)
		fmt.Fprintf(&b, "%s | %s\n", ev.Venue, ev.Date)
		fmt.Fprintf(&b, "Relevance: %.2f/1.0\n", ev.RelevanceScore)
		if ev.Description != "" {
			b.WriteString(ev.Description)
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[Event Link](%s)\n", ev.SourceLink)
		fmt.Fprintf(&b, "%s\n\n", ev.RegistrationStatus)
	}

	b.WriteString("---\nPowered by Event Scout")
	return b.String()
}

// FormatConfirmation formats a registration confirmation message.
func FormatConfirmation(result model.RegistrationResult) string {
	ev := result.Event.Event

	var b strings.Builder
	b.WriteString("*Successfully Registered for Event*\n\n")
	fmt.Fprintf(&b, "Event: %s\n", ev.Title)
	fmt.Fprintf(&b, "Venue: %s, %s\n", ev.Venue, ev.City)
	fmt.Fprintf(&b, "Date: %s\n", ev.Date.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Link: %s\n\n", ev.SourceURL)

	status := "confirmed"
	if s, ok := result.ConfirmationData["status"].(string); ok && s != "" {
		status = s
	}
	fmt.Fprintf(&b, "Confirmation: %s\n", status)
	if result.QRCodeURL != "" {
		fmt.Fprintf(&b, "QR Code: %s\n", result.QRCodeURL)
	}
	fmt.Fprintf(&b, "Relevance Score: %.2f/1.0\n\n", result.Event.RelevanceScore)
	b.WriteString("Registration completed automatically by Event Scout")
	return b.String()
}

var digestTemplate = template.Must(template.New("digest").Parse(`<html>
<head>
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px; }
.header { background: #2c3e50; color: white; padding: 24px; border-radius: 8px; text-align: center; margin-bottom: 24px; }
.event { border: 1px solid #e1e8ed; padding: 16px; margin: 12px 0; border-radius: 8px; background: #fafbfc; }
.event-title { font-size: 17px; font-weight: bold; color: #2c3e50; margin-bottom: 8px; }
.event-meta { color: #7f8c8d; font-size: 14px; margin-bottom: 8px; }
.score { color: #27ae60; font-weight: bold; }
.status { padding: 3px 10px; border-radius: 12px; font-size: 12px; font-weight: bold; color: white; }
.registered { background-color: #27ae60; }
.pending { background-color: #f39c12; }
.footer { text-align: center; margin-top: 24px; color: #7f8c8d; font-size: 12px; }
</style>
</head>
<body>
<div class="header">
<h1>Event Scout</h1>
<h2>Weekly Event Digest</h2>
<p>Found {{len .}} relevant events for this week</p>
</div>
{{range $i, $ev := .}}<div class="event">
<div class="event-title">{{$ev.Title}}</div>
<div class="event-meta">{{$ev.Venue}} | {{$ev.Date}}<br>Relevance: <span class="score">{{printf "%.2f" $ev.RelevanceScore}}/1.0</span></div>
<p>{{$ev.Description}}</p>
<a href="{{$ev.SourceLink}}">Event Details &amp; Registration</a>
{{if eq $ev.RegistrationStatus "Auto-registered"}}<span class="status registered">{{$ev.RegistrationStatus}}</span>{{else}}<span class="status pending">{{$ev.RegistrationStatus}}</span>{{end}}
</div>
{{end}}<div class="footer">
<p>This digest was automatically generated by Event Scout</p>
</div>
</body>
</html>
`))

// RenderDigestHTML renders the HTML email body for a digest.
func RenderDigestHTML(events []model.DigestEvent) (string, error) {
	var b strings.Builder
	if err := digestTemplate.Execute(&b, events); err != nil {
		return "", fmt.Errorf("execute digest template: %w", err)
	}
	return b.String(), nil
}
