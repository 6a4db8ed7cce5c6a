// Package oracle scores event relevance using an external text-completion
// service. The service is treated as an opaque oracle: it receives a prompt
// describing the event and is expected to reply with a bare number in [0, 1].
package oracle

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"eventscout/internal/model"
)

// neutralScore is used whenever the oracle's reply is unusable.
const neutralScore = 0.5

const promptDescriptionLimit = 500

// Client scores events against the Anthropic API.
type Client struct {
	api anthropic.Client
	log *slog.Logger
}

// New creates a Client with the given API key.
func New(apiKey string, log *slog.Logger) *Client {
	return &Client{
		api: anthropic.NewClient(option.WithAPIKey(apiKey)),
		log: log,
	}
}

// Score asks the oracle for a semantic relevance score in [0, 1].
// Unparseable or out-of-range replies yield the neutral score without error;
// only transport-level failures are returned to the caller.
func (c *Client) Score(ctx context.Context, ev model.Event) (float64, error) {
	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.ModelClaude3_5HaikuLatest,
		MaxTokens: 8,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(ev))),
		},
	})
	if err != nil {
		return 0, fmt.Errorf("oracle request: %w", err)
	}

	var reply strings.Builder
	for _, block := range msg.Content {
		reply.WriteString(block.Text)
	}

	score, ok := parseScore(reply.String())
	if !ok {
		c.log.Warn("unparseable oracle reply, using neutral score", "title", ev.Title, "reply", reply.String())
		return neutralScore, nil
	}
	return score, nil
}

func buildPrompt(ev model.Event) string {
	var b strings.Builder
	b.WriteString("Analyze this event for relevance to a tech company that wants to:\n")
	b.WriteString("- Find business partners\n")
	b.WriteString("- Acquire new clients\n")
	b.WriteString("- Network with startups and investors\n")
	b.WriteString("- Stay updated on AI and tech trends\n\n")
	fmt.Fprintf(&b, "Event Title: %s\n", ev.Title)
	fmt.Fprintf(&b, "Event Description: %s\n", truncate(ev.Description, promptDescriptionLimit))
	fmt.Fprintf(&b, "City: %s\n\n", ev.City)
	b.WriteString("Provide a relevance score from 0.0 to 1.0, where:\n")
	b.WriteString("0.0 = Completely irrelevant\n")
	b.WriteString("0.3 = Slightly relevant\n")
	b.WriteString("0.6 = Moderately relevant\n")
	b.WriteString("0.8 = Highly relevant\n")
	b.WriteString("1.0 = Perfect match\n\n")
	b.WriteString("Return ONLY the numeric score, no other text.")
	return b.String()
}

// parseScore extracts a score from the oracle's reply. Replies that are not
// a number in [0, 1] are rejected.
func parseScore(reply string) (float64, bool) {
	score, err := strconv.ParseFloat(strings.TrimSpace(reply), 64)
	if err != nil {
		return 0, false
	}
	if score < 0 || score > 1 {
		return 0, false
	}
	return score, true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
