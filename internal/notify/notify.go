// Package notify formats and dispatches event digests and registration
// confirmations to the configured channels.
package notify

import (
	"context"
	"log/slog"

	"eventscout/internal/config"
	"eventscout/internal/model"
)

// digestTopN is how many ranked events a digest includes.
const digestTopN = 10

// Notifier dispatches digests and confirmations. Channels that are not
// configured are skipped silently; a configured channel's failure is logged
// and never affects the other channel.
type Notifier struct {
	telegram *TelegramChannel
	email    *EmailChannel
	log      *slog.Logger
	topN     int
}

// New creates a Notifier with whichever channels the config enables.
func New(cfg *config.Config, log *slog.Logger) *Notifier {
	n := &Notifier{log: log, topN: digestTopN}

	if cfg.TelegramConfigured() {
		ch, err := NewTelegramChannel(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			log.Warn("telegram channel initialization failed", "error", err)
		} else {
			n.telegram = ch
			log.Info("telegram channel enabled", "chat_id", cfg.TelegramChatID)
		}
	} else {
		log.Info("telegram not configured, channel disabled")
	}

	if cfg.EmailConfigured() {
		n.email = NewEmailChannel(cfg.SMTPServer, cfg.SMTPPort, cfg.EmailUsername, cfg.EmailPassword, cfg.EmailTo)
		log.Info("email channel enabled", "to", cfg.EmailTo)
	} else {
		log.Info("email not configured, channel disabled")
	}

	return n
}

// SendDigest sends a top-N digest of the ranked events to every configured
// channel. It returns false only when a configured channel failed and none
// succeeded; with no channels configured there is nothing to fail.
func (n *Notifier) SendDigest(ctx context.Context, ranked []model.RankedEvent) bool {
	digest := BuildDigest(ranked, n.topN)

	attempted, succeeded := 0, 0

	if n.telegram != nil {
		attempted++
		if err := n.telegram.Send(FormatTelegramDigest(digest)); err != nil {
			n.log.Error("telegram digest failed", "error", err)
		} else {
			succeeded++
		}
	}
	if n.email != nil {
		attempted++
		html, err := RenderDigestHTML(digest)
		if err != nil {
			n.log.Error("render digest html", "error", err)
		} else if err := n.email.Send(ctx, "Event Scout - Weekly Event Digest", html); err != nil {
			n.log.Error("email digest failed", "error", err)
		} else {
			succeeded++
		}
	}

	ok := attempted == 0 || succeeded > 0
	n.log.Info("digest dispatched", "events", len(digest), "channels", attempted, "delivered", succeeded)
	return ok
}

// SendConfirmations sends a confirmation message for each successful
// registration. Channel failures are logged per message and absorbed.
func (n *Notifier) SendConfirmations(results []model.RegistrationResult) {
	sent := 0
	for _, result := range results {
		if !result.Success {
			continue
		}
		msg := FormatConfirmation(result)
		if n.telegram != nil {
			if err := n.telegram.Send(msg); err != nil {
				n.log.Error("confirmation send failed", "title", result.Event.Event.Title, "error", err)
				continue
			}
		}
		n.log.Info("registration confirmed", "title", result.Event.Event.Title)
		sent++
	}
	if sent == 0 {
		n.log.Info("no successful registrations to confirm")
	}
}
