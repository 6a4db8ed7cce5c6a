// Package scout orchestrates one full pipeline run: discover events, persist
// them, rank by relevance, auto-register for the eligible ones, and notify.
package scout

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"eventscout/internal/config"
	"eventscout/internal/model"
	"eventscout/internal/storage"
)

// Discoverer finds events across the configured platforms and cities.
type Discoverer interface {
	Discover(ctx context.Context, cities []string, platforms []model.Platform) []model.Event
}

// Ranker scores and filters discovered events.
type Ranker interface {
	Rank(ctx context.Context, events []model.Event) []model.RankedEvent
}

// Registrar auto-registers for eligible ranked events.
type Registrar interface {
	Register(ctx context.Context, ranked []model.RankedEvent) []model.RegistrationResult
}

// Notifier dispatches digests and registration confirmations.
type Notifier interface {
	SendDigest(ctx context.Context, ranked []model.RankedEvent) bool
	SendConfirmations(results []model.RegistrationResult)
}

// Scout wires the pipeline components together.
type Scout struct {
	cfg        *config.Config
	discoverer Discoverer
	ranker     Ranker
	registrar  Registrar
	notifier   Notifier
	store      storage.Storage
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Scout from its components.
func New(cfg *config.Config, d Discoverer, r Ranker, reg Registrar, n Notifier, store storage.Storage, client *http.Client, log *slog.Logger) *Scout {
	return &Scout{
		cfg:        cfg,
		discoverer: d,
		ranker:     r,
		registrar:  reg,
		notifier:   n,
		store:      store,
		httpClient: client,
		log:        log,
	}
}

// Run executes the five-phase pipeline once. Component-level failures are
// absorbed by the components themselves; anything unexpected that escapes
// them aborts the run with a logged stack trace.
func (s *Scout) Run(ctx context.Context) (summary *model.RunSummary, err error) {
	start := time.Now()
	runID := uuid.NewString()
	log := s.log.With("run_id", runID)

	defer func() {
		if p := recover(); p != nil {
			log.Error("run panicked", "panic", p, "stack", string(debug.Stack()))
			summary = nil
			err = fmt.Errorf("run panicked: %v", p)
		}
	}()

	log.Info("starting scout run")

	// Phase 1: discovery. The HTTP client is scoped to this phase.
	events := s.discoverer.Discover(ctx, s.cfg.Cities, s.cfg.Platforms)
	if s.httpClient != nil {
		s.httpClient.CloseIdleConnections()
	}
	if len(events) == 0 {
		log.Warn("no events discovered")
		return &model.RunSummary{RunID: runID, StartedAt: start, Duration: time.Since(start)}, nil
	}

	// Phase 2: persist discovered events, deduplicating by source URL.
	saved := s.saveEvents(ctx, events, log)
	log.Info("events saved", "count", saved)

	// Phase 3: rank by relevance and annotate the stored rows.
	ranked := s.ranker.Rank(ctx, events)
	for _, re := range ranked {
		if re.Event.ID == 0 {
			continue
		}
		if err := s.store.UpdateRanking(ctx, re.Event.ID, re.RelevanceScore, re.MatchedKeywords); err != nil {
			log.Error("update ranking", "title", re.Event.Title, "error", err)
		}
	}
	if len(ranked) == 0 {
		log.Warn("no relevant events after ranking")
		return &model.RunSummary{
			RunID:      runID,
			StartedAt:  start,
			Duration:   time.Since(start),
			Discovered: len(events),
			Saved:      saved,
		}, nil
	}

	// Phase 4: auto-register and persist the outcomes.
	results := s.registrar.Register(ctx, ranked)
	successful := s.saveRegistrations(ctx, results, log)

	// Phase 5: notify.
	digestSent := s.notifier.SendDigest(ctx, ranked)
	if len(successful) > 0 {
		s.notifier.SendConfirmations(successful)
	}

	summary = &model.RunSummary{
		RunID:      runID,
		StartedAt:  start,
		Duration:   time.Since(start),
		Discovered: len(events),
		Saved:      saved,
		Relevant:   len(ranked),
		Registered: len(successful),
		DigestSent: digestSent,
	}
	log.Info("scout run complete",
		"discovered", summary.Discovered,
		"saved", summary.Saved,
		"relevant", summary.Relevant,
		"registered", summary.Registered,
		"digest_sent", summary.DigestSent,
		"duration", summary.Duration,
	)
	return summary, nil
}

// saveEvents persists each discovered event. A single event's save failure
// is logged and the event is dropped from the stored corpus; the rest of the
// batch proceeds. Event IDs are populated in place for later phases.
func (s *Scout) saveEvents(ctx context.Context, events []model.Event, log *slog.Logger) int {
	saved := 0
	for i := range events {
		id, created, err := s.store.SaveEvent(ctx, &events[i])
		if err != nil {
			log.Error("save event", "title", events[i].Title, "error", err)
			continue
		}
		if created {
			log.Info("saved event", "id", id, "title", events[i].Title)
		} else {
			log.Info("event already exists", "id", id, "title", events[i].Title)
		}
		saved++
	}
	return saved
}

// saveRegistrations persists successful registrations and marks the
// corresponding event rows. Returns the successful results.
func (s *Scout) saveRegistrations(ctx context.Context, results []model.RegistrationResult, log *slog.Logger) []model.RegistrationResult {
	var successful []model.RegistrationResult
	for _, result := range results {
		if !result.Success {
			continue
		}
		successful = append(successful, result)

		reg := storage.Registration{
			EventID:          result.Event.Event.ID,
			Status:           "confirmed",
			ConfirmationData: result.ConfirmationData,
			QRCodeURL:        result.QRCodeURL,
		}
		if _, err := s.store.SaveRegistration(ctx, &reg); err != nil {
			log.Error("save registration", "title", result.Event.Event.Title, "error", err)
		}
		if result.Event.Event.ID != 0 {
			if err := s.store.MarkRegistered(ctx, result.Event.Event.ID, result.ConfirmationData); err != nil {
				log.Error("mark registered", "title", result.Event.Event.Title, "error", err)
			}
		}
	}
	return successful
}
