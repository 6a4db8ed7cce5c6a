package scout

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"eventscout/internal/config"
	"eventscout/internal/model"
	"eventscout/internal/storage"
)

type fakeDiscoverer struct {
	events []model.Event
}

func (f *fakeDiscoverer) Discover(_ context.Context, _ []string, _ []model.Platform) []model.Event {
	return f.events
}

type fakeRanker struct {
	scores map[string]float64
}

func (f *fakeRanker) Rank(_ context.Context, events []model.Event) []model.RankedEvent {
	var ranked []model.RankedEvent
	for _, ev := range events {
		score, ok := f.scores[ev.SourceURL]
		if !ok {
			continue
		}
		ranked = append(ranked, model.RankedEvent{Event: ev, RelevanceScore: score})
	}
	return ranked
}

type panicRanker struct{}

func (panicRanker) Rank(_ context.Context, _ []model.Event) []model.RankedEvent {
	panic("ranker exploded")
}

type fakeRegistrar struct{}

func (fakeRegistrar) Register(_ context.Context, ranked []model.RankedEvent) []model.RegistrationResult {
	var results []model.RegistrationResult
	for _, re := range ranked {
		if re.RelevanceScore >= 0.8 {
			results = append(results, model.RegistrationResult{
				Event:            re,
				Success:          true,
				ConfirmationData: map[string]any{"status": "confirmed"},
			})
		}
	}
	return results
}

type fakeNotifier struct {
	digests       int
	confirmations int
}

func (f *fakeNotifier) SendDigest(_ context.Context, _ []model.RankedEvent) bool {
	f.digests++
	return true
}

func (f *fakeNotifier) SendConfirmations(results []model.RegistrationResult) {
	f.confirmations += len(results)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testStore(t *testing.T) storage.Storage {
	t.Helper()
	store, err := storage.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testConfig() *config.Config {
	return &config.Config{
		Cities:    []string{"Osaka"},
		Platforms: []model.Platform{model.PlatformConnpass},
	}
}

func testEvents() []model.Event {
	return []model.Event{
		{
			Title:                "AI Startup Meetup",
			Date:                 time.Date(2026, 9, 10, 19, 0, 0, 0, time.UTC),
			City:                 "Osaka",
			SourceURL:            "https://connpass.com/event/1/",
			Platform:             model.PlatformConnpass,
			Price:                "Free",
			RegistrationRequired: true,
		},
		{
			Title:     "Flower Arrangement",
			Date:      time.Date(2026, 9, 11, 10, 0, 0, 0, time.UTC),
			City:      "Osaka",
			SourceURL: "https://connpass.com/event/2/",
			Platform:  model.PlatformConnpass,
			Price:     "¥500",
		},
	}
}

func TestRunFullPipeline(t *testing.T) {
	store := testStore(t)
	notifier := &fakeNotifier{}
	s := New(
		testConfig(),
		&fakeDiscoverer{events: testEvents()},
		&fakeRanker{scores: map[string]float64{"https://connpass.com/event/1/": 0.9}},
		fakeRegistrar{},
		notifier,
		store,
		nil,
		testLogger(),
	)

	summary, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if summary.Discovered != 2 {
		t.Errorf("discovered = %d, want 2", summary.Discovered)
	}
	if summary.Saved != 2 {
		t.Errorf("saved = %d, want 2", summary.Saved)
	}
	if summary.Relevant != 1 {
		t.Errorf("relevant = %d, want 1", summary.Relevant)
	}
	if summary.Registered != 1 {
		t.Errorf("registered = %d, want 1", summary.Registered)
	}
	if !summary.DigestSent {
		t.Error("digest should be sent")
	}
	if summary.RunID == "" {
		t.Error("summary should carry a run ID")
	}
	if notifier.digests != 1 || notifier.confirmations != 1 {
		t.Errorf("notifier calls digests=%d confirmations=%d, want 1/1", notifier.digests, notifier.confirmations)
	}

	// The ranked event's stored row is annotated and marked registered.
	stored, err := store.GetEventBySourceURL(context.Background(), "https://connpass.com/event/1/")
	if err != nil {
		t.Fatalf("get stored event: %v", err)
	}
	if stored == nil {
		t.Fatal("ranked event should be persisted")
	}
}

func TestRunSecondInvocationDeduplicates(t *testing.T) {
	store := testStore(t)
	s := New(
		testConfig(),
		&fakeDiscoverer{events: testEvents()},
		&fakeRanker{scores: map[string]float64{}},
		fakeRegistrar{},
		&fakeNotifier{},
		store,
		nil,
		testLogger(),
	)

	first, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if first.Saved != 2 || second.Saved != 2 {
		t.Errorf("saved counts = %d/%d, want 2/2 (dedup returns existing keys)", first.Saved, second.Saved)
	}

	ev1, err := store.GetEventBySourceURL(context.Background(), "https://connpass.com/event/1/")
	if err != nil || ev1 == nil {
		t.Fatalf("event missing after reruns: %v", err)
	}
}

func TestRunNoEvents(t *testing.T) {
	s := New(
		testConfig(),
		&fakeDiscoverer{},
		&fakeRanker{},
		fakeRegistrar{},
		&fakeNotifier{},
		testStore(t),
		nil,
		testLogger(),
	)

	summary, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Discovered != 0 || summary.Relevant != 0 || summary.Registered != 0 {
		t.Errorf("empty run summary should be zeroed: %+v", summary)
	}
}

func TestRunRecoversPanic(t *testing.T) {
	s := New(
		testConfig(),
		&fakeDiscoverer{events: testEvents()},
		panicRanker{},
		fakeRegistrar{},
		&fakeNotifier{},
		testStore(t),
		nil,
		testLogger(),
	)

	summary, err := s.Run(context.Background())
	if err == nil {
		t.Fatal("panicking component should surface as an error")
	}
	if summary != nil {
		t.Errorf("failed run should not produce a summary, got %+v", summary)
	}
}
