// Package ranking scores discovered events and keeps the relevant ones.
package ranking

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"

	"eventscout/internal/model"
)

// Score weighting and thresholds.
const (
	keywordWeight  = 0.4
	semanticWeight = 0.3
	locationWeight = 0.2
	baseScore      = 0.1

	// minRelevance is the inclusion threshold for ranked output.
	minRelevance = 0.6

	// neutralSemantic replaces the oracle's score when it fails.
	neutralSemantic = 0.5

	// perKeywordScore is the keyword-match contribution per hit, capped at 1.
	perKeywordScore = 0.2

	// offTargetLocation is the location score for cities outside the target set.
	offTargetLocation = 0.3
)

// Oracle estimates semantic relevance of an event in [0, 1].
type Oracle interface {
	Score(ctx context.Context, ev model.Event) (float64, error)
}

// Ranker computes relevance scores for discovered events.
type Ranker struct {
	oracle       Oracle
	keywords     []string
	targetCities map[string]bool
	log          *slog.Logger
}

// New creates a Ranker scoring against the given keywords and target cities.
func New(oracle Oracle, keywords, targetCities []string, log *slog.Logger) *Ranker {
	cities := make(map[string]bool, len(targetCities))
	for _, c := range targetCities {
		cities[c] = true
	}
	return &Ranker{
		oracle:       oracle,
		keywords:     keywords,
		targetCities: cities,
		log:          log,
	}
}

// Rank scores every event, keeps those at or above the inclusion threshold,
// and returns them sorted by descending relevance. Oracle failures for a
// single event degrade to a neutral semantic score instead of aborting the
// batch.
func (r *Ranker) Rank(ctx context.Context, events []model.Event) []model.RankedEvent {
	var ranked []model.RankedEvent
	for _, ev := range events {
		re := r.score(ctx, ev)
		if re.RelevanceScore < minRelevance {
			continue
		}
		r.log.Info("event ranked", "title", ev.Title, "score", re.RelevanceScore)
		ranked = append(ranked, re)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})

	r.log.Info("ranking complete", "scored", len(events), "relevant", len(ranked))
	return ranked
}

func (r *Ranker) score(ctx context.Context, ev model.Event) model.RankedEvent {
	matched := r.matchKeywords(ev)
	keywordScore := math.Min(1.0, float64(len(matched))*perKeywordScore)

	semanticScore, err := r.oracle.Score(ctx, ev)
	if err != nil {
		r.log.Error("oracle failed, using neutral score", "title", ev.Title, "error", err)
		semanticScore = neutralSemantic
	}

	locationScore := offTargetLocation
	if r.targetCities[ev.City] {
		locationScore = 1.0
	}

	final := keywordScore*keywordWeight +
		semanticScore*semanticWeight +
		locationScore*locationWeight +
		baseScore
	final = math.Max(0, math.Min(1, final))

	return model.RankedEvent{
		Event:           ev,
		RelevanceScore:  math.Round(final*100) / 100,
		MatchedKeywords: matched,
		Confidence:      semanticScore,
	}
}

// matchKeywords finds case-insensitive substring matches of the configured
// keywords in the event's title and description.
func (r *Ranker) matchKeywords(ev model.Event) []string {
	text := strings.ToLower(ev.Title + " " + ev.Description)
	var matched []string
	for _, kw := range r.keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}
