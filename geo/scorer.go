// Package geo implements the Generative Engine Optimization scoring engine:
// four signal extractors, the weighted composite score and the rule-based
// suggestion generator.
//
// Everything except the sentiment signal is a pure function of the page. The
// sentiment signal is delegated to an Oracle and falls back to a neutral
// value when the oracle is missing or fails, so scoring always completes.
package geo

import (
	"context"
	"time"
)

// Scorer computes signals, the composite score and suggestions for a page.
// It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	oracle        Oracle
	oracleTimeout time.Duration
}

// NewScorer creates a Scorer. oracle may be nil, in which case the sentiment
// signal is always neutral. A non-positive timeout selects
// DefaultOracleTimeout.
func NewScorer(oracle Oracle, oracleTimeout time.Duration) *Scorer {
	if oracleTimeout <= 0 {
		oracleTimeout = DefaultOracleTimeout
	}
	return &Scorer{oracle: oracle, oracleTimeout: oracleTimeout}
}

// Signals computes the four sub-scores for a page.
func (s *Scorer) Signals(ctx context.Context, page PageSnapshot) SignalSet {
	return SignalSet{
		AnswerNugget:   AnswerNuggetScore(page.Text),
		Extractability: ExtractabilityScore(page.RawHTML),
		Authority:      AuthorityScore(page.RawHTML),
		Sentiment:      s.SentimentScore(ctx, page.Text),
	}
}

// Score returns the composite GEO score together with the signals it was
// derived from.
func (s *Scorer) Score(ctx context.Context, page PageSnapshot) (int, SignalSet) {
	signals := s.Signals(ctx, page)
	return CompositeScore(signals), signals
}

// Suggest returns the ranked improvement suggestions for a scored page.
func (s *Scorer) Suggest(page PageSnapshot, signals SignalSet) []Suggestion {
	return GenerateSuggestions(page.RawHTML, signals)
}
