package geo

import (
	"context"
	"log/slog"
	"time"
)

const (
	// NeutralSentiment is returned whenever the oracle cannot give a rating.
	NeutralSentiment = 50

	// maxOracleChars bounds the text sent to the oracle.
	maxOracleChars = 1000

	// DefaultOracleTimeout bounds a single oracle call.
	DefaultOracleTimeout = 15 * time.Second
)

// Oracle rates a text for objectivity. The reply is expected to contain a
// single digit from 1 (marketing/opinion) to 10 (neutral, fact-based).
type Oracle interface {
	RateObjectivity(ctx context.Context, text string) (string, error)
}

// OracleFunc adapts a plain function to the Oracle interface.
type OracleFunc func(ctx context.Context, text string) (string, error)

func (f OracleFunc) RateObjectivity(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// SentimentScore asks the oracle how objective text is and scales its 1-10
// rating to [10,100]. Empty text, a missing oracle, any oracle failure or a
// reply without a digit all yield NeutralSentiment.
func (s *Scorer) SentimentScore(ctx context.Context, text string) int {
	if text == "" || s.oracle == nil {
		return NeutralSentiment
	}

	ctx, cancel := context.WithTimeout(ctx, s.oracleTimeout)
	defer cancel()

	reply, err := s.oracle.RateObjectivity(ctx, truncateRunes(text, maxOracleChars))
	if err != nil {
		slog.Warn("objectivity oracle failed, using neutral sentiment", "error", err)
		return NeutralSentiment
	}
	return parseRating(reply)
}

// parseRating takes the first digit of reply, clamps it to [1,10] and scales
// it by ten.
func parseRating(reply string) int {
	for _, r := range reply {
		if r >= '0' && r <= '9' {
			return clamp(int(r-'0'), 1, 10) * 10
		}
	}
	return NeutralSentiment
}

// truncateRunes returns at most n characters of s.
func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
