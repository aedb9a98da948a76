package geo

import "math"

// Signal weights. Extractability is weighted highest because structure is the
// lever a site owner controls most directly.
const (
	weightAnswerNugget   = 0.25
	weightExtractability = 0.30
	weightAuthority      = 0.25
	weightSentiment      = 0.20
)

// CompositeScore combines the four sub-scores into the 0-100 GEO score.
// Exact halves round to even.
func CompositeScore(s SignalSet) int {
	weighted := float64(s.AnswerNugget)*weightAnswerNugget +
		float64(s.Extractability)*weightExtractability +
		float64(s.Authority)*weightAuthority +
		float64(s.Sentiment)*weightSentiment
	return clamp(int(math.RoundToEven(weighted)), 0, 100)
}
