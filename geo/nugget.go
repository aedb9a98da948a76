package geo

import "strings"

// leadWords is the size of the opening window inspected for a direct answer.
const leadWords = 100

// marketingWords is the promotional lexicon penalised in the lead.
var marketingWords = []string{"best", "amazing", "incredible", "revolutionary", "game-changer", "must-have"}

// AnswerNuggetScore measures whether the text opens with a concise, factual,
// non-promotional answer.
//
// Points:
//   - lead of 40-80 words: +50; 20-39 words: +30
//   - otherwise, full text longer than 100 words: +20
//   - two or more sentence terminators in the lead: +30; exactly one: +15
//   - more than two marketing-word occurrences in the lead: -20
//
// The lead is capped at 100 words, so the long-page bonus is measured on the
// whole text.
func AnswerNuggetScore(text string) int {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	leadLen := min(len(words), leadWords)
	lead := strings.Join(words[:leadLen], " ")

	score := 0
	switch {
	case leadLen >= 40 && leadLen <= 80:
		score += 50
	case leadLen >= 20 && leadLen < 40:
		score += 30
	case len(words) > leadWords:
		score += 20
	}

	switch terminators := strings.Count(lead, ".") + strings.Count(lead, "!") + strings.Count(lead, "?"); {
	case terminators >= 2:
		score += 30
	case terminators == 1:
		score += 15
	}

	if marketingCount(lead) > 2 {
		score -= 20
	}

	return clamp(score, 0, 100)
}

// marketingCount returns how many distinct marketing words appear in s,
// ignoring case.
func marketingCount(s string) int {
	lower := strings.ToLower(s)
	n := 0
	for _, w := range marketingWords {
		if strings.Contains(lower, w) {
			n++
		}
	}
	return n
}
