package geo

// PageSnapshot is the page content captured once per audit.
type PageSnapshot struct {
	// RawHTML is the page markup as fetched.
	RawHTML string

	// Text is the visible text of headings, paragraphs and list items,
	// space-joined in document order.
	Text string
}

// SignalSet holds the four GEO sub-scores, each in [0,100].
type SignalSet struct {
	AnswerNugget   int `json:"answer_nugget"`
	Extractability int `json:"extractability"`
	Authority      int `json:"authority"`
	Sentiment      int `json:"sentiment"`
}

// Priority ranks a suggestion.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Suggestion is one actionable improvement for a page.
type Suggestion struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Priority       Priority `json:"priority"`
	EstimatedBoost int      `json:"estimatedBoost"`
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
