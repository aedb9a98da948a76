package geo

// MaxSuggestions caps the number of suggestions returned for a page.
const MaxSuggestions = 5

// ruleInput is what every suggestion rule inspects.
type ruleInput struct {
	structure Structure
	signals   SignalSet
}

// rule appends its suggestion when applies reports true.
type rule struct {
	applies    func(in ruleInput) bool
	suggestion Suggestion
}

// rules are evaluated in order; the order is the ranking.
var rules = []rule{
	{
		applies: func(in ruleInput) bool { return in.structure.Tables == 0 },
		suggestion: Suggestion{
			Title:          "Add a Comparison Table",
			Description:    "AI systems extract data from tables 3x more effectively. Add a table comparing top options.",
			Priority:       PriorityHigh,
			EstimatedBoost: 15,
		},
	},
	{
		applies: func(in ruleInput) bool { return in.signals.AnswerNugget < 50 },
		suggestion: Suggestion{
			Title:          "Add a Quick Answer Section",
			Description:    "Place a 40-80 word direct answer at the top of your content. AI systems prioritize this.",
			Priority:       PriorityHigh,
			EstimatedBoost: 20,
		},
	},
	{
		applies: func(in ruleInput) bool { return in.structure.Schemas == 0 },
		suggestion: Suggestion{
			Title:          "Add Schema Markup",
			Description:    "Add FAQ or Product schema. This makes your content machine-readable.",
			Priority:       PriorityMedium,
			EstimatedBoost: 15,
		},
	},
	{
		applies: func(in ruleInput) bool { return in.structure.Lists < 2 },
		suggestion: Suggestion{
			Title:          "Use Lists for Structure",
			Description:    "Break key points into bullet or numbered lists. AI crawlers love structured data.",
			Priority:       PriorityMedium,
			EstimatedBoost: 10,
		},
	},
	{
		applies: func(in ruleInput) bool { return in.signals.Sentiment < 60 },
		suggestion: Suggestion{
			Title:          "Use Neutral Language",
			Description:    "Reduce marketing words like 'best', 'amazing', 'revolutionary'. Use facts instead.",
			Priority:       PriorityHigh,
			EstimatedBoost: 12,
		},
	},
}

// GenerateSuggestions runs the rule table against the page structure and its
// signals and returns at most MaxSuggestions entries in rule order.
func GenerateSuggestions(html string, signals SignalSet) []Suggestion {
	return suggestFor(ruleInput{structure: CountStructure(html), signals: signals})
}

func suggestFor(in ruleInput) []Suggestion {
	out := make([]Suggestion, 0, len(rules))
	for _, r := range rules {
		if r.applies(in) {
			out = append(out, r.suggestion)
		}
	}
	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}
