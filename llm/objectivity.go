package llm

import (
	"context"
	"fmt"
)

// objectivityOptions keeps the reply short and mostly deterministic.
var objectivityOptions = CompletionOptions{Temperature: 0.3, MaxTokens: 10}

// ObjectivityOracle asks an LLM to rate a text from 1 (marketing/opinion) to
// 10 (neutral, fact-based). It satisfies geo.Oracle.
type ObjectivityOracle struct {
	client *Client
}

// NewObjectivityOracle wraps client as an objectivity oracle.
func NewObjectivityOracle(client *Client) *ObjectivityOracle {
	return &ObjectivityOracle{client: client}
}

// RateObjectivity returns the model's raw reply; parsing the rating is left
// to the caller.
func (o *ObjectivityOracle) RateObjectivity(ctx context.Context, text string) (string, error) {
	return o.client.Complete(ctx, buildObjectivityPrompt(text), objectivityOptions)
}

func buildObjectivityPrompt(text string) string {
	return fmt.Sprintf(`Rate this text for objectivity and factuality on a scale of 1-10.
1 = Pure marketing/opinion/biased
10 = Neutral, fact-based, objective

TEXT:
%s

Respond with ONLY a single number 1-10, no explanation.`, text)
}
