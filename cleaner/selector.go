package cleaner

import (
	"bytes"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// ApplyCSSSelector returns the concatenated outer HTML of every element in
// rawHTML matching selector. When nothing matches, rawHTML is returned
// unchanged.
func ApplyCSSSelector(rawHTML, selector string) (string, error) {
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		return "", err
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", err
	}

	matches := cascadia.QueryAll(doc, sel)
	if len(matches) == 0 {
		return rawHTML, nil
	}

	var buf bytes.Buffer
	for _, node := range matches {
		if err := html.Render(&buf, node); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
