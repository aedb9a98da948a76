package geo

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Structure counts the machine-readable elements of a document.
type Structure struct {
	Tables   int
	Lists    int // ul + ol
	Schemas  int // JSON-LD script blocks
	Headings int // h1-h3
}

// CountStructure parses html and counts its structural elements. Unparsable
// or empty input yields a zero Structure.
func CountStructure(html string) Structure {
	if html == "" {
		return Structure{}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Structure{}
	}
	return Structure{
		Tables:   doc.Find("table").Length(),
		Lists:    doc.Find("ul, ol").Length(),
		Schemas:  doc.Find(`script[type="application/ld+json"]`).Length(),
		Headings: doc.Find("h1, h2, h3").Length(),
	}
}

// Score converts the counts into the extractability sub-score.
func (s Structure) Score() int {
	score := min(s.Tables*20, 40) +
		min(s.Lists*10, 30) +
		min(s.Schemas*30, 30) +
		min(s.Headings*3, 20)
	return clamp(score, 0, 100)
}

// ExtractabilityScore rewards tables, lists, schema markup and a heading
// hierarchy.
func ExtractabilityScore(html string) int {
	return CountStructure(html).Score()
}
