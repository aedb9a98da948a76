package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// textSelector picks the elements whose text feeds the answer-nugget signal.
const textSelector = "p, h1, h2, h3, li"

// ExtractText concatenates the text of every paragraph, h1-h3 heading and
// list item in document order, each followed by a single space. Unparsable
// input yields "".
func ExtractText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	var b strings.Builder
	doc.Find(textSelector).Each(func(_ int, s *goquery.Selection) {
		b.WriteString(s.Text())
		b.WriteByte(' ')
	})
	return b.String()
}
