package geo

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// authorityDomains are matched as substrings of link targets, not as exact
// hosts.
var authorityDomains = []string{
	"wikipedia.org", ".gov", ".edu", "nytimes.com", "bbc.com",
	"nature.com", "science.org", "github.com", "stackoverflow.com",
	"arxiv.org", "ieee.org", "acm.org",
}

// AuthorityScore is the percentage of hyperlinks pointing at a recognised
// high-trust domain. A page without links scores 0.
func AuthorityScore(html string) int {
	if html == "" {
		return 0
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0
	}

	total, authoritative := 0, 0
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		total++
		if isAuthoritative(href) {
			authoritative++
		}
	})

	if total == 0 {
		return 0
	}
	return clamp(authoritative*100/total, 0, 100)
}

func isAuthoritative(href string) bool {
	for _, d := range authorityDomains {
		if strings.Contains(href, d) {
			return true
		}
	}
	return false
}
