package cleaner

import (
	"log/slog"
	nurl "net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// minContentLength is the shortest readability text accepted as the main
// content; anything shorter falls back to the whole document.
const minContentLength = 50

// ExtractContent runs the Mozilla Readability algorithm on rawHTML. The
// boolean reports whether readability succeeded; on failure the whole
// document is returned as the article so a preview is always produced.
func ExtractContent(rawHTML, sourceURL string) (readability.Article, bool) {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		slog.Warn("readability: invalid source URL, using whole document", "url", sourceURL, "error", err)
		return fallbackArticle(rawHTML), false
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Warn("readability: extraction failed, using whole document", "url", sourceURL, "error", err)
		return fallbackArticle(rawHTML), false
	}

	if len(strings.TrimSpace(article.TextContent)) < minContentLength {
		slog.Debug("readability: content too short, using whole document", "url", sourceURL, "length", len(article.TextContent))
		fb := fallbackArticle(rawHTML)
		fb.Title = article.Title
		return fb, false
	}
	return article, true
}

// fallbackArticle wraps the whole document, with its visible text, as an
// Article.
func fallbackArticle(rawHTML string) readability.Article {
	art := readability.Article{Content: rawHTML}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return art
	}
	doc.Find("script, style, noscript, template").Remove()
	art.Title = strings.TrimSpace(doc.Find("title").First().Text())
	art.TextContent = strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	return art
}
