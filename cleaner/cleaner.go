// Package cleaner turns fetched HTML into a readable preview: the main
// content located by readability, rendered as Markdown, with its language
// and token estimates.
package cleaner

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/pemistahl/lingua-go"
	"github.com/use-agent/geolens/models"
)

// Cleaner builds content previews. The Markdown converter and language
// detector are created once and shared; Cleaner is safe for concurrent use.
type Cleaner struct {
	mdConverter *converter.Converter
	detector    lingua.LanguageDetector
}

// NewCleaner creates a Cleaner with a pre-configured Markdown converter.
func NewCleaner() *Cleaner {
	return &Cleaner{
		mdConverter: newMarkdownConverter(),
		detector:    newLanguageDetector(),
	}
}

// Preview extracts the readable content of rawHTML. A non-empty selector
// first narrows the document to the matching elements.
func (c *Cleaner) Preview(rawHTML, sourceURL, selector string) (*models.ContentResponse, error) {
	originalTokens := EstimateTokens(rawHTML)

	if selector != "" {
		narrowed, err := ApplyCSSSelector(rawHTML, selector)
		if err != nil {
			return nil, models.NewAuditError(models.ErrCodeInvalidInput, "invalid CSS selector: "+selector, err)
		}
		rawHTML = narrowed
	}

	article, _ := ExtractContent(rawHTML, sourceURL)

	md, err := ToMarkdown(c.mdConverter, article.Content, sourceURL)
	if err != nil {
		return nil, models.NewAuditError(models.ErrCodeInternal, "markdown conversion failed", err)
	}

	text := strings.TrimSpace(article.TextContent)
	cleanedTokens := EstimateTokens(md)
	savings := 0.0
	if originalTokens > 0 {
		savings = float64(originalTokens-cleanedTokens) / float64(originalTokens) * 100
		savings = math.Round(savings*100) / 100
	}

	lang := article.Language
	if lang == "" {
		lang = c.detectLanguage(text)
	}

	return &models.ContentResponse{
		URL:      sourceURL,
		Title:    article.Title,
		Language: lang,
		Content:  text,
		Length:   utf8.RuneCountInString(text),
		Markdown: md,
		Tokens: models.TokenInfo{
			OriginalEstimate: originalTokens,
			CleanedEstimate:  cleanedTokens,
			SavingsPercent:   savings,
		},
	}, nil
}
