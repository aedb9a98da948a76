package cleaner

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// detectableLanguages are the candidates for undeclared page languages.
var detectableLanguages = []lingua.Language{
	lingua.English, lingua.German, lingua.French, lingua.Spanish,
	lingua.Portuguese, lingua.Italian, lingua.Dutch, lingua.Polish,
	lingua.Russian, lingua.Japanese, lingua.Chinese, lingua.Korean,
}

// minDetectRunes is the shortest text handed to the detector.
const minDetectRunes = 20

func newLanguageDetector() lingua.LanguageDetector {
	return lingua.NewLanguageDetectorBuilder().
		FromLanguages(detectableLanguages...).
		WithMinimumRelativeDistance(0.1).
		Build()
}

// detectLanguage returns the lower-case ISO 639-1 code of text, or "" when
// the text is too short or ambiguous.
func (c *Cleaner) detectLanguage(text string) string {
	if len([]rune(text)) < minDetectRunes {
		return ""
	}
	lang, ok := c.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
