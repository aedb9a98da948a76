package geo

import (
	"fmt"
	"strings"
	"testing"
)

// words builds a text of n filler words, ending the words at the given
// 1-based positions with a period.
func words(n int, periodsAt ...int) string {
	stops := make(map[int]bool, len(periodsAt))
	for _, p := range periodsAt {
		stops[p] = true
	}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "alpha"
		if stops[i+1] {
			parts[i] += "."
		}
	}
	return strings.Join(parts, " ")
}

func TestAnswerNuggetScore(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"whitespace only", "  \n\t ", 0},
		{"50 words two sentences", words(50, 25, 50), 80},
		{"40 words lower bound", words(40), 50},
		{"80 words upper bound", words(80), 50},
		{"81 words", words(81), 0},
		{"30 words one sentence", words(30, 30), 45},
		{"20 words lower bound", words(20), 30},
		{"19 words", words(19), 0},
		{"10 words one sentence", words(10, 10), 15},
		// The lead is capped at 100 words, so the long-page bonus is taken
		// from the full text length.
		{"exactly 100 words gets no length points", words(100), 0},
		{"150 words long page bonus", words(150), 20},
		{"150 words with sentences", words(150, 10, 20, 30), 50},
		{"terminators after the lead are ignored", words(150, 120, 130), 20},
		{"mixed terminators", "Is it fast? Yes! It is.", 30},
		{
			"marketing penalty",
			"The best and most amazing, incredible tool. " + words(46, 46),
			60,
		},
		{
			"two marketing words are tolerated",
			"The best and most amazing tool. " + words(45, 45),
			80,
		},
		{
			"repeated marketing word counts once",
			"Best best BEST. " + words(47, 47),
			80,
		},
		{"penalty never goes below zero", "best amazing incredible revolutionary", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnswerNuggetScore(tt.text); got != tt.want {
				t.Errorf("AnswerNuggetScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExtractabilityScore(t *testing.T) {
	tests := []struct {
		name string
		html string
		want int
	}{
		{"empty", "", 0},
		{"plain paragraph", "<p>hello</p>", 0},
		{"two tables", "<table><tr><td>a</td></tr></table><table><tr><td>b</td></tr></table>", 40},
		{"tables cap at 40", strings.Repeat("<table></table>", 5), 40},
		{"one table", "<table></table>", 20},
		{"lists", "<ul><li>a</li></ul><ol><li>b</li></ol>", 20},
		{"lists cap at 30", strings.Repeat("<ul><li>x</li></ul>", 7), 30},
		{"schema", `<script type="application/ld+json">{}</script>`, 30},
		{"schemas cap at 30", strings.Repeat(`<script type="application/ld+json">{}</script>`, 3), 30},
		{"other script types ignored", `<script type="text/javascript">var a;</script>`, 0},
		{"headings", "<h1>a</h1><h2>b</h2><h3>c</h3><h4>d</h4>", 9},
		{"headings cap at 20", strings.Repeat("<h2>x</h2>", 10), 20},
		{
			"everything maxed clamps to 100",
			strings.Repeat("<table></table>", 2) +
				strings.Repeat("<ul></ul>", 3) +
				`<script type="application/ld+json">{}</script>` +
				strings.Repeat("<h2>x</h2>", 7),
			100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractabilityScore(tt.html); got != tt.want {
				t.Errorf("ExtractabilityScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountStructure(t *testing.T) {
	html := `<html><head><script type="application/ld+json">{}</script></head><body>
		<h1>Title</h1><h2>Sub</h2>
		<table><tr><td>1</td></tr></table>
		<ul><li>a</li></ul><ol><li>b</li></ol><ul><li>c</li></ul>
	</body></html>`

	got := CountStructure(html)
	want := Structure{Tables: 1, Lists: 3, Schemas: 1, Headings: 2}
	if got != want {
		t.Errorf("CountStructure() = %+v, want %+v", got, want)
	}
}

func TestAuthorityScore(t *testing.T) {
	link := func(href string) string { return fmt.Sprintf(`<a href="%s">x</a>`, href) }

	tests := []struct {
		name string
		html string
		want int
	}{
		{"empty", "", 0},
		{"no links", "<p>no links here</p>", 0},
		{"anchor without href is not a link", "<a name=\"top\">top</a>", 0},
		{"all wikipedia", link("https://en.wikipedia.org/wiki/Go") + link("https://de.wikipedia.org/wiki/Go"), 100},
		{"half authoritative", link("https://github.com/golang/go") + link("https://example.com"), 50},
		{"one of three floors", link("https://arxiv.org/abs/1") + link("https://a.com") + link("https://b.com"), 33},
		{"gov and edu substrings", link("https://www.nasa.gov/") + link("https://mit.edu/") + link("/about"), 66},
		{"substring match not host match", link("https://example.com/?ref=nytimes.com"), 100},
		{"relative links count toward total", link("/a") + link("/b") + link("/c") + link("https://www.bbc.com/news"), 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AuthorityScore(tt.html); got != tt.want {
				t.Errorf("AuthorityScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAuthorityScore_IntegerFloor(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 29; i++ {
		b.WriteString(`<a href="https://acm.org/x">x</a>`)
	}
	for i := 0; i < 71; i++ {
		b.WriteString(`<a href="https://example.com/x">x</a>`)
	}
	if got := AuthorityScore(b.String()); got != 29 {
		t.Errorf("AuthorityScore() = %d, want 29", got)
	}
}

func TestSubScoresStayInRange(t *testing.T) {
	inputs := []string{
		"",
		"<",
		"<html><body>" + strings.Repeat("<table><ul><li>best amazing incredible.</li></ul></table>", 50) + "</body></html>",
		strings.Repeat("revolutionary must-have game-changer! ", 200),
		strings.Repeat(`<a href="https://en.wikipedia.org">w</a>`, 300),
	}
	for i, in := range inputs {
		for name, got := range map[string]int{
			"nugget":         AnswerNuggetScore(in),
			"extractability": ExtractabilityScore(in),
			"authority":      AuthorityScore(in),
		} {
			if got < 0 || got > 100 {
				t.Errorf("input %d: %s = %d, out of [0,100]", i, name, got)
			}
		}
	}
}
