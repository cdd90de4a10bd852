// Package extract turns fetched HTML into the structured content the
// analyzer works from: page metadata, top-level headings, and a bounded
// plain-text body. Parsing is best effort; malformed input degrades to
// empty fields, never an error.
package extract

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// PageMetadata describes a page independent of any analysis performed on it.
type PageMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Content is the extractor's output: metadata plus at most ten headings and
// at most 8000 characters of visible text.
type Content struct {
	Metadata PageMetadata
	Headings []string
	Text     string
}

const (
	maxHeadings    = 10
	maxHeadingLen  = 200
	maxContentLen  = 8000
	minMainContent = 100
)

// Elements whose text must never reach the output. Removed up front so
// nested text nodes cannot leak through any later selection.
const strippedElements = "script, style, noscript, iframe, svg"

// Candidate containers for the main content, in priority order. The longest
// text wins; order only breaks ties.
var contentSelectors = []string{
	"main",
	"article",
	`[role="main"]`,
	".content",
	"#content",
	".main",
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// FromHTML extracts metadata, headings, and body text from raw HTML.
func FromHTML(input []byte, sourceURL string) Content {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(input))
	if err != nil || doc == nil {
		return Content{Metadata: PageMetadata{URL: sourceURL}, Headings: []string{}}
	}

	doc.Find(strippedElements).Remove()

	return Content{
		Metadata: PageMetadata{
			Title:       findTitle(doc),
			Description: findDescription(doc),
			URL:         sourceURL,
		},
		Headings: findHeadings(doc),
		Text:     findMainText(doc),
	}
}

func findTitle(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
}

func findDescription(doc *goquery.Document) string {
	if d := strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", "")); d != "" {
		return d
	}
	return strings.TrimSpace(doc.Find(`meta[property="og:description"]`).AttrOr("content", ""))
}

func findHeadings(doc *goquery.Document) []string {
	headings := []string{}
	doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		if len(headings) >= maxHeadings {
			return
		}
		text := strings.TrimSpace(s.Text())
		if text == "" || utf8.RuneCountInString(text) >= maxHeadingLen {
			return
		}
		headings = append(headings, text)
	})
	return headings
}

// findMainText folds over the candidate selectors keeping the longest text
// seen, then falls back to the whole body when no candidate carries enough
// content to be useful.
func findMainText(doc *goquery.Document) string {
	var best string
	for _, sel := range contentSelectors {
		if text := doc.Find(sel).Text(); len(text) > len(best) {
			best = text
		}
	}
	if utf8.RuneCountInString(strings.TrimSpace(best)) < minMainContent {
		best = doc.Find("body").Text()
	}
	return truncate(normalizeWhitespace(best), maxContentLen)
}

func normalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// truncate cuts s to at most max characters, respecting rune boundaries.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
