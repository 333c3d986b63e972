package reader

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-shiori/go-readability"
)

var (
	// (?s) allows dot to match newlines
	// (?i) makes it case-insensitive
	reRT = regexp.MustCompile(`(?si)<rt\b[^>]*>.*?</rt>`)
	reRP = regexp.MustCompile(`(?si)<rp\b[^>]*>.*?</rp>`)
)

// SanitizeRuby removes ruby text (<rt>...</rt>) and ruby parentheses
// (<rp>...</rp>). Without this readability keeps the furigana inline and
// "漢字" comes out as "漢字かんじ".
func SanitizeRuby(content []byte) []byte {
	cleaned := reRT.ReplaceAll(content, []byte{})
	return reRP.ReplaceAll(cleaned, []byte{})
}

// Chapter is the readable text of one book chapter.
type Chapter struct {
	Title      string
	Paragraphs []string
}

// ExtractChapter pulls the title and paragraphs out of chapter (X)HTML.
func ExtractChapter(content []byte, pageURL string) (Chapter, error) {
	if pageURL == "" {
		pageURL = "http://localhost/chapter"
	}
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return Chapter{}, fmt.Errorf("parse chapter url: %w", err)
	}
	article, err := readability.FromReader(bytes.NewReader(SanitizeRuby(content)), parsedURL)
	if err != nil {
		return Chapter{}, fmt.Errorf("extract chapter: %w", err)
	}

	var paragraphs []string
	for _, line := range strings.Split(article.TextContent, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			paragraphs = append(paragraphs, l)
		}
	}
	return Chapter{Title: strings.TrimSpace(article.Title), Paragraphs: paragraphs}, nil
}
