// Package reader turns chapter text into sentences and finds the sentences
// that use a selected word.
package reader

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const terminators = ".!?。！？"

// SplitSentences splits a paragraph after every terminal delimiter. The
// delimiter stays with its sentence; pieces are trimmed and blanks dropped.
func SplitSentences(paragraph string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for _, r := range paragraph {
		current.WriteRune(r)
		if strings.ContainsRune(terminators, r) {
			flush()
		}
	}
	flush()
	return sentences
}

// ChunkParagraphs splits chapter text on blank lines.
func ChunkParagraphs(text string) []string {
	var out []string
	for _, chunk := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		if c := strings.TrimSpace(chunk); c != "" {
			out = append(out, c)
		}
	}
	return out
}

const (
	leadBoundary  = `(?:^|[^\p{L}\p{N}_])`
	trailBoundary = `(?:[^\p{L}\p{N}_]|$)`
)

// wordPattern compiles a case-insensitive whole-word pattern for word. A
// multi-word selection matches as a literal phrase. Boundaries are Unicode
// aware and only apply on a side that ends in a letter or digit, so "café"
// and "C++" match as written.
func wordPattern(word string) (*regexp.Regexp, bool) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, false
	}
	fields := strings.Fields(word)
	for i, f := range fields {
		fields[i] = regexp.QuoteMeta(f)
	}
	expr := strings.Join(fields, `\s+`)
	first, _ := utf8.DecodeRuneInString(word)
	last, _ := utf8.DecodeLastRuneInString(word)
	if isWordRune(first) {
		expr = leadBoundary + expr
	}
	if isWordRune(last) {
		expr += trailBoundary
	}
	re, err := regexp.Compile(`(?i)` + expr)
	if err != nil {
		return nil, false
	}
	return re, true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// FindMatchingSentences returns every sentence of paragraphs, in order,
// containing word as a whole word regardless of case. Duplicates are kept.
func FindMatchingSentences(paragraphs []string, word string) []string {
	re, ok := wordPattern(word)
	if !ok {
		return nil
	}
	var out []string
	for _, p := range paragraphs {
		for _, s := range SplitSentences(p) {
			if re.MatchString(s) {
				out = append(out, s)
			}
		}
	}
	return out
}
