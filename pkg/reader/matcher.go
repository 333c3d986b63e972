package reader

import (
	"strings"
	"sync"
)

// Matcher picks a sentence matching strategy by source language. Japanese
// goes through the morphological analyzer; everything else uses word
// boundaries.
type Matcher struct {
	once     sync.Once
	analyzer *Analyzer
	err      error
}

// NewMatcher returns a Matcher whose analyzer is loaded on first Japanese use.
func NewMatcher() *Matcher { return &Matcher{} }

func (m *Matcher) japanese() (*Analyzer, error) {
	m.once.Do(func() {
		m.analyzer, m.err = NewAnalyzer()
	})
	return m.analyzer, m.err
}

// Find returns the sentences of paragraphs that use word.
func (m *Matcher) Find(paragraphs []string, word, language string) ([]string, error) {
	if isJapanese(language) {
		a, err := m.japanese()
		if err != nil {
			return nil, err
		}
		return a.FindMatchingSentences(paragraphs, word), nil
	}
	return FindMatchingSentences(paragraphs, word), nil
}

func isJapanese(language string) bool {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "ja", "jp", "jpn", "japanese":
		return true
	}
	return false
}
