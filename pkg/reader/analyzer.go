package reader

import (
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Token represents a single analyzed unit of text.
type Token struct {
	Surface       string   // The text as it appears (e.g. "行っ")
	BaseForm      string   // The dictionary form (e.g. "行く")
	Reading       string   // Katakana reading (e.g. "イッ")
	PartsOfSpeech []string // Kagome IPA feature list
	PrimaryPOS    string
}

// Sentence is a sentence together with its tokens.
type Sentence struct {
	Text   string
	Tokens []Token
}

// Analyzer segments Japanese text, which has no spaces to anchor word
// boundaries on.
type Analyzer struct {
	t *tokenizer.Tokenizer
}

// NewAnalyzer loads the IPA dictionary. It is slow; share the result.
func NewAnalyzer() (*Analyzer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Analyzer{t: t}, nil
}

// Analyze breaks text into tokens with readings and base forms.
func (a *Analyzer) Analyze(text string) []Token {
	var result []Token
	for _, token := range a.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY || strings.TrimSpace(token.Surface) == "" {
			continue
		}

		// IPA features: 0 POS, 1-3 sub POS, 4 conjugation type,
		// 5 conjugation form, 6 base form, 7 reading, 8 pronunciation.
		features := token.Features()

		base := token.Surface
		if len(features) > 6 && features[6] != "*" {
			base = features[6]
		}
		reading := ""
		if len(features) > 7 && features[7] != "*" {
			reading = features[7]
		}
		primaryPOS := ""
		if len(features) > 0 {
			primaryPOS = features[0]
		}

		result = append(result, Token{
			Surface:       token.Surface,
			BaseForm:      base,
			Reading:       reading,
			PartsOfSpeech: features,
			PrimaryPOS:    primaryPOS,
		})
	}
	return result
}

// AnalyzeDocument splits text into paragraphs and sentences the same way
// FindMatchingSentences does, and tokenizes each sentence.
func (a *Analyzer) AnalyzeDocument(text string) []Sentence {
	var result []Sentence
	for _, p := range ChunkParagraphs(text) {
		for _, s := range SplitSentences(p) {
			result = append(result, Sentence{Text: s, Tokens: a.Analyze(s)})
		}
	}
	return result
}

// FindMatchingSentences returns the sentences of paragraphs holding a token
// whose surface or base form equals word. When word itself spans several
// tokens the sentence matches if its token run contains the same sequence.
func (a *Analyzer) FindMatchingSentences(paragraphs []string, word string) []string {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil
	}
	needle := a.Analyze(word)

	var out []string
	for _, p := range paragraphs {
		for _, s := range a.AnalyzeDocument(p) {
			if containsTokens(s.Tokens, word, needle) {
				out = append(out, s.Text)
			}
		}
	}
	return out
}

func containsTokens(tokens []Token, word string, needle []Token) bool {
	for _, t := range tokens {
		if t.Surface == word || t.BaseForm == word {
			return true
		}
	}
	if len(needle) < 2 {
		return false
	}
	for i := 0; i+len(needle) <= len(tokens); i++ {
		match := true
		for j, n := range needle {
			if tokens[i+j].Surface != n.Surface {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
