package reader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer()
	if err != nil {
		t.Fatalf("Failed to create analyzer: %v", err)
	}
	return a
}

func TestAnalyzeBaseForm(t *testing.T) {
	a := newTestAnalyzer(t)
	tokens := a.Analyze("東京に行った。")
	require.NotEmpty(t, tokens)

	found := false
	for _, tok := range tokens {
		if tok.Surface == "行っ" {
			found = true
			assert.Equal(t, "行く", tok.BaseForm)
			assert.Equal(t, "動詞", tok.PrimaryPOS)
		}
	}
	assert.True(t, found, "expected token 行っ")
}

func TestPrimaryPOSMatchesFeatures(t *testing.T) {
	a := newTestAnalyzer(t)
	for _, tok := range a.Analyze("猫が好きです。") {
		if len(tok.PartsOfSpeech) > 0 {
			assert.Equal(t, tok.PartsOfSpeech[0], tok.PrimaryPOS)
		}
	}
}

func TestAnalyzeDocument(t *testing.T) {
	a := newTestAnalyzer(t)
	sentences := a.AnalyzeDocument("猫が好きです。犬も好き！\n本当？")
	require.Len(t, sentences, 3)
	for _, s := range sentences {
		assert.NotEmpty(t, s.Tokens, "sentence %q", s.Text)
	}
}

func TestAnalyzerFindMatchingSentences(t *testing.T) {
	a := newTestAnalyzer(t)
	paragraphs := []string{"東京に行った。大阪にいる。", "猫が好きです。犬も好き。"}

	assert.Equal(t, []string{"東京に行った。"}, a.FindMatchingSentences(paragraphs, "行く"))
	assert.Equal(t, []string{"猫が好きです。"}, a.FindMatchingSentences(paragraphs, "猫"))
	assert.Nil(t, a.FindMatchingSentences(paragraphs, " "))
}

func TestMatcherPicksStrategy(t *testing.T) {
	m := NewMatcher()

	got, err := m.Find([]string{"The cat sat. The category was odd!"}, "cat", "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"The cat sat."}, got)

	got, err = m.Find([]string{"東京に行った。大阪にいる。"}, "行く", "ja")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, strings.HasPrefix(got[0], "東京"))
}
