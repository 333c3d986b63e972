package reader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeRuby(t *testing.T) {
	in := []byte(`<p><ruby>漢字<rp>(</rp><rt>かんじ</rt><rp>)</rp></ruby>を読む</p>`)
	assert.Equal(t, `<p><ruby>漢字</ruby>を読む</p>`, string(SanitizeRuby(in)))

	upper := []byte(`<RUBY>猫<RT class="x">ねこ</RT></RUBY>`)
	assert.Equal(t, `<RUBY>猫</RUBY>`, string(SanitizeRuby(upper)))
}

func chapterHTML() string {
	para := strings.Repeat("The lighthouse keeper climbed the stairs every night before the storm arrived. ", 6)
	return `<!DOCTYPE html><html><head><title>Chapter One</title></head><body>
<div id="nav"><a href="/">Home</a></div>
<article>
<h1>Chapter One</h1>
<p>` + para + `</p>
<p>He read <ruby>漢字<rp>(</rp><rt>かんじ</rt><rp>)</rp></ruby> by candlelight. ` + para + `</p>
<p>` + para + `</p>
</article>
</body></html>`
}

func TestExtractChapter(t *testing.T) {
	chapter, err := ExtractChapter([]byte(chapterHTML()), "")
	require.NoError(t, err)

	assert.Contains(t, chapter.Title, "Chapter One")
	require.NotEmpty(t, chapter.Paragraphs)

	text := strings.Join(chapter.Paragraphs, "\n")
	assert.Contains(t, text, "漢字")
	assert.NotContains(t, text, "かんじ")

	matches := FindMatchingSentences(chapter.Paragraphs, "candlelight")
	require.NotEmpty(t, matches)
	assert.Contains(t, matches[0], "candlelight")
}

func TestExtractChapterBadURL(t *testing.T) {
	_, err := ExtractChapter([]byte("<p>x</p>"), "://bad")
	assert.Error(t, err)
}
