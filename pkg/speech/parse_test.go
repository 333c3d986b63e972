package speech

import (
	"bytes"
	"strings"
	"testing"

	"github.com/japaniel/wordbook/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

const englishSentence = `<?xml version="1.0" encoding="utf-8"?>
<xml_result>
  <read_sentence lan="en" type="study" version="7,0,0,1024">
    <rec_paper>
      <read_chapter beg_pos="0" content="the cat sat" end_pos="120" except_info="28676" is_rejected="true" total_score="72.5" word_count="3">
        <sentence beg_pos="0" content="the cat sat" end_pos="120" index="0" total_score="72.5" word_count="3">
          <word beg_pos="0" content="sil" dp_message="0" end_pos="10" index="0" total_score="0"/>
          <word beg_pos="10" content="cat" dp_message="0" end_pos="60" global_index="1" index="1" total_score="88">
            <syll beg_pos="10" content="k ae t" end_pos="60">
              <phone beg_pos="10" content="k" dp_message="0" end_pos="20"/>
              <phone beg_pos="20" content="ae" dp_message="128" end_pos="40"/>
              <phone beg_pos="40" content="t" dp_message="0" end_pos="60"/>
            </syll>
          </word>
          <word beg_pos="60" content="sat" dp_message="16" end_pos="120" global_index="2" index="2" total_score="40.25"/>
        </sentence>
      </read_chapter>
    </rec_paper>
  </read_sentence>
</xml_result>`

const chineseWord = `<?xml version="1.0" encoding="utf-8"?>
<xml_result>
  <read_word lan="cn" type="study" version="7,0,0,1024">
    <rec_paper>
      <read_word beg_pos="0" content="你好" end_pos="150" time_len="150" total_score="91.2">
        <sentence beg_pos="0" content="你好" end_pos="150" time_len="150">
          <word beg_pos="0" content="你好" end_pos="150" symbol="ni3hao3" time_len="150">
            <syll beg_pos="0" content="sil" end_pos="20" symbol="sil" time_len="20"/>
            <syll beg_pos="20" content="你" dp_message="0" end_pos="80" symbol="ni3" time_len="60">
              <phone beg_pos="20" content="n" dp_message="0" end_pos="40" time_len="20"/>
              <phone beg_pos="40" content="i" dp_message="0" end_pos="80" time_len="40"/>
            </syll>
          </word>
        </sentence>
      </read_word>
    </rec_paper>
  </read_word>
</xml_result>`

func TestParseEnglishSentence(t *testing.T) {
	r, err := ParseString(englishSentence)
	require.NoError(t, err)

	assert.Equal(t, "en", r.Language)
	assert.Equal(t, CategorySentence, r.Category)
	assert.Equal(t, "the cat sat", r.Content)
	assert.InDelta(t, 72.5, r.TotalScore, 1e-9)
	assert.True(t, r.IsRejected)
	assert.Equal(t, "28676", r.ExceptInfo)

	require.Len(t, r.Sentences, 1)
	words := r.Sentences[0].Words
	require.Len(t, words, 3)
	assert.Equal(t, "cat", words[1].Content)
	require.Len(t, words[1].Sylls, 1)
	require.Len(t, words[1].Sylls[0].Phones, 3)
	assert.Equal(t, 128, words[1].Sylls[0].Phones[1].DPMessage)
	assert.Equal(t, 16, words[2].DPMessage)
}

func TestParseChineseWord(t *testing.T) {
	r, err := ParseString(chineseWord)
	require.NoError(t, err)
	assert.Equal(t, "cn", r.Language)
	assert.Equal(t, CategoryWord, r.Category)
	assert.Equal(t, 150, r.TimeLen)
	assert.InDelta(t, 91.2, r.TotalScore, 1e-9)
	require.Len(t, r.Sentences, 1)
	require.Len(t, r.Sentences[0].Words[0].Sylls, 2)
	assert.Equal(t, "ni3", r.Sentences[0].Words[0].Sylls[1].Symbol)
}

func TestParseGBKDocument(t *testing.T) {
	doc := strings.Replace(chineseWord, `encoding="utf-8"`, `encoding="gb2312"`, 1)
	encoded, err := simplifiedchinese.GBK.NewEncoder().String(doc)
	require.NoError(t, err)

	r, err := Parse(bytes.NewReader([]byte(encoded)))
	require.NoError(t, err)
	assert.Equal(t, "你好", r.Content)
}

func TestParseRejectsBadDocuments(t *testing.T) {
	for name, doc := range map[string]string{
		"malformed": `<xml_result><read_word lan="en">`,
		"empty":     `<xml_result></xml_result>`,
		"charset":   `<?xml version="1.0" encoding="ebcdic"?><xml_result/>`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseString(doc)
			require.Error(t, err)
			kind, ok := apperrors.KindOf(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.KindValidation, kind)
		})
	}
	_, err := ParseString(`<xml_result></xml_result>`)
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestDPMessageAndContent(t *testing.T) {
	assert.Equal(t, "Normal", DPMessage(0))
	assert.Equal(t, "Omitted", DPMessage(16))
	assert.Equal(t, "Inserted", DPMessage(32))
	assert.Equal(t, "Repeated", DPMessage(64))
	assert.Equal(t, "Replaced", DPMessage(128))
	assert.Equal(t, "Unknown(3)", DPMessage(3))

	assert.Equal(t, "Silence", Content("sil"))
	assert.Equal(t, "Silence", Content("silv"))
	assert.Equal(t, "Noise", Content("fil"))
	assert.Equal(t, "cat", Content("cat"))
}

func TestSyllStdSymbol(t *testing.T) {
	assert.Equal(t, "kæt", Syll{Content: "k ae t"}.StdSymbol())
	assert.Equal(t, "θ", Phone{Content: "th"}.StdSymbol())
	assert.Equal(t, "q", Phone{Content: "q"}.StdSymbol())
}
