package speech

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	assert.Equal(t, "Score: 0.0", Score(nil))
	assert.Equal(t, "Score: 85.0", Score(&Result{TotalScore: 85}))
	assert.Equal(t, "Score: 3.42", Score(&Result{TotalScore: 3.42}))
}

func TestFormatEnglish(t *testing.T) {
	r, err := ParseString(englishSentence)
	require.NoError(t, err)

	want := "Misreading detected, except_info: 28676\n\n" +
		"[Overall Result]\n" +
		"Evaluation Content: the cat sat\n" +
		"Total Score: 72.5\n\n" +
		"[Reading Details]" +
		"\nWord [cat] Pronunciation: Normal Score: 88.0" +
		"\n└Syllable [kæt] " +
		"\n\t└Phone [k]  Pronunciation: Normal" +
		"\n\t└Phone [æ]  Pronunciation: Replaced" +
		"\n\t└Phone [t]  Pronunciation: Normal" +
		"\n" +
		"\nWord [sat] Pronunciation: Omitted Score: 40.25" +
		"\n"
	assert.Equal(t, want, r.Format())
}

func TestFormatChinese(t *testing.T) {
	r, err := ParseString(chineseWord)
	require.NoError(t, err)

	want := "[Overall Result]\n" +
		"Evaluation Content: 你好\n" +
		"Reading Duration: 150\n" +
		"Total Score: 91.2\n\n" +
		"[Reading Details]" +
		"\nWord [你好] ni3hao3 Duration: 150" +
		"\n└Syllable [你] ni3 Duration: 60" +
		"\n\t└Phone [n] Duration: 20 Pronunciation: Normal" +
		"\n\t└Phone [i] Duration: 40 Pronunciation: Normal" +
		"\n"
	assert.Equal(t, want, r.Format())
}
