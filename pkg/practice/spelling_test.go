package practice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckSpellingCorrect(t *testing.T) {
	for _, attempt := range []string{"Hello", " hello ", "HELLO"} {
		r := CheckSpelling(attempt, "Hello")
		assert.True(t, r.Correct, "attempt %q", attempt)
		assert.Equal(t, MessageCorrect, r.Message)
		assert.Zero(t, r.Distance)
		assert.Empty(t, r.Hint)
	}
}

func TestCheckSpellingIncorrect(t *testing.T) {
	r := CheckSpelling("helo", "hello")
	assert.False(t, r.Correct)
	assert.Equal(t, MessageIncorrect, r.Message)
	assert.Equal(t, 1, r.Distance)
	assert.Equal(t, "One letter off.", r.Hint)
	assert.Greater(t, r.Similarity, 0.8)
}

func TestCheckSpellingSoundsAlike(t *testing.T) {
	r := CheckSpelling("nite", "night")
	assert.False(t, r.Correct)
	assert.True(t, r.SoundsAlike)
	assert.Equal(t, "Sounds right, check the spelling.", r.Hint)
}

func TestCheckSpellingEmptyAttempt(t *testing.T) {
	r := CheckSpelling("   ", "cat")
	assert.False(t, r.Correct)
	assert.Equal(t, 3, r.Distance)
	assert.Equal(t, "The word has 3 letters.", r.Hint)
}

func TestCheckSpellingUnrelated(t *testing.T) {
	r := CheckSpelling("zebra", "lantern")
	assert.False(t, r.Correct)
	assert.False(t, r.SoundsAlike)
	assert.Equal(t, `Starts with "l".`, r.Hint)
}
