// Package practice grades spelling attempts for saved words.
package practice

import (
	"strconv"
	"strings"

	"github.com/antzucaro/matchr"
)

// Messages shown for an attempt.
const (
	MessageCorrect   = "Correct!"
	MessageIncorrect = "Incorrect, try again."
)

// Result describes one graded attempt.
type Result struct {
	Correct bool   `json:"correct"`
	Attempt string `json:"attempt"`
	Message string `json:"message"`
	// Distance is the Levenshtein edit distance between attempt and word.
	Distance int `json:"distance"`
	// Similarity is the Jaro-Winkler similarity in [0,1].
	Similarity float64 `json:"similarity"`
	// SoundsAlike is set when the Double Metaphone codes of attempt and word
	// share a key.
	SoundsAlike bool `json:"sounds_alike"`
	// Hint is empty for a correct attempt.
	Hint string `json:"hint,omitempty"`
}

// CheckSpelling grades attempt against word. The attempt is correct when its
// trimmed form equals word ignoring case.
func CheckSpelling(attempt, word string) Result {
	attempt = strings.TrimSpace(attempt)
	word = strings.TrimSpace(word)
	if attempt != "" && strings.EqualFold(attempt, word) {
		return Result{Correct: true, Attempt: attempt, Message: MessageCorrect, Similarity: 1, SoundsAlike: true}
	}

	a, w := strings.ToLower(attempt), strings.ToLower(word)
	r := Result{
		Attempt:  attempt,
		Message:  MessageIncorrect,
		Distance: matchr.Levenshtein(a, w),
	}
	if a != "" && w != "" {
		r.Similarity = matchr.JaroWinkler(a, w, false)
		r.SoundsAlike = soundsAlike(a, w)
	}
	r.Hint = hint(r, word)
	return r
}

func soundsAlike(a, b string) bool {
	ap, as := matchr.DoubleMetaphone(a)
	bp, bs := matchr.DoubleMetaphone(b)
	for _, x := range []string{ap, as} {
		if x == "" {
			continue
		}
		if x == bp || x == bs {
			return true
		}
	}
	return false
}

func hint(r Result, word string) string {
	runes := []rune(word)
	switch {
	case r.Attempt == "":
		return "The word has " + strconv.Itoa(len(runes)) + " letters."
	case r.Distance == 1:
		return "One letter off."
	case r.SoundsAlike:
		return "Sounds right, check the spelling."
	case len(runes) > 0:
		return "Starts with \"" + string(runes[0]) + "\"."
	}
	return ""
}
