package speech

import (
	"strconv"
	"strings"
)

// FormatScore renders a score the way the practice screen shows it: always
// with a fractional part ("85.0", "3.42").
func FormatScore(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Score is the one-line summary sent back after an evaluation. A nil result
// scores zero.
func Score(r *Result) string {
	if r == nil {
		return "Score: " + FormatScore(0)
	}
	return "Score: " + FormatScore(r.TotalScore)
}

// Format renders the full report. Chinese results and syllable drills use
// the duration-based layout; everything else uses the English layout.
func (r *Result) Format() string {
	var b strings.Builder
	if r.Language == "cn" || r.Category == CategorySyllable {
		b.WriteString("[Overall Result]\n")
		b.WriteString("Evaluation Content: " + r.Content + "\n")
		b.WriteString("Reading Duration: " + strconv.Itoa(r.TimeLen) + "\n")
		b.WriteString("Total Score: " + FormatScore(r.TotalScore) + "\n\n")
		b.WriteString("[Reading Details]")
		b.WriteString(FormatDetailsCN(r.Sentences))
		return b.String()
	}

	if r.IsRejected {
		b.WriteString("Misreading detected, except_info: " + r.ExceptInfo + "\n\n")
	}
	b.WriteString("[Overall Result]\n")
	b.WriteString("Evaluation Content: " + r.Content + "\n")
	b.WriteString("Total Score: " + FormatScore(r.TotalScore) + "\n\n")
	b.WriteString("[Reading Details]")
	b.WriteString(FormatDetailsEN(r.Sentences))
	return b.String()
}

// FormatDetailsEN lists words with their pronunciation verdict, then
// syllables and phones in IPA. Silence and noise are skipped.
func FormatDetailsEN(sentences []Sentence) string {
	var b strings.Builder
	for _, sentence := range sentences {
		if isFiller(sentence.Content) {
			continue
		}
		for _, word := range sentence.Words {
			if isFiller(word.Content) {
				continue
			}
			b.WriteString("\nWord [" + Content(word.Content) + "] ")
			b.WriteString("Pronunciation: " + DPMessage(word.DPMessage))
			b.WriteString(" Score: " + FormatScore(word.TotalScore))
			for _, syll := range word.Sylls {
				b.WriteString("\n└Syllable [" + Content(syll.StdSymbol()) + "] ")
				for _, phone := range syll.Phones {
					b.WriteString("\n\t└Phone [" + Content(phone.StdSymbol()) + "] ")
					b.WriteString(" Pronunciation: " + DPMessage(phone.DPMessage))
				}
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// FormatDetailsCN lists words, syllables and phones with pinyin symbols and
// durations. Silence and noise syllables are skipped.
func FormatDetailsCN(sentences []Sentence) string {
	var b strings.Builder
	for _, sentence := range sentences {
		for _, word := range sentence.Words {
			b.WriteString("\nWord [" + Content(word.Content) + "] " + word.Symbol + " Duration: " + strconv.Itoa(word.TimeLen))
			if len(word.Sylls) == 0 {
				continue
			}
			for _, syll := range word.Sylls {
				if isFiller(syll.Content) {
					continue
				}
				b.WriteString("\n└Syllable [" + Content(syll.Content) + "] " + syll.Symbol + " Duration: " + strconv.Itoa(syll.TimeLen))
				for _, phone := range syll.Phones {
					b.WriteString("\n\t└Phone [" + Content(phone.Content) + "] Duration: " + strconv.Itoa(phone.TimeLen))
					b.WriteString(" Pronunciation: " + DPMessage(phone.DPMessage))
				}
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
