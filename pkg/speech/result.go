// Package speech reads pronunciation evaluation results produced by the
// iFlytek ISE service and renders them as reports.
package speech

import (
	"strconv"
	"strings"
)

// Evaluation categories.
const (
	CategorySyllable = "read_syllable"
	CategoryWord     = "read_word"
	CategorySentence = "read_sentence"
	CategoryChapter  = "read_chapter"
)

// Result is the overall evaluation of one recording.
type Result struct {
	Language   string     `json:"language"`
	Category   string     `json:"category"`
	BegPos     int        `json:"beg_pos"`
	EndPos     int        `json:"end_pos"`
	Content    string     `json:"content"`
	TotalScore float64    `json:"total_score"`
	TimeLen    int        `json:"time_len"`
	ExceptInfo string     `json:"except_info,omitempty"`
	IsRejected bool       `json:"is_rejected"`
	Sentences  []Sentence `json:"sentences,omitempty"`
}

type Sentence struct {
	BegPos     int     `json:"beg_pos"`
	EndPos     int     `json:"end_pos"`
	Content    string  `json:"content"`
	TotalScore float64 `json:"total_score"`
	TimeLen    int     `json:"time_len"`
	Index      int     `json:"index"`
	WordCount  int     `json:"word_count"`
	Words      []Word  `json:"words,omitempty"`
}

type Word struct {
	BegPos      int     `json:"beg_pos"`
	EndPos      int     `json:"end_pos"`
	Content     string  `json:"content"`
	DPMessage   int     `json:"dp_message"`
	GlobalIndex int     `json:"global_index"`
	Index       int     `json:"index"`
	Symbol      string  `json:"symbol,omitempty"`
	TimeLen     int     `json:"time_len"`
	TotalScore  float64 `json:"total_score"`
	Sylls       []Syll  `json:"sylls,omitempty"`
}

type Syll struct {
	BegPos    int     `json:"beg_pos"`
	EndPos    int     `json:"end_pos"`
	Content   string  `json:"content"`
	Symbol    string  `json:"symbol,omitempty"`
	DPMessage int     `json:"dp_message"`
	TimeLen   int     `json:"time_len"`
	Phones    []Phone `json:"phones,omitempty"`
}

type Phone struct {
	BegPos    int    `json:"beg_pos"`
	EndPos    int    `json:"end_pos"`
	Content   string `json:"content"`
	DPMessage int    `json:"dp_message"`
	TimeLen   int    `json:"time_len"`
}

var dpMessages = map[int]string{
	0:   "Normal",
	16:  "Omitted",
	32:  "Inserted",
	64:  "Repeated",
	128: "Replaced",
}

// DPMessage names a dp_message code. Unknown codes render as "Unknown(<n>)".
func DPMessage(code int) string {
	if s, ok := dpMessages[code]; ok {
		return s
	}
	return "Unknown(" + strconv.Itoa(code) + ")"
}

// Content maps the silence and filler markers to readable names and leaves
// everything else alone.
func Content(content string) string {
	switch content {
	case "sil", "silv":
		return "Silence"
	case "fil":
		return "Noise"
	}
	return content
}

func isFiller(content string) bool {
	c := Content(content)
	return c == "Silence" || c == "Noise"
}

// phoneSymbols maps English phone codes to IPA.
var phoneSymbols = map[string]string{
	"aa": "ɑ:", "oo": "ɔ", "ae": "æ", "ah": "ʌ", "ao": "ɔ:", "aw": "aʊ",
	"ax": "ə", "ay": "aɪ", "eh": "e", "er": "ə:", "ey": "eɪ", "ih": "ɪ",
	"iy": "i:", "ow": "əʊ", "oy": "ɔɪ", "uh": "ʊ", "uw": "ʊ:", "ch": "tʃ",
	"dh": "ð", "hh": "h", "jh": "dʒ", "ng": "ŋ", "sh": "ʃ", "th": "θ",
	"zh": "ʒ", "y": "j", "d": "d", "k": "k", "l": "l", "m": "m", "n": "n",
	"b": "b", "f": "f", "g": "g", "p": "p", "r": "r", "s": "s", "t": "t",
	"v": "v", "w": "w", "z": "z", "ar": "eə", "ir": "iə", "ur": "ʊə",
	"tr": "tr", "dr": "dr", "ts": "ts", "dz": "dz",
}

// PhoneSymbol returns the IPA symbol for an English phone code.
func PhoneSymbol(content string) string {
	if s, ok := phoneSymbols[content]; ok {
		return s
	}
	return content
}

// StdSymbol is the IPA rendering of the phone.
func (p Phone) StdSymbol() string { return PhoneSymbol(p.Content) }

// StdSymbol joins the IPA symbols of the space separated phones in Content.
func (s Syll) StdSymbol() string {
	var b strings.Builder
	for _, code := range strings.Split(s.Content, " ") {
		b.WriteString(PhoneSymbol(code))
	}
	return b.String()
}
