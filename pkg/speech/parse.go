package speech

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/japaniel/wordbook/pkg/apperrors"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// ErrNoResult is returned when a document holds no evaluation element.
var ErrNoResult = errors.New("no evaluation result in document")

func invalid(err error) error {
	return apperrors.New(apperrors.KindValidation, "Evaluation result is not a valid ISE document.", err)
}

// Parse reads an ISE XML result. The first read_* element sets the category
// and language; the read_* element inside rec_paper carries the totals.
func Parse(r io.Reader) (*Result, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var (
		result         *Result
		recPaperPassed bool
		sentence       *Sentence
		word           *Word
		syll           *Syll
		phone          *Phone
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, invalid(fmt.Errorf("parse evaluation xml: %w", err))
		}

		switch t := tok.(type) {
		case xml.StartElement:
			attrs := attrMap(t.Attr)
			switch name := t.Name.Local; name {
			case CategorySyllable, CategoryWord, CategorySentence, CategoryChapter:
				if !recPaperPassed {
					if result == nil {
						result = &Result{Category: name}
						if name == CategoryChapter {
							result.Category = CategorySentence
						}
					}
					if lan := attrs["lan"]; lan != "" {
						result.Language = lan
					} else if result.Language == "" {
						result.Language = "cn"
					}
				} else if result != nil {
					readTotals(result, attrs)
				}
			case "rec_paper":
				recPaperPassed = true
			case "sentence":
				sentence = &Sentence{
					BegPos:     atoi(attrs["beg_pos"]),
					EndPos:     atoi(attrs["end_pos"]),
					Content:    attrs["content"],
					TotalScore: atof(attrs["total_score"]),
					TimeLen:    atoi(attrs["time_len"]),
					Index:      atoi(attrs["index"]),
					WordCount:  atoi(attrs["word_count"]),
				}
			case "word":
				word = &Word{
					BegPos:      atoi(attrs["beg_pos"]),
					EndPos:      atoi(attrs["end_pos"]),
					Content:     attrs["content"],
					DPMessage:   atoi(attrs["dp_message"]),
					GlobalIndex: atoi(attrs["global_index"]),
					Index:       atoi(attrs["index"]),
					Symbol:      attrs["symbol"],
					TimeLen:     atoi(attrs["time_len"]),
					TotalScore:  atof(attrs["total_score"]),
				}
			case "syll":
				syll = &Syll{
					BegPos:    atoi(attrs["beg_pos"]),
					EndPos:    atoi(attrs["end_pos"]),
					Content:   attrs["content"],
					Symbol:    attrs["symbol"],
					DPMessage: atoi(attrs["dp_message"]),
					TimeLen:   atoi(attrs["time_len"]),
				}
			case "phone":
				phone = &Phone{
					BegPos:    atoi(attrs["beg_pos"]),
					EndPos:    atoi(attrs["end_pos"]),
					Content:   attrs["content"],
					DPMessage: atoi(attrs["dp_message"]),
					TimeLen:   atoi(attrs["time_len"]),
				}
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "phone":
				if syll != nil && phone != nil {
					syll.Phones = append(syll.Phones, *phone)
				}
				phone = nil
			case "syll":
				if word != nil && syll != nil {
					word.Sylls = append(word.Sylls, *syll)
				}
				syll = nil
			case "word":
				if sentence != nil && word != nil {
					sentence.Words = append(sentence.Words, *word)
				}
				word = nil
			case "sentence":
				if result != nil && sentence != nil {
					result.Sentences = append(result.Sentences, *sentence)
				}
				sentence = nil
			case CategorySyllable, CategoryWord, CategorySentence, CategoryChapter:
				recPaperPassed = false
			}
		}
	}

	if result == nil {
		return nil, invalid(ErrNoResult)
	}
	return result, nil
}

// charsetReader decodes the Chinese charsets the service may declare.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "gbk", "gb2312", "cp936":
		return simplifiedchinese.GBK.NewDecoder().Reader(input), nil
	case "gb18030":
		return simplifiedchinese.GB18030.NewDecoder().Reader(input), nil
	case "utf-8", "utf8":
		return input, nil
	}
	return nil, fmt.Errorf("unsupported charset %q", charset)
}

// ParseString is Parse over a string.
func ParseString(s string) (*Result, error) { return Parse(strings.NewReader(s)) }

func readTotals(r *Result, attrs map[string]string) {
	r.BegPos = atoi(attrs["beg_pos"])
	r.EndPos = atoi(attrs["end_pos"])
	r.Content = attrs["content"]
	r.TotalScore = atof(attrs["total_score"])
	r.TimeLen = atoi(attrs["time_len"])
	r.ExceptInfo = attrs["except_info"]
	r.IsRejected = attrs["is_rejected"] == "true"
}

func attrMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	return m
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}
