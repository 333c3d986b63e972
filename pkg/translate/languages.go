package translate

import (
	"sort"
	"strings"
)

// Languages maps the API's language codes to English names. "auto" is only
// valid as a source language.
var Languages = map[string]string{
	"auto": "Auto detect",
	"zh":   "Chinese",
	"cht":  "Traditional Chinese",
	"yue":  "Cantonese",
	"wyw":  "Classical Chinese",
	"en":   "English",
	"jp":   "Japanese",
	"kor":  "Korean",
	"fra":  "French",
	"spa":  "Spanish",
	"th":   "Thai",
	"ara":  "Arabic",
	"ru":   "Russian",
	"pt":   "Portuguese",
	"de":   "German",
	"it":   "Italian",
	"el":   "Greek",
	"nl":   "Dutch",
	"pl":   "Polish",
	"bul":  "Bulgarian",
	"est":  "Estonian",
	"dan":  "Danish",
	"fin":  "Finnish",
	"cs":   "Czech",
	"rom":  "Romanian",
	"slo":  "Slovenian",
	"swe":  "Swedish",
	"hu":   "Hungarian",
	"vie":  "Vietnamese",
}

// IsSource reports whether code may be used as a source language.
func IsSource(code string) bool {
	_, ok := Languages[strings.TrimSpace(code)]
	return ok
}

// IsTarget reports whether code may be used as a target language.
func IsTarget(code string) bool {
	code = strings.TrimSpace(code)
	return code != "auto" && IsSource(code)
}

// Codes returns the known codes in sorted order.
func Codes() []string {
	out := make([]string, 0, len(Languages))
	for code := range Languages {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
