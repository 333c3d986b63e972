package db

import (
	"fmt"
	"strings"
	"time"
)

// Vocabulary is a saved word with its translation and language pair.
type Vocabulary struct {
	ID           int64     `gorm:"column:vocabulary_id;primaryKey;autoIncrement" json:"id"`
	SourceBookID *int64    `gorm:"column:source_book_id" json:"source_book_id,omitempty"`
	Word         string    `gorm:"column:vocabulary;not null" json:"word"`
	SourceLang   string    `gorm:"column:source_language;not null" json:"source_language"`
	TargetLang   string    `gorm:"column:target_language;not null" json:"target_language"`
	Translation  string    `gorm:"column:translation;not null;default:''" json:"translation"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Vocabulary) TableName() string { return "vocabulary" }

// Formatted renders the entry as "Word: <word>, Translation: <translation>".
func (v Vocabulary) Formatted() string {
	return fmt.Sprintf("Word: %s, Translation: %s", v.Word, v.Translation)
}

// SampleSentence is a reader-selected example sentence for a vocabulary entry.
type SampleSentence struct {
	ID           int64     `gorm:"column:sentence_id;primaryKey;autoIncrement" json:"id"`
	Sentence     string    `gorm:"column:sentence;not null" json:"sentence"`
	Resource     string    `gorm:"column:resource;not null" json:"resource"`
	VocabularyID int64     `gorm:"column:vocabulary_id;not null;index" json:"vocabulary_id"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (SampleSentence) TableName() string { return "sample_sentence" }

// NormalizeWord is the canonical stored form of a word: trimmed and lowercased.
func NormalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
