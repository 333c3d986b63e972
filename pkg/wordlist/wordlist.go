// Package wordlist backs up and restores the word book as JSON.
package wordlist

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/japaniel/wordbook/pkg/db"
)

// Entry is one saved word with its sample sentences.
type Entry struct {
	Word         string          `json:"word"`
	SourceLang   string          `json:"source_language"`
	TargetLang   string          `json:"target_language"`
	Translation  string          `json:"translation"`
	SourceBookID *int64          `json:"source_book_id,omitempty"`
	Sentences    []SentenceEntry `json:"sentences,omitempty"`
}

type SentenceEntry struct {
	Sentence string `json:"sentence"`
	Resource string `json:"resource"`
}

// Document is the on-disk form: {"words": [...]}.
type Document struct {
	Words []Entry `json:"words"`
}

// Load reads a word list file. Both {"words": [...]} and a bare array are
// accepted.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var doc Document
	if err := json.NewDecoder(f).Decode(&doc); err == nil && len(doc.Words) > 0 {
		return doc.Words, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.NewDecoder(f).Decode(&entries); err != nil {
		return nil, fmt.Errorf("parse word list %s as object or array: %w", path, err)
	}
	return entries, nil
}

// Export writes every saved word and its sentences to w as a Document.
func Export(ctx context.Context, store *db.Store, w io.Writer) (int, error) {
	words, err := store.ListVocabulary(ctx)
	if err != nil {
		return 0, fmt.Errorf("list vocabulary: %w", err)
	}
	doc := Document{Words: make([]Entry, 0, len(words))}
	for _, v := range words {
		sentences, err := store.ListSampleSentences(ctx, v.ID)
		if err != nil {
			return 0, fmt.Errorf("list sentences of %d: %w", v.ID, err)
		}
		e := Entry{
			Word:         v.Word,
			SourceLang:   v.SourceLang,
			TargetLang:   v.TargetLang,
			Translation:  v.Translation,
			SourceBookID: v.SourceBookID,
		}
		for _, s := range sentences {
			e.Sentences = append(e.Sentences, SentenceEntry{Sentence: s.Sentence, Resource: s.Resource})
		}
		doc.Words = append(doc.Words, e)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return 0, fmt.Errorf("encode word list: %w", err)
	}
	return len(doc.Words), nil
}
