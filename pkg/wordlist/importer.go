package wordlist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/japaniel/wordbook/pkg/db"
	"github.com/japaniel/wordbook/pkg/ingest"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// BatchTranslator fills in missing translations during an import.
// translate.Client satisfies it.
type BatchTranslator interface {
	TranslateAll(ctx context.Context, texts []string, to string, limit int) ([]string, error)
}

// ImporterOptions configures an Importer. Zero values use English to Chinese,
// batches of 50 and no translation.
type ImporterOptions struct {
	SourceLang    string
	TargetLang    string
	BatchSize     int
	FlushInterval time.Duration
	Translator    BatchTranslator
	// Concurrency bounds in-flight translation requests.
	Concurrency int
}

// Importer restores word lists into the store in batched transactions.
type Importer struct {
	store *db.Store
	opts  ImporterOptions
}

func NewImporter(store *db.Store, opts ImporterOptions) *Importer {
	if opts.SourceLang == "" {
		opts.SourceLang = "en"
	}
	if opts.TargetLang == "" {
		opts.TargetLang = "zh"
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	return &Importer{store: store, opts: opts}
}

type entryKey struct {
	word, src, tar string
}

// merge normalizes entries and folds duplicates together: the first
// non-empty translation wins and sentences are concatenated. Blank words are
// dropped. Order of first appearance is kept.
func (im *Importer) merge(entries []Entry) []Entry {
	index := make(map[entryKey]int, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		e.Word = db.NormalizeWord(e.Word)
		if e.Word == "" {
			continue
		}
		e.SourceLang = strings.TrimSpace(e.SourceLang)
		if e.SourceLang == "" {
			e.SourceLang = im.opts.SourceLang
		}
		e.TargetLang = strings.TrimSpace(e.TargetLang)
		if e.TargetLang == "" {
			e.TargetLang = im.opts.TargetLang
		}
		e.Translation = strings.TrimSpace(e.Translation)

		k := entryKey{e.Word, e.SourceLang, e.TargetLang}
		i, seen := index[k]
		if !seen {
			index[k] = len(out)
			out = append(out, e)
			continue
		}
		if out[i].Translation == "" {
			out[i].Translation = e.Translation
		}
		if out[i].SourceBookID == nil {
			out[i].SourceBookID = e.SourceBookID
		}
		out[i].Sentences = append(out[i].Sentences, e.Sentences...)
	}
	return out
}

// translateMissing fills empty translations, one TranslateAll call per
// target language. Words that still fail keep an empty translation.
func (im *Importer) translateMissing(ctx context.Context, entries []Entry) error {
	if im.opts.Translator == nil {
		return nil
	}
	pending := make(map[string][]int)
	for i, e := range entries {
		if e.Translation == "" {
			pending[e.TargetLang] = append(pending[e.TargetLang], i)
		}
	}
	for to, idx := range pending {
		texts := make([]string, len(idx))
		for j, i := range idx {
			texts[j] = entries[i].Word
		}
		results, err := im.opts.Translator.TranslateAll(ctx, texts, to, im.opts.Concurrency)
		if err != nil {
			return fmt.Errorf("translate %d words to %s: %w", len(texts), to, err)
		}
		for j, i := range idx {
			entries[i].Translation = results[j]
		}
		log.Debug().Str("to", to).Int("words", len(texts)).Msg("translated missing entries")
	}
	return nil
}

// Import writes entries to the store and returns how many distinct words
// were written. Sentences already attached to a word are not duplicated.
// Nothing is announced on the change feed unless every batch commits.
func (im *Importer) Import(ctx context.Context, entries []Entry) (int, error) {
	merged := im.merge(entries)
	if len(merged) == 0 {
		return 0, nil
	}
	if err := im.translateMissing(ctx, merged); err != nil {
		return 0, err
	}

	ids := make([]int64, len(merged))
	bw := ingest.NewBatchWriter(im.store.GormDB(), im.opts.BatchSize, im.opts.FlushInterval)
	for i, e := range merged {
		err := bw.Submit(func(ctx context.Context, tx *gorm.DB) error {
			v, err := db.UpsertVocabulary(tx, db.Vocabulary{
				Word:         e.Word,
				SourceLang:   e.SourceLang,
				TargetLang:   e.TargetLang,
				Translation:  e.Translation,
				SourceBookID: e.SourceBookID,
			})
			if err != nil {
				return fmt.Errorf("import %q: %w", e.Word, err)
			}
			ids[i] = v.ID
			return addSentences(tx, v.ID, e.Sentences)
		})
		if err != nil {
			bw.Close()
			return 0, err
		}
		if err := ctx.Err(); err != nil {
			bw.Close()
			return 0, err
		}
	}
	if err := bw.Close(); err != nil {
		return 0, err
	}

	for _, id := range ids {
		im.store.Publish(db.Change{Kind: db.VocabularySaved, VocabularyID: id})
	}
	log.Info().Int("entries", len(entries)).Int("words", len(merged)).Msg("word list imported")
	return len(merged), nil
}

func addSentences(tx *gorm.DB, vocabularyID int64, sentences []SentenceEntry) error {
	for _, s := range sentences {
		text := strings.TrimSpace(s.Sentence)
		if text == "" {
			continue
		}
		var count int64
		err := tx.Model(&db.SampleSentence{}).
			Where("vocabulary_id = ? AND sentence = ?", vocabularyID, text).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		row := db.SampleSentence{Sentence: text, Resource: strings.TrimSpace(s.Resource), VocabularyID: vocabularyID}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("insert sentence for %d: %w", vocabularyID, err)
		}
	}
	return nil
}
