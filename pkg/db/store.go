package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/japaniel/wordbook/pkg/apperrors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is matched with errors.Is for missing vocabulary or sentences.
var ErrNotFound = errors.New("not found")

func notFound(what string, id int64) error {
	return apperrors.NotFound(fmt.Errorf("%s %d: %w", what, id, ErrNotFound))
}

// SaveVocabulary stores v with its word normalized. Saving a word that already
// exists for the same language pair updates the existing row: a non-empty
// translation or book id replaces the stored one, an empty one keeps it.
// The stored row is returned.
func (s *Store) SaveVocabulary(ctx context.Context, v Vocabulary) (Vocabulary, error) {
	var out Vocabulary
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = UpsertVocabulary(tx, v)
		return err
	})
	if err != nil {
		return Vocabulary{}, err
	}
	s.hub.publish(Change{Kind: VocabularySaved, VocabularyID: out.ID})
	return out, nil
}

// UpsertVocabulary is the write behind SaveVocabulary for callers that
// already hold a transaction, such as batched imports. It publishes nothing.
func UpsertVocabulary(tx *gorm.DB, v Vocabulary) (Vocabulary, error) {
	v.ID = 0
	v.Word = NormalizeWord(v.Word)
	v.SourceLang = strings.TrimSpace(v.SourceLang)
	v.TargetLang = strings.TrimSpace(v.TargetLang)
	v.Translation = strings.TrimSpace(v.Translation)
	if v.Word == "" {
		return Vocabulary{}, apperrors.Validation("word must be non-empty")
	}
	if v.SourceLang == "" || v.TargetLang == "" {
		return Vocabulary{}, apperrors.Validation("source and target language must be non-empty")
	}

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "vocabulary"}, {Name: "source_language"}, {Name: "target_language"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"translation":    gorm.Expr("COALESCE(NULLIF(excluded.translation, ''), vocabulary.translation)"),
			"source_book_id": gorm.Expr("COALESCE(excluded.source_book_id, vocabulary.source_book_id)"),
		}),
	}).Create(&v).Error
	if err != nil {
		return Vocabulary{}, fmt.Errorf("upsert vocabulary: %w", err)
	}
	var out Vocabulary
	err = tx.Where("vocabulary = ? AND source_language = ? AND target_language = ?",
		v.Word, v.SourceLang, v.TargetLang).First(&out).Error
	return out, err
}

// GetVocabulary returns the entry with the given id.
func (s *Store) GetVocabulary(ctx context.Context, id int64) (Vocabulary, error) {
	var v Vocabulary
	err := s.db.WithContext(ctx).First(&v, "vocabulary_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Vocabulary{}, notFound("vocabulary", id)
	}
	if err != nil {
		return Vocabulary{}, err
	}
	return v, nil
}

// ListVocabulary returns every saved entry in insertion order.
func (s *Store) ListVocabulary(ctx context.Context) ([]Vocabulary, error) {
	var out []Vocabulary
	err := s.db.WithContext(ctx).Order("vocabulary_id").Find(&out).Error
	return out, err
}

// ListVocabularyByBook returns the entries saved while reading bookID.
func (s *Store) ListVocabularyByBook(ctx context.Context, bookID int64) ([]Vocabulary, error) {
	var out []Vocabulary
	err := s.db.WithContext(ctx).
		Where("source_book_id = ?", bookID).
		Order("vocabulary_id").
		Find(&out).Error
	return out, err
}

// ListVocabularyByLanguages returns the entries for one language pair.
func (s *Store) ListVocabularyByLanguages(ctx context.Context, srcLang, tarLang string) ([]Vocabulary, error) {
	var out []Vocabulary
	err := s.db.WithContext(ctx).
		Where("source_language = ? AND target_language = ?", srcLang, tarLang).
		Order("vocabulary_id").
		Find(&out).Error
	return out, err
}

// VocabularyIDByWord is the existence check: it reports the id of the first
// entry whose stored word equals the normalized word.
func (s *Store) VocabularyIDByWord(ctx context.Context, word string) (int64, bool, error) {
	normalized := NormalizeWord(word)
	if normalized == "" {
		return 0, false, nil
	}
	var v Vocabulary
	err := s.db.WithContext(ctx).
		Select("vocabulary_id").
		Where("vocabulary = ?", normalized).
		Order("vocabulary_id").
		Limit(1).
		Find(&v).Error
	if err != nil {
		return 0, false, err
	}
	if v.ID == 0 {
		return 0, false, nil
	}
	return v.ID, true, nil
}

// UpdateTranslation replaces the translation of an entry.
func (s *Store) UpdateTranslation(ctx context.Context, id int64, translation string) error {
	res := s.db.WithContext(ctx).
		Model(&Vocabulary{}).
		Where("vocabulary_id = ?", id).
		Update("translation", strings.TrimSpace(translation))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("vocabulary", id)
	}
	s.hub.publish(Change{Kind: VocabularyUpdated, VocabularyID: id})
	return nil
}

// DeleteVocabulary removes an entry and its sample sentences in one
// transaction. The sentences are deleted explicitly; the foreign key cascade
// covers rows written by other clients.
func (s *Store) DeleteVocabulary(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vocabulary_id = ?", id).Delete(&SampleSentence{}).Error; err != nil {
			return fmt.Errorf("delete sample sentences: %w", err)
		}
		res := tx.Where("vocabulary_id = ?", id).Delete(&Vocabulary{})
		if res.Error != nil {
			return fmt.Errorf("delete vocabulary: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound("vocabulary", id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.hub.publish(Change{Kind: VocabularyDeleted, VocabularyID: id})
	return nil
}
