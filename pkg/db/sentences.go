package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/japaniel/wordbook/pkg/apperrors"
	"gorm.io/gorm"
)

// AddSampleSentence attaches a sentence to an existing vocabulary entry.
func (s *Store) AddSampleSentence(ctx context.Context, sentence SampleSentence) (SampleSentence, error) {
	sentence.ID = 0
	sentence.Sentence = strings.TrimSpace(sentence.Sentence)
	sentence.Resource = strings.TrimSpace(sentence.Resource)
	if sentence.Sentence == "" {
		return SampleSentence{}, apperrors.Validation("sentence must be non-empty")
	}
	if sentence.VocabularyID <= 0 {
		return SampleSentence{}, apperrors.Validation("vocabulary id must be positive")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Vocabulary{}).Where("vocabulary_id = ?", sentence.VocabularyID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return notFound("vocabulary", sentence.VocabularyID)
		}
		if err := tx.Create(&sentence).Error; err != nil {
			return fmt.Errorf("insert sample sentence: %w", err)
		}
		return nil
	})
	if err != nil {
		return SampleSentence{}, err
	}
	s.hub.publish(Change{Kind: SampleSentenceAdded, VocabularyID: sentence.VocabularyID, SentenceID: sentence.ID})
	return sentence, nil
}

// DeleteSampleSentence removes a single sentence.
func (s *Store) DeleteSampleSentence(ctx context.Context, id int64) error {
	var sentence SampleSentence
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("sentence_id = ?", id).Limit(1).Find(&sentence)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound("sample sentence", id)
		}
		return tx.Delete(&SampleSentence{}, "sentence_id = ?", id).Error
	})
	if err != nil {
		return err
	}
	s.hub.publish(Change{Kind: SampleSentenceDeleted, VocabularyID: sentence.VocabularyID, SentenceID: id})
	return nil
}

// ListSampleSentences returns the sentences of one vocabulary entry.
func (s *Store) ListSampleSentences(ctx context.Context, vocabularyID int64) ([]SampleSentence, error) {
	var out []SampleSentence
	err := s.db.WithContext(ctx).
		Where("vocabulary_id = ?", vocabularyID).
		Order("sentence_id").
		Find(&out).Error
	return out, err
}

// DeleteSampleSentences removes every sentence of one vocabulary entry and
// reports how many rows went away.
func (s *Store) DeleteSampleSentences(ctx context.Context, vocabularyID int64) (int64, error) {
	res := s.db.WithContext(ctx).Where("vocabulary_id = ?", vocabularyID).Delete(&SampleSentence{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		s.hub.publish(Change{Kind: SampleSentenceDeleted, VocabularyID: vocabularyID})
	}
	return res.RowsAffected, nil
}

// CountSampleSentences reports how many sentences reference vocabularyID.
func (s *Store) CountSampleSentences(ctx context.Context, vocabularyID int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&SampleSentence{}).Where("vocabulary_id = ?", vocabularyID).Count(&count).Error
	return count, err
}
