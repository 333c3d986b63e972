// Package wordbook ties the sentence matcher, the translation client and the
// vocabulary store into the operations a reader performs.
package wordbook

import (
	"context"
	"errors"
	"strings"

	"github.com/japaniel/wordbook/pkg/apperrors"
	"github.com/japaniel/wordbook/pkg/db"
	"github.com/japaniel/wordbook/pkg/ingest"
	"github.com/japaniel/wordbook/pkg/observe"
	"github.com/japaniel/wordbook/pkg/practice"
	"github.com/japaniel/wordbook/pkg/reader"
	"github.com/rs/zerolog/log"
)

// ErrTranslationDisabled is returned when no translator is configured.
var ErrTranslationDisabled = errors.New("translation is not configured")

// Translator is the part of translate.Client the service needs.
type Translator interface {
	Translate(ctx context.Context, text, to string) (string, error)
}

// Options configures a Service. Zero values fall back to English to Chinese,
// no translation, no background dispatch and no metrics.
type Options struct {
	SourceLang string
	TargetLang string
	Translator Translator
	Dispatcher *ingest.Dispatcher
	Matcher    *reader.Matcher
	Metrics    *observe.Metrics
}

// Service is the word book. It is safe for concurrent use.
type Service struct {
	store      *db.Store
	translator Translator
	dispatcher *ingest.Dispatcher
	matcher    *reader.Matcher
	metrics    *observe.Metrics
	sourceLang string
	targetLang string
}

// New returns a Service over store.
func New(store *db.Store, opts Options) *Service {
	s := &Service{
		store:      store,
		translator: opts.Translator,
		dispatcher: opts.Dispatcher,
		matcher:    opts.Matcher,
		metrics:    opts.Metrics,
		sourceLang: opts.SourceLang,
		targetLang: opts.TargetLang,
	}
	if s.sourceLang == "" {
		s.sourceLang = "en"
	}
	if s.targetLang == "" {
		s.targetLang = "zh"
	}
	if s.matcher == nil {
		s.matcher = reader.NewMatcher()
	}
	return s
}

// Store exposes the underlying store for the change feed and bulk tools.
func (s *Service) Store() *db.Store { return s.store }

// SourceLang is the language words are read in.
func (s *Service) SourceLang() string { return s.sourceLang }

// TargetLang is the language words are translated into.
func (s *Service) TargetLang() string { return s.targetLang }

func (s *Service) recordMutation(ctx context.Context, kind db.ChangeKind) {
	if s.metrics != nil {
		s.metrics.RecordMutation(ctx, string(kind))
	}
}

// Selection is what the reader sees after selecting a word.
type Selection struct {
	Word         string   `json:"word"`
	Sentences    []string `json:"sentences"`
	VocabularyID int64    `json:"vocabulary_id,omitempty"`
	Exists       bool     `json:"exists"`
}

// Select finds the sentences of paragraphs that use word and whether the
// word is already saved.
func (s *Service) Select(ctx context.Context, word string, paragraphs []string) (Selection, error) {
	return s.SelectIn(ctx, word, s.sourceLang, paragraphs)
}

// SelectIn is Select for text in the given language.
func (s *Service) SelectIn(ctx context.Context, word, language string, paragraphs []string) (Selection, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return Selection{}, apperrors.Validation("word must be non-empty")
	}
	if strings.TrimSpace(language) == "" {
		language = s.sourceLang
	}
	sentences, err := s.matcher.Find(paragraphs, word, language)
	if err != nil {
		return Selection{}, err
	}
	id, ok, err := s.store.VocabularyIDByWord(ctx, word)
	if err != nil {
		return Selection{}, err
	}
	if sentences == nil {
		sentences = []string{}
	}
	return Selection{Word: word, Sentences: sentences, VocabularyID: id, Exists: ok}, nil
}

// Exists reports the id of a saved word.
func (s *Service) Exists(ctx context.Context, word string) (int64, bool, error) {
	return s.store.VocabularyIDByWord(ctx, word)
}

// AddWordRequest describes a word being added from the reader. Resource
// labels the attached sentences, usually with the book title.
type AddWordRequest struct {
	Word         string   `json:"word"`
	Translation  string   `json:"translation,omitempty"`
	SourceBookID *int64   `json:"source_book_id,omitempty"`
	Resource     string   `json:"resource,omitempty"`
	Sentences    []string `json:"sentences,omitempty"`
}

// AddWord translates the word when no translation is supplied, saves it and
// attaches the chosen sentences. The word is translated as written and stored
// normalized. A failed translation is logged and the word is saved without one.
func (s *Service) AddWord(ctx context.Context, req AddWordRequest) (db.Vocabulary, error) {
	word := db.NormalizeWord(req.Word)
	if word == "" {
		return db.Vocabulary{}, apperrors.Validation("word must be non-empty")
	}

	translation := strings.TrimSpace(req.Translation)
	if translation == "" && s.translator != nil {
		t, err := s.translator.Translate(ctx, strings.TrimSpace(req.Word), s.targetLang)
		if err != nil {
			log.Warn().Err(err).Str("word", word).Msg("translation failed, saving without one")
		} else {
			translation = t
		}
	}

	v, err := s.store.SaveVocabulary(ctx, db.Vocabulary{
		Word:         word,
		SourceBookID: req.SourceBookID,
		SourceLang:   s.sourceLang,
		TargetLang:   s.targetLang,
		Translation:  translation,
	})
	if err != nil {
		return db.Vocabulary{}, err
	}
	s.recordMutation(ctx, db.VocabularySaved)

	for _, sentence := range req.Sentences {
		if strings.TrimSpace(sentence) == "" {
			continue
		}
		if _, err := s.AddSampleSentence(ctx, v.ID, sentence, req.Resource); err != nil {
			return v, err
		}
	}
	log.Info().Int64("id", v.ID).Str("word", v.Word).Int("sentences", len(req.Sentences)).Msg("word added")
	return v, nil
}

// AddWordAsync runs AddWord in the background and reports through
// onComplete. Without a dispatcher it runs on a plain goroutine.
func (s *Service) AddWordAsync(ctx context.Context, req AddWordRequest, onComplete func(db.Vocabulary, error)) {
	if s.dispatcher == nil {
		go func() {
			v, err := s.AddWord(ctx, req)
			if onComplete != nil {
				onComplete(v, err)
			}
		}()
		return
	}
	ingest.Dispatch(ctx, s.dispatcher, func(ctx context.Context) (db.Vocabulary, error) {
		return s.AddWord(ctx, req)
	}, onComplete)
}

// DeleteWord removes the word's sentences and then the word.
func (s *Service) DeleteWord(ctx context.Context, id int64) error {
	if _, err := s.store.DeleteSampleSentences(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteVocabulary(ctx, id); err != nil {
		return err
	}
	s.recordMutation(ctx, db.VocabularyDeleted)
	log.Info().Int64("id", id).Msg("word deleted")
	return nil
}

// Word returns one saved word.
func (s *Service) Word(ctx context.Context, id int64) (db.Vocabulary, error) {
	return s.store.GetVocabulary(ctx, id)
}

// Words lists every saved word.
func (s *Service) Words(ctx context.Context) ([]db.Vocabulary, error) {
	return s.store.ListVocabulary(ctx)
}

// WordsByBook lists the words saved from one book.
func (s *Service) WordsByBook(ctx context.Context, bookID int64) ([]db.Vocabulary, error) {
	return s.store.ListVocabularyByBook(ctx, bookID)
}

// WordsByLanguages lists the words of one language pair.
func (s *Service) WordsByLanguages(ctx context.Context, src, tar string) ([]db.Vocabulary, error) {
	return s.store.ListVocabularyByLanguages(ctx, src, tar)
}

// AddSampleSentence attaches sentence to a saved word.
func (s *Service) AddSampleSentence(ctx context.Context, vocabularyID int64, sentence, resource string) (db.SampleSentence, error) {
	out, err := s.store.AddSampleSentence(ctx, db.SampleSentence{
		Sentence:     sentence,
		Resource:     resource,
		VocabularyID: vocabularyID,
	})
	if err != nil {
		return db.SampleSentence{}, err
	}
	s.recordMutation(ctx, db.SampleSentenceAdded)
	return out, nil
}

// DeleteSampleSentence removes one sentence.
func (s *Service) DeleteSampleSentence(ctx context.Context, id int64) error {
	if err := s.store.DeleteSampleSentence(ctx, id); err != nil {
		return err
	}
	s.recordMutation(ctx, db.SampleSentenceDeleted)
	return nil
}

// ClearSampleSentences removes every sentence of a word.
func (s *Service) ClearSampleSentences(ctx context.Context, vocabularyID int64) (int64, error) {
	if _, err := s.store.GetVocabulary(ctx, vocabularyID); err != nil {
		return 0, err
	}
	n, err := s.store.DeleteSampleSentences(ctx, vocabularyID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.recordMutation(ctx, db.SampleSentenceDeleted)
	}
	return n, nil
}

// SampleSentences lists the sentences of a word.
func (s *Service) SampleSentences(ctx context.Context, vocabularyID int64) ([]db.SampleSentence, error) {
	if _, err := s.store.GetVocabulary(ctx, vocabularyID); err != nil {
		return nil, err
	}
	return s.store.ListSampleSentences(ctx, vocabularyID)
}

// TranslateSentence translates free text, usually a sample sentence, into
// the target language.
func (s *Service) TranslateSentence(ctx context.Context, text string) (string, error) {
	return s.TranslateTo(ctx, text, s.targetLang)
}

// TranslateTo translates text into the given language.
func (s *Service) TranslateTo(ctx context.Context, text, to string) (string, error) {
	if s.translator == nil {
		return "", apperrors.New(apperrors.KindValidation, "Translation is not configured.", ErrTranslationDisabled)
	}
	if strings.TrimSpace(to) == "" {
		to = s.targetLang
	}
	return s.translator.Translate(ctx, text, to)
}

// RetranslateWord fetches a fresh translation for a saved word and stores it.
func (s *Service) RetranslateWord(ctx context.Context, id int64) (db.Vocabulary, error) {
	v, err := s.store.GetVocabulary(ctx, id)
	if err != nil {
		return db.Vocabulary{}, err
	}
	t, err := s.TranslateTo(ctx, v.Word, v.TargetLang)
	if err != nil {
		return db.Vocabulary{}, err
	}
	if err := s.store.UpdateTranslation(ctx, id, t); err != nil {
		return db.Vocabulary{}, err
	}
	s.recordMutation(ctx, db.VocabularyUpdated)
	v.Translation = t
	return v, nil
}

// CheckSpelling grades a spelling attempt for a saved word.
func (s *Service) CheckSpelling(ctx context.Context, id int64, attempt string) (practice.Result, error) {
	v, err := s.store.GetVocabulary(ctx, id)
	if err != nil {
		return practice.Result{}, err
	}
	return practice.CheckSpelling(attempt, v.Word), nil
}
