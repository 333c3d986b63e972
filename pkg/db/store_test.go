package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/japaniel/wordbook/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *Store {
	t.Helper()
	store, err := Open(Config{Path: ":memory:", MaxConns: 1})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func saveWord(t *testing.T, store *Store, word string) Vocabulary {
	t.Helper()
	v, err := store.SaveVocabulary(context.Background(), Vocabulary{
		Word:        word,
		SourceLang:  "en",
		TargetLang:  "zh",
		Translation: "t:" + word,
	})
	require.NoError(t, err)
	return v
}

func TestSaveVocabularyNormalizesWord(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	v := saveWord(t, store, "  Cat ")
	assert.Equal(t, "cat", v.Word)
	assert.NotZero(t, v.ID)

	for _, probe := range []string{"cat", "CAT", " Cat"} {
		id, ok, err := store.VocabularyIDByWord(ctx, probe)
		require.NoError(t, err)
		assert.True(t, ok, "probe %q", probe)
		assert.Equal(t, v.ID, id)
	}
}

func TestSaveVocabularyTwiceIsDetectable(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	first := saveWord(t, store, "Serendipity")
	second, err := store.SaveVocabulary(ctx, Vocabulary{Word: "serendipity", SourceLang: "en", TargetLang: "zh"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	// An empty translation does not wipe the stored one.
	assert.Equal(t, "t:Serendipity", second.Translation)

	all, err := store.ListVocabulary(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSaveVocabularyValidation(t *testing.T) {
	store := setupTestDB(t)
	_, err := store.SaveVocabulary(context.Background(), Vocabulary{Word: "  ", SourceLang: "en", TargetLang: "zh"})
	kind, ok := apperrors.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindValidation, kind)

	_, err = store.SaveVocabulary(context.Background(), Vocabulary{Word: "cat"})
	assert.Error(t, err)
}

func TestVocabularyIDByWordMissing(t *testing.T) {
	store := setupTestDB(t)
	id, ok, err := store.VocabularyIDByWord(context.Background(), "nothing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, id)
}

func TestListByBookAndLanguages(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	book := int64(7)

	_, err := store.SaveVocabulary(ctx, Vocabulary{Word: "harbor", SourceLang: "en", TargetLang: "zh", SourceBookID: &book})
	require.NoError(t, err)
	_, err = store.SaveVocabulary(ctx, Vocabulary{Word: "lantern", SourceLang: "en", TargetLang: "jp"})
	require.NoError(t, err)

	byBook, err := store.ListVocabularyByBook(ctx, book)
	require.NoError(t, err)
	require.Len(t, byBook, 1)
	assert.Equal(t, "harbor", byBook[0].Word)
	require.NotNil(t, byBook[0].SourceBookID)
	assert.Equal(t, book, *byBook[0].SourceBookID)

	byLang, err := store.ListVocabularyByLanguages(ctx, "en", "jp")
	require.NoError(t, err)
	require.Len(t, byLang, 1)
	assert.Equal(t, "lantern", byLang[0].Word)
}

func TestGetVocabularyNotFound(t *testing.T) {
	store := setupTestDB(t)
	_, err := store.GetVocabulary(context.Background(), 404)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUpdateTranslation(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	v := saveWord(t, store, "quill")

	require.NoError(t, store.UpdateTranslation(ctx, v.ID, "羽毛笔"))
	got, err := store.GetVocabulary(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "羽毛笔", got.Translation)

	assert.ErrorIs(t, store.UpdateTranslation(ctx, 999, "x"), ErrNotFound)
}

func TestDeleteVocabularyRemovesSentences(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	v := saveWord(t, store, "cat")
	other := saveWord(t, store, "dog")

	for _, s := range []string{"The cat sat.", "A cat ran!"} {
		_, err := store.AddSampleSentence(ctx, SampleSentence{Sentence: s, Resource: "Alice", VocabularyID: v.ID})
		require.NoError(t, err)
	}
	_, err := store.AddSampleSentence(ctx, SampleSentence{Sentence: "The dog barked.", Resource: "Alice", VocabularyID: other.ID})
	require.NoError(t, err)

	require.NoError(t, store.DeleteVocabulary(ctx, v.ID))

	count, err := store.CountSampleSentences(ctx, v.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = store.CountSampleSentences(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.ErrorIs(t, store.DeleteVocabulary(ctx, v.ID), ErrNotFound)
}

func TestCascadeDeleteWithoutExplicitSentenceDelete(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	v := saveWord(t, store, "owl")
	_, err := store.AddSampleSentence(ctx, SampleSentence{Sentence: "An owl hooted.", Resource: "Night", VocabularyID: v.ID})
	require.NoError(t, err)

	_, err = store.sqlDB.Exec("DELETE FROM vocabulary WHERE vocabulary_id = ?", v.ID)
	require.NoError(t, err)

	count, err := store.CountSampleSentences(ctx, v.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSampleSentences(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	v := saveWord(t, store, "moon")

	first, err := store.AddSampleSentence(ctx, SampleSentence{Sentence: " The moon rose. ", Resource: "Book", VocabularyID: v.ID})
	require.NoError(t, err)
	assert.Equal(t, "The moon rose.", first.Sentence)
	_, err = store.AddSampleSentence(ctx, SampleSentence{Sentence: "Moon light.", Resource: "Book", VocabularyID: v.ID})
	require.NoError(t, err)

	list, err := store.ListSampleSentences(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)

	require.NoError(t, store.DeleteSampleSentence(ctx, first.ID))
	assert.ErrorIs(t, store.DeleteSampleSentence(ctx, first.ID), ErrNotFound)

	n, err := store.DeleteSampleSentences(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = store.AddSampleSentence(ctx, SampleSentence{Sentence: "orphan", Resource: "x", VocabularyID: 12345})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubscribeReceivesChanges(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	changes, cancel := store.Subscribe(8)
	defer cancel()

	v := saveWord(t, store, "comet")
	require.NoError(t, store.DeleteVocabulary(ctx, v.ID))

	want := []ChangeKind{VocabularySaved, VocabularyDeleted}
	for _, kind := range want {
		select {
		case c := <-changes:
			assert.Equal(t, kind, c.Kind)
			assert.Equal(t, v.ID, c.VocabularyID)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %s", kind)
		}
	}

	cancel()
	_, open := <-changes
	assert.False(t, open)
}

func TestSaveVocabularyConcurrency(t *testing.T) {
	store := setupTestDB(t)
	const n = 8
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		go func() {
			v, err := store.SaveVocabulary(context.Background(), Vocabulary{Word: "Nebula", SourceLang: "en", TargetLang: "zh"})
			if err != nil {
				t.Errorf("save vocabulary: %v", err)
				ids <- 0
				return
			}
			ids <- v.ID
		}()
	}
	var first int64
	for i := 0; i < n; i++ {
		id := <-ids
		if id == 0 {
			t.Fatalf("error in goroutine")
		}
		if i == 0 {
			first = id
		}
		if id != first {
			t.Fatalf("expected same id, got %d and %d", first, id)
		}
	}
	all, err := store.ListVocabulary(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFormatted(t *testing.T) {
	v := Vocabulary{Word: "cat", Translation: "猫"}
	assert.Equal(t, "Word: cat, Translation: 猫", v.Formatted())
}
