package db

import (
	"testing"
)

// TestOpenCreatesSchema verifies a fresh database gets both tables, the
// foreign key with cascade delete and the index on the foreign key.
func TestOpenCreatesSchema(t *testing.T) {
	store := setupTestDB(t)

	for _, table := range []string{"vocabulary", "sample_sentence"} {
		var name string
		if err := store.sqlDB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}

	rows, err := store.sqlDB.Query("PRAGMA foreign_key_list(sample_sentence)")
	if err != nil {
		t.Fatalf("pragma: %v", err)
	}
	defer rows.Close()
	var found bool
	for rows.Next() {
		var id, seq int
		var table, from, to, onUpdate, onDelete, match string
		if err := rows.Scan(&id, &seq, &table, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			t.Fatalf("scan fk: %v", err)
		}
		if table == "vocabulary" && from == "vocabulary_id" && onDelete == "CASCADE" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected sample_sentence.vocabulary_id to cascade from vocabulary")
	}

	var idx string
	if err := store.sqlDB.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name='index_sample_sentence_vocabulary_id'").Scan(&idx); err != nil {
		t.Fatalf("foreign key index missing: %v", err)
	}

	var fk int
	if err := store.sqlDB.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("pragma foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Fatalf("expected foreign keys enabled, got %d", fk)
	}
}

func TestOpenTwiceKeepsData(t *testing.T) {
	path := t.TempDir() + "/wordbook.db"
	store, err := Open(Config{Path: path})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.SaveVocabulary(t.Context(), Vocabulary{Word: "ember", SourceLang: "en", TargetLang: "zh"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	store.Close()

	reopened, err := Open(Config{Path: path})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, ok, err := reopened.VocabularyIDByWord(t.Context(), "ember"); err != nil || !ok {
		t.Fatalf("expected ember after reopen, ok=%v err=%v", ok, err)
	}
}
