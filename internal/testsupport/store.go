package testsupport

import (
	"testing"

	"github.com/Nenoeldeeb/quran-databases/internal/config"
	"github.com/Nenoeldeeb/quran-databases/internal/corpus"
	"github.com/Nenoeldeeb/quran-databases/internal/store"
)

// MustOpenStore opens an edition store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config, edition string) *store.Store {
	t.Helper()

	st, err := store.Open(cfg.DatabasePath(edition), cfg.SQLite.Pragmas)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return st
}

// Fragment builds a corpus fragment with generated text.
func Fragment(chapter, verse int, text string) corpus.Fragment {
	return corpus.Fragment{Chapter: chapter, Verse: verse, Text: text}
}

// SinglePageDocument wraps one page of fragments in a Document.
func SinglePageDocument(page int, fragments ...corpus.Fragment) *corpus.Document {
	return &corpus.Document{Pages: []corpus.Page{{Number: page, Fragments: fragments}}}
}
