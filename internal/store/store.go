package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Store manages one edition's SQLite database.
type Store struct {
	db   *sqlx.DB
	path string
}

// Open initializes or connects to an edition database, applying the given
// pragmas before the schema check.
func Open(path string, pragmas []string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// Pragmas bind per connection, so the pool is pinned to one. A larger
	// pool would hand out connections the pragmas below never touched.
	db.SetMaxOpenConns(1)

	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// DB exposes the underlying connection for maintenance tooling and tests.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Counts reports row totals for every table in the schema.
func (s *Store) Counts(ctx context.Context) (TableCounts, error) {
	var counts TableCounts
	queries := []struct {
		dest  *int
		query string
	}{
		{&counts.Chapters, "SELECT COUNT(*) FROM chapters"},
		{&counts.Verses, "SELECT COUNT(*) FROM verses"},
		{&counts.Pages, "SELECT COUNT(*) FROM pages"},
		{&counts.PageVerses, "SELECT COUNT(*) FROM page_verses"},
	}
	for _, q := range queries {
		if err := s.db.GetContext(ctx, q.dest, q.query); err != nil {
			return TableCounts{}, fmt.Errorf("count rows: %w", err)
		}
	}
	return counts, nil
}

// ChapterByID fetches a single chapter row.
func (s *Store) ChapterByID(ctx context.Context, id int) (*Chapter, error) {
	var chapter Chapter
	err := s.db.GetContext(ctx, &chapter, "SELECT chapter_id, chapter_name, total_verses FROM chapters WHERE chapter_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get chapter %d: %w", id, err)
	}
	return &chapter, nil
}

// VersesByChapter returns a chapter's verses ordered by verse number.
func (s *Store) VersesByChapter(ctx context.Context, chapterID int) ([]Verse, error) {
	var verses []Verse
	err := s.db.SelectContext(ctx, &verses,
		"SELECT verse_id, chapter_id, verse_number, verse_text FROM verses WHERE chapter_id = ? ORDER BY verse_number", chapterID)
	if err != nil {
		return nil, fmt.Errorf("select verses for chapter %d: %w", chapterID, err)
	}
	return verses, nil
}

// PageVersesByPage returns a page's join rows in reading order.
func (s *Store) PageVersesByPage(ctx context.Context, pageID int) ([]PageVerse, error) {
	var rows []PageVerse
	err := s.db.SelectContext(ctx, &rows,
		"SELECT page_id, verse_id, verse_order, starts_new_chapter FROM page_verses WHERE page_id = ? ORDER BY verse_order", pageID)
	if err != nil {
		return nil, fmt.Errorf("select page verses for page %d: %w", pageID, err)
	}
	return rows, nil
}
