package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Nenoeldeeb/quran-databases/internal/corpus"
	"github.com/Nenoeldeeb/quran-databases/internal/logging"
)

// txExecer is the slice of sqlx.Tx the load passes need.
type txExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// LoadStats summarizes one load run.
type LoadStats struct {
	ChaptersInserted int
	ChaptersSkipped  []int
	VersesInserted   int
	PagesInserted    int
	PageVerses       int
}

// Load populates the schema from a combined corpus document and the external
// chapter-name map. Everything runs in a single transaction committed once at
// the end; any storage error rolls the whole load back.
//
// Pass 1 tallies verse occurrences per chapter; chapters present in the name
// map but absent from the corpus are skipped with a warning, never inserted
// with a zero count. Pass 2 walks pages in document order, deduplicating
// verses on their natural key and recording reading order per page.
func (s *Store) Load(ctx context.Context, doc *corpus.Document, names map[int]string, logger *slog.Logger) (*LoadStats, error) {
	if doc == nil {
		return nil, errors.New("corpus document is required")
	}
	if len(names) == 0 {
		return nil, errors.New("chapter-name map is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	tally := tallyVerseCounts(doc)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin load tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stats := &LoadStats{}
	if err := insertChapters(ctx, tx, names, tally, stats, logger); err != nil {
		return nil, err
	}
	if err := insertPagesAndVerses(ctx, tx, doc, stats); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit load: %w", err)
	}
	return stats, nil
}

// tallyVerseCounts is Pass 1: occurrences per chapter across every page.
// A page number recurring in the input groupings counts once; Pass 2 skips
// the later entries the same way, keeping chapter totals reconcilable.
func tallyVerseCounts(doc *corpus.Document) map[int]int {
	counts := make(map[int]int)
	seenPages := make(map[int]bool)
	for _, page := range doc.Pages {
		if seenPages[page.Number] {
			continue
		}
		seenPages[page.Number] = true
		for _, fragment := range page.Fragments {
			counts[fragment.Chapter]++
		}
	}
	return counts
}

func insertChapters(ctx context.Context, tx txExecer, names map[int]string, tally map[int]int, stats *LoadStats, logger *slog.Logger) error {
	ids := make([]int, 0, len(names))
	for id := range names {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		total := tally[id]
		if total == 0 {
			logger.Warn("no verses found for chapter; skipping", slog.Int("chapter", id))
			stats.ChaptersSkipped = append(stats.ChaptersSkipped, id)
			continue
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO chapters (chapter_id, chapter_name, total_verses) VALUES (?, ?, ?)",
			id, names[id], total)
		if err != nil {
			return fmt.Errorf("insert chapter %d: %w", id, err)
		}
		stats.ChaptersInserted++
	}
	return nil
}

// insertPagesAndVerses is Pass 2. The dedup map is scoped to this invocation;
// it is never persisted or shared across runs.
func insertPagesAndVerses(ctx context.Context, tx txExecer, doc *corpus.Document, stats *LoadStats) error {
	verseIDs := make(map[corpus.VerseKey]int64)

	for _, page := range doc.Pages {
		res, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO pages (page_id) VALUES (?)", page.Number)
		if err != nil {
			return fmt.Errorf("insert page %d: %w", page.Number, err)
		}
		inserted, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("page %d rows affected: %w", page.Number, err)
		}
		// Zero rows means the page id recurred in the input groupings. The
		// first entry already holds the page's ordered fragments; replaying
		// the order counter here would collide with its rows.
		if inserted == 0 {
			continue
		}
		stats.PagesInserted++

		currentChapter := 0
		verseOrder := 0
		for _, fragment := range page.Fragments {
			key := fragment.Key()
			verseID, seen := verseIDs[key]
			if !seen {
				res, err := tx.ExecContext(ctx,
					"INSERT INTO verses (chapter_id, verse_number, verse_text) VALUES (?, ?, ?)",
					fragment.Chapter, fragment.Verse, fragment.Text)
				if err != nil {
					return fmt.Errorf("insert verse %d:%d: %w", fragment.Chapter, fragment.Verse, err)
				}
				verseID, err = res.LastInsertId()
				if err != nil {
					return fmt.Errorf("verse %d:%d id: %w", fragment.Chapter, fragment.Verse, err)
				}
				verseIDs[key] = verseID
				stats.VersesInserted++
			}

			startsNewChapter := currentChapter != fragment.Chapter
			_, err = tx.ExecContext(ctx,
				"INSERT INTO page_verses (page_id, verse_id, verse_order, starts_new_chapter) VALUES (?, ?, ?, ?)",
				page.Number, verseID, verseOrder, startsNewChapter)
			if err != nil {
				return fmt.Errorf("insert page %d verse order %d: %w", page.Number, verseOrder, err)
			}
			stats.PageVerses++

			currentChapter = fragment.Chapter
			verseOrder++
		}
	}
	return nil
}
